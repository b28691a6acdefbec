package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestMiddleware(t *testing.T) {
	m := New()
	handler := RequestMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))

	for _, path := range []string{"/", "/missing", "/"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	text := scrape(t, m)
	assert.Contains(t, text, `onair_requests_total{method="GET"} 3`)
	assert.Contains(t, text, `onair_errors_total 1`)
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestRequestMiddleware_NilMetrics(t *testing.T) {
	called := false
	handler := RequestMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

func TestHandler(t *testing.T) {
	m := New()
	m.IncContactSubmission("success")
	m.IncContactSubmission("rate_limited")
	m.IncLogin(true)
	m.IncLogin(false)
	m.IncUploads()
	m.AddImportedEpisodes(4)

	refreshed := false
	srv := httptest.NewServer(m.Handler(func() {
		refreshed = true
		m.SetInboxWatchers(2)
		m.SetActiveSessions(1)
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.True(t, refreshed)
	text := string(body)
	assert.Contains(t, text, `onair_contact_submissions_total{code="rate_limited"} 1`)
	assert.Contains(t, text, `onair_admin_logins_total{result="success"} 1`)
	assert.Contains(t, text, `onair_image_uploads_total 1`)
	assert.Contains(t, text, `onair_imported_episodes_total 4`)
	assert.Contains(t, text, `onair_inbox_watchers 2`)
	assert.Contains(t, text, `onair_admin_sessions 1`)
}
