package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiconnect "github.com/osa030/onair/internal/api/connect"
	"github.com/osa030/onair/internal/api/onairv1"
	"github.com/osa030/onair/internal/app/auth"
	"github.com/osa030/onair/internal/app/content"
	"github.com/osa030/onair/internal/app/notification"
	"github.com/osa030/onair/internal/app/podcastimport"
	"github.com/osa030/onair/internal/infra/assets"
	"github.com/osa030/onair/internal/infra/config"
	"github.com/osa030/onair/internal/infra/metrics"
	"github.com/osa030/onair/internal/infra/store/storetest"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type testServer struct {
	*httptest.Server
	auth   *auth.Service
	assets *assets.Store
	down   atomic.Bool
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := storetest.Open(t)
	notifications := notification.NewManager()
	services := content.New(db, content.Options{Inbox: apiconnect.NewInboxBroadcaster(notifications)})
	authService := auth.NewService(db, auth.Config{
		Secret: []byte("0123456789abcdef0123"),
		Issuer: "onair",
		TTL:    time.Hour,
	}, time.Now)
	store, err := assets.NewStore(assets.Config{Root: t.TempDir(), BaseURL: "/media", MaxBytes: 1024})
	require.NoError(t, err)
	cfg := &config.Config{Station: config.StationConfig{Name: "Onair FM", StreamURL: "https://stream.example.com/live"}}
	m := metrics.New()

	admin := apiconnect.NewAdminService(apiconnect.AdminServiceDeps{
		Content:       services,
		Importer:      podcastimport.New(nil, services.Podcasts),
		Assets:        store,
		Notifications: notifications,
		Metrics:       m,
	})
	ts := &testServer{auth: authService, assets: store}

	handler := NewRouter(Deps{
		Site:          apiconnect.NewSiteService(services, cfg, m),
		Auth:          apiconnect.NewAuthService(authService, m),
		Admin:         admin,
		Authenticator: authService,
		Assets:        store,
		Metrics:       m,
		MetricsPath:   "/metrics",
		UpdateGauges:  func() { m.SetInboxWatchers(notifications.SubscriberCount()) },
		Ping: func(ctx context.Context) error {
			if ts.down.Load() {
				return errors.New("database is gone")
			}
			return nil
		},
	})
	ts.Server = httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	t.Cleanup(admin.Close)
	return ts
}

func (s *testServer) token(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	_, err := s.auth.CreateAdmin(ctx, "host@example.com", "Host", "correct-horse")
	require.NoError(t, err)
	token, err := s.auth.Login(ctx, "host@example.com", "correct-horse")
	require.NoError(t, err)
	return token.Value
}

func (s *testServer) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := s.Client().Get(s.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (s *testServer) upload(t *testing.T, token, folder, filename string, data []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("folder", folder))
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, s.URL+ImagesPath, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	s.down.Store(true)
	resp, body = s.get(t, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.JSONEq(t, `{"status":"unavailable"}`, body)
}

func TestRouter_ConnectServices(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	site := onairv1.NewSiteServiceClient(s.Client(), s.URL)
	station, err := site.GetStation(ctx, &onairv1.GetStationRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Onair FM", station.Station.Name)
	assert.Nil(t, station.OnAir)

	admin := onairv1.NewAdminServiceClient(s.Client(), s.URL, s.token(t))
	dashboard, err := admin.GetDashboard(ctx, &onairv1.GetDashboardRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), dashboard.Programs)
}

func TestRouter_ImageUpload(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t)

	resp := s.upload(t, token, "news", "cover.png", pngHeader)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var uploaded onairv1.UploadImageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&uploaded))
	assert.Equal(t, "image/png", uploaded.ContentType)

	served, body := s.get(t, uploaded.URL)
	assert.Equal(t, http.StatusOK, served.StatusCode)
	assert.Equal(t, string(pngHeader), body)

	listing, _ := s.get(t, "/media/news/")
	assert.Equal(t, http.StatusNotFound, listing.StatusCode)

	tests := []struct {
		name     string
		token    string
		folder   string
		filename string
		data     []byte
		status   int
	}{
		{"no token", "", "news", "cover.png", pngHeader, http.StatusUnauthorized},
		{"bad token", "garbage", "news", "cover.png", pngHeader, http.StatusUnauthorized},
		{"unknown folder", token, "music", "cover.png", pngHeader, http.StatusBadRequest},
		{"not an image", token, "news", "notes.txt", []byte("plain text"), http.StatusBadRequest},
		{"too large", token, "news", "big.png", append(append([]byte{}, pngHeader...), make([]byte, 2048)...), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.upload(t, tt.token, tt.folder, tt.filename, tt.data)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer(t)

	s.get(t, "/healthz")
	s.get(t, "/missing")

	resp, body := s.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `onair_requests_total{method="GET"}`)
	assert.Contains(t, body, "onair_errors_total 1")
	assert.Contains(t, body, "onair_inbox_watchers 0")
}
