// Package httpapi assembles the HTTP surface of the station server: the Connect
// services, uploaded media, health, metrics and the multipart image upload.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apiconnect "github.com/osa030/onair/internal/api/connect"
	"github.com/osa030/onair/internal/infra/assets"
	"github.com/osa030/onair/internal/infra/logger"
	"github.com/osa030/onair/internal/infra/metrics"
)

// ImagesPath accepts multipart image uploads.
const ImagesPath = "/admin/images"

// Deps holds everything the router mounts.
type Deps struct {
	Site          *apiconnect.SiteService
	Auth          *apiconnect.AuthService
	Admin         *apiconnect.AdminService
	Authenticator apiconnect.Authenticator
	Assets        *assets.Store
	Metrics       *metrics.Metrics // Optional
	MetricsPath   string           // Empty disables the metrics endpoint
	UpdateGauges  func()           // Called before each metrics scrape
	Ping          func(ctx context.Context) error
}

// NewRouter returns the HTTP handler of the server.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(logger.RequestLogger())
	r.Use(metrics.RequestMiddleware(deps.Metrics))

	r.Get("/healthz", healthHandler(deps.Ping))
	if deps.Metrics != nil && deps.MetricsPath != "" {
		r.Method(http.MethodGet, deps.MetricsPath, deps.Metrics.Handler(deps.UpdateGauges))
	}

	if base := mediaPath(deps.Assets.BaseURL()); base != "" {
		r.Handle(base+"/*", mediaHandler(base, deps.Assets.Root()))
	}

	images := &imageHandler{
		authenticator: deps.Authenticator,
		assets:        deps.Assets,
		metrics:       deps.Metrics,
	}
	r.Post(ImagesPath, images.ServeHTTP)

	r.Mount(apiconnect.NewSiteServiceHandler(deps.Site))
	r.Mount(apiconnect.NewAuthServiceHandler(deps.Auth, deps.Authenticator))
	r.Mount(apiconnect.NewAdminServiceHandler(deps.Admin, deps.Authenticator))

	return r
}

// NewServer creates an HTTP server with h2c (HTTP/2 cleartext) support.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func healthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "ok", http.StatusOK
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				zlog.Warn().Err(err).Msg("health check failed")
				status, code = "unavailable", http.StatusServiceUnavailable
			}
		}
		writeJSON(w, code, map[string]string{"status": status})
	}
}

// mediaPath returns the local mount path of the media base URL. Media on
// another host is not served here.
func mediaPath(base string) string {
	if !strings.Contains(base, "://") {
		return base
	}
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return strings.TrimRight(u.Path, "/")
}

// mediaHandler serves uploaded files without directory listings.
func mediaHandler(base, root string) http.Handler {
	files := http.StripPrefix(base, http.FileServer(http.Dir(root)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		files.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Debug().Err(err).Msg("failed to write response")
	}
}
