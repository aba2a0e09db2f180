package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/caffeinatedprojects/networkr-companion/internal/config"
	"github.com/caffeinatedprojects/networkr-companion/internal/docs"
	"github.com/caffeinatedprojects/networkr-companion/internal/metrics"
)

// Version is reported in the health payload. Overridden at build time with -ldflags.
var Version = "dev"

// SecureHeadersWithConfig returns middleware that adds security headers including HSTS when HTTPS is enabled.
func SecureHeadersWithConfig(hsts bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

			if hsts {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// NewRouter builds the HTTP router serving the signed health check, the
// unauthenticated probes, metrics and API docs.
func NewRouter(cfg *config.Config, site config.SiteSource, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Only trust X-Forwarded-For behind a known reverse proxy.
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}

	r.Use(SecureHeadersWithConfig(cfg.HSTS))

	healthH := NewHealthHandler(site, m, time.Now)

	// Probes and metrics (unauthenticated)
	r.Get("/healthz", Healthz)
	r.Get("/readyz", Readyz(site))
	r.Handle("/metrics", m.Handler())

	base := "/" + cfg.Namespace
	docs.SwaggerInfo.BasePath = base

	r.Route(base, func(api chi.Router) {
		// Access control happens inside the handler via the request signature.
		api.Get("/health", healthH.Check)

		api.Get("/docs/*", httpSwagger.Handler(
			httpSwagger.URL(base+"/docs/doc.json"),
		))
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ErrorResponse is the body of every rejected health check.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{OK: false, Error: message})
}
