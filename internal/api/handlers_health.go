package api

import (
	"errors"
	"log"
	"net/http"
	"runtime"
	"time"

	"github.com/caffeinatedprojects/networkr-companion/internal/config"
	"github.com/caffeinatedprojects/networkr-companion/internal/metrics"
	"github.com/caffeinatedprojects/networkr-companion/internal/signature"
)

// timeLayout renders UTC with an explicit +00:00 offset.
const timeLayout = "2006-01-02T15:04:05-07:00"

// Healthz returns a simple liveness payload.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Readyz reports whether the site credentials are present. It never says which one is missing.
func Readyz(site config.SiteSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !site().Configured() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
		})
	}
}

// HealthResponse is the body of an accepted health check.
type HealthResponse struct {
	OK        bool   `json:"ok"`
	WebsiteID int64  `json:"website_id"`
	Version   string `json:"version"`
	Go        string `json:"go"`
	Time      string `json:"time"`
}

type HealthHandler struct {
	site    config.SiteSource
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewHealthHandler(site config.SiteSource, m *metrics.Metrics, now func() time.Time) *HealthHandler {
	return &HealthHandler{site: site, metrics: m, now: now}
}

// Check verifies a signed ping and reports platform health.
// @Summary      Signed health check
// @Tags         health
// @Produce      json
// @Param        ts   query    string true "Unix timestamp in seconds"
// @Param        sig  query    string true "Lowercase hex HMAC-SHA256 of ts|website_id"
// @Success      200  {object} HealthResponse
// @Failure      401  {object} ErrorResponse
// @Failure      500  {object} ErrorResponse
// @Router       /health [get]
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	site := h.site()
	q := r.URL.Query()
	now := h.now()

	err := signature.Verify(site, q.Get("ts"), q.Get("sig"), now)
	outcome := signature.Outcome(err)
	if h.metrics != nil {
		h.metrics.ObserveCheck(outcome, now)
	}

	if err != nil {
		status, message := failureResponse(err)
		log.Printf("AUDIT: [HEALTH] Rejected health check from IP %s outcome=%s", sanitizeLog(extractIP(r)), outcome) // #nosec G706 -- sanitized
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		OK:        true,
		WebsiteID: site.WebsiteID,
		Version:   Version,
		Go:        runtime.Version(),
		Time:      h.now().UTC().Format(timeLayout),
	})
}

// failureResponse maps a verification error to its public status and message.
// Unparsable and stale timestamps share one message.
func failureResponse(err error) (int, string) {
	switch {
	case errors.Is(err, signature.ErrNotConfigured):
		return http.StatusInternalServerError, "Health check not configured"
	case errors.Is(err, signature.ErrMissingParameters):
		return http.StatusUnauthorized, "Missing parameters"
	case errors.Is(err, signature.ErrExpired):
		return http.StatusUnauthorized, "Expired request"
	case errors.Is(err, signature.ErrInvalidSignature):
		return http.StatusUnauthorized, "Invalid signature"
	default:
		return http.StatusInternalServerError, "Health check failed"
	}
}
