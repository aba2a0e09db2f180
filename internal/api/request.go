package api

import (
	"net"
	"net/http"
)

// extractIP extracts the client IP from a request, handling proxied requests.
func extractIP(r *http.Request) string {
	// chi's RealIP middleware rewrites RemoteAddr when TrustProxy is on
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		return r.RemoteAddr
	}
	return ip
}
