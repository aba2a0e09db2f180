// Package signature authenticates health pings from the platform.
//
// A ping carries a Unix timestamp and a hex HMAC-SHA256 of
// "{timestamp}|{websiteID}" keyed by the site's shared secret. Verify
// accepts it when the site is configured, both values are present, the
// timestamp is within Window of the verifier's clock, and the digest
// matches.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/caffeinatedprojects/networkr-companion/internal/config"
)

// Window is the accepted skew between the ping timestamp and the local
// clock, in either direction. The boundary itself is accepted.
const Window = 300 * time.Second

var (
	ErrNotConfigured     = errors.New("health check not configured")
	ErrMissingParameters = errors.New("missing parameters")
	ErrExpired           = errors.New("expired request")
	ErrInvalidSignature  = errors.New("invalid signature")
)

// Sign returns the lowercase hex HMAC-SHA256 of "{ts}|{websiteID}" keyed by secret.
func Sign(ts string, websiteID int64, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + "|" + strconv.FormatInt(websiteID, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a ping against site at time now. Checks run in a fixed
// order and the first failure is returned, so an unconfigured site always
// reports ErrNotConfigured whatever the caller sent.
func Verify(site config.Site, ts, sig string, now time.Time) error {
	if !site.Configured() {
		return ErrNotConfigured
	}

	if ts == "" || sig == "" {
		return ErrMissingParameters
	}

	if !fresh(ts, now) {
		return ErrExpired
	}

	expected := Sign(ts, site.WebsiteID, site.Secret)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(sig)) != 1 {
		return ErrInvalidSignature
	}

	return nil
}

// fresh reports whether ts parses to a positive Unix time within Window of now.
// Parse failures are folded into the same answer as stale timestamps.
func fresh(ts string, now time.Time) bool {
	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil || sec <= 0 {
		return false
	}

	// now.Unix() and sec are both positive, so the difference cannot overflow.
	delta := now.Unix() - sec
	if delta < 0 {
		delta = -delta
	}
	return delta <= int64(Window/time.Second)
}

// Outcome labels err for metrics and audit logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrMissingParameters):
		return "missing_parameters"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	default:
		return "unknown"
	}
}
