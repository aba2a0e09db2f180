package pinger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/caffeinatedprojects/networkr-companion/internal/api"
	"github.com/caffeinatedprojects/networkr-companion/internal/config"
	"github.com/caffeinatedprojects/networkr-companion/internal/metrics"
	"github.com/caffeinatedprojects/networkr-companion/internal/signature"
)

var testSite = config.Site{WebsiteID: 42, Secret: "s3cr3t"}

func newSiteServer(t *testing.T, site config.Site) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	ts := httptest.NewServer(api.NewRouter(&cfg, config.StaticSite(site), metrics.New("test")))
	t.Cleanup(ts.Close)
	return ts
}

func TestCheck_RoundTrip(t *testing.T) {
	srv := newSiteServer(t, testSite)
	c := New(srv.URL+"/pressillion/v1/", testSite, WithHTTPClient(srv.Client()))

	report, err := c.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !report.OK {
		t.Error("expected ok report")
	}
	if report.WebsiteID != 42 {
		t.Errorf("expected website_id 42, got %d", report.WebsiteID)
	}
	if report.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", report.StatusCode)
	}
	if report.RequestID == "" {
		t.Error("expected request id")
	}
	if _, err := time.Parse(time.RFC3339, report.Time); err != nil {
		t.Errorf("time %q is not RFC3339: %v", report.Time, err)
	}
}

func TestCheck_WrongSecret(t *testing.T) {
	srv := newSiteServer(t, testSite)
	c := New(srv.URL+"/pressillion/v1", config.Site{WebsiteID: 42, Secret: "guess"}, WithHTTPClient(srv.Client()))

	report, err := c.Check(context.Background())

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", se.StatusCode)
	}
	if report == nil || report.Error != "Invalid signature" {
		t.Errorf("expected Invalid signature report, got %+v", report)
	}
}

func TestCheck_SkewedClock(t *testing.T) {
	srv := newSiteServer(t, testSite)
	skewed := func() time.Time { return time.Now().Add(-10 * time.Minute) }
	c := New(srv.URL+"/pressillion/v1", testSite, WithHTTPClient(srv.Client()), WithClock(skewed))

	report, err := c.Check(context.Background())
	if err == nil {
		t.Fatal("expected error for skewed clock")
	}
	if report == nil || report.Error != "Expired request" {
		t.Errorf("expected Expired request report, got %+v", report)
	}
}

func TestCheck_SiteNotConfigured(t *testing.T) {
	srv := newSiteServer(t, config.Site{})
	c := New(srv.URL+"/pressillion/v1", testSite, WithHTTPClient(srv.Client()))

	_, err := c.Check(context.Background())

	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 StatusError, got %v", err)
	}
	if se.Message != "Health check not configured" {
		t.Errorf("unexpected message %q", se.Message)
	}
}

func TestCheck_ClientNotConfigured(t *testing.T) {
	c := New("http://127.0.0.1:1", config.Site{WebsiteID: 42})

	if _, err := c.Check(context.Background()); !errors.Is(err, signature.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestCheck_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, testSite, WithHTTPClient(srv.Client()))
	_, err := c.Check(context.Background())

	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502 StatusError, got %v", err)
	}
}

func TestCheck_SendsSignedRequest(t *testing.T) {
	var gotQuery url.Values
	var gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotRequestID = r.Header.Get("X-Request-Id")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"website_id":42}`))
	}))
	defer srv.Close()

	clock := func() time.Time { return time.Unix(1700000000, 0) }
	c := New(srv.URL, testSite, WithHTTPClient(srv.Client()), WithClock(clock))

	report, err := c.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	if gotQuery.Get("ts") != "1700000000" {
		t.Errorf("expected ts 1700000000, got %q", gotQuery.Get("ts"))
	}
	if want := signature.Sign("1700000000", 42, "s3cr3t"); gotQuery.Get("sig") != want {
		t.Errorf("expected sig %s, got %s", want, gotQuery.Get("sig"))
	}
	if gotRequestID == "" || gotRequestID != report.RequestID {
		t.Errorf("request id mismatch: sent %q, report %q", gotRequestID, report.RequestID)
	}
}
