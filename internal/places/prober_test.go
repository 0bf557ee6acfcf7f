package places_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vportales/geoprobe/internal/catalog"
	"github.com/vportales/geoprobe/internal/places"
)

func newTestProber(t *testing.T, target string) *places.Prober {
	t.Helper()
	cat, err := catalog.New([]string{"copec", "pharmacy chile"}, catalog.Shared{
		Key:      "test-key",
		Location: "-33.4489,-70.6693",
		Radius:   50000,
		Language: "es",
	})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	prober, err := places.NewProber(places.NewClient(5*time.Second), cat, target)
	if err != nil {
		t.Fatalf("NewProber: %v", err)
	}
	return prober
}

func TestProbeSuccess(t *testing.T) {
	var gotQuery, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK","results":[{"name":"a"},{"name":"b"},{"name":"c"}]}`))
	}))
	defer server.Close()

	outcome := newTestProber(t, server.URL).Probe(context.Background(), 1)

	if !outcome.Success {
		t.Fatalf("expected success, got error %q", outcome.Error)
	}
	if outcome.WorkerID != 1 {
		t.Errorf("WorkerID = %d", outcome.WorkerID)
	}
	if outcome.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", outcome.StatusCode)
	}
	if outcome.APIStatus != places.StatusOK {
		t.Errorf("APIStatus = %q", outcome.APIStatus)
	}
	if outcome.ResultsCount != 3 {
		t.Errorf("ResultsCount = %d, want 3", outcome.ResultsCount)
	}
	if outcome.ResponseTimeMs <= 0 {
		t.Errorf("ResponseTimeMs = %v, want > 0", outcome.ResponseTimeMs)
	}
	if outcome.Error != "" {
		t.Errorf("Error = %q, want empty", outcome.Error)
	}
	if gotQuery != "copec" {
		t.Errorf("server saw query %q, want copec", gotQuery)
	}
	if gotKey != "test-key" {
		t.Errorf("server saw key %q", gotKey)
	}
}

func TestProbeQueryFollowsWorkerIndex(t *testing.T) {
	queries := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries <- r.URL.Query().Get("query")
		w.Write([]byte(`{"status":"OK","results":[]}`))
	}))
	defer server.Close()

	prober := newTestProber(t, server.URL)

	prober.Probe(context.Background(), 2)
	if got := <-queries; got != "pharmacy chile" {
		t.Errorf("worker 2 sent query %q", got)
	}
	prober.Probe(context.Background(), 3)
	if got := <-queries; got != "copec" {
		t.Errorf("worker 3 sent query %q, want wraparound to copec", got)
	}
}

func TestProbeRequestDenied(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid."}`))
	}))
	defer server.Close()

	outcome := newTestProber(t, server.URL).Probe(context.Background(), 1)

	if outcome.Success {
		t.Fatal("expected failure")
	}
	if outcome.APIStatus != places.StatusRequestDenied {
		t.Errorf("APIStatus = %q", outcome.APIStatus)
	}
	if outcome.Error != "The provided API key is invalid." {
		t.Errorf("Error = %q, want upstream error_message", outcome.Error)
	}
}

func TestProbeRequestDeniedWithoutMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"REQUEST_DENIED"}`))
	}))
	defer server.Close()

	outcome := newTestProber(t, server.URL).Probe(context.Background(), 1)

	if outcome.Error != places.ErrMsgRequestDenied {
		t.Errorf("Error = %q, want %q", outcome.Error, places.ErrMsgRequestDenied)
	}
}

func TestProbeOverQueryLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OVER_QUERY_LIMIT"}`))
	}))
	defer server.Close()

	outcome := newTestProber(t, server.URL).Probe(context.Background(), 1)

	if outcome.Success {
		t.Fatal("expected failure")
	}
	if outcome.APIStatus != places.StatusOverQueryLimit {
		t.Errorf("APIStatus = %q", outcome.APIStatus)
	}
	if outcome.Error != places.ErrMsgRateLimited {
		t.Errorf("Error = %q, want %q", outcome.Error, places.ErrMsgRateLimited)
	}
}

func TestProbeInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	outcome := newTestProber(t, server.URL).Probe(context.Background(), 1)

	if outcome.Success {
		t.Fatal("expected failure")
	}
	if outcome.Error != places.ErrMsgInvalidJSON {
		t.Errorf("Error = %q, want %q", outcome.Error, places.ErrMsgInvalidJSON)
	}
	if outcome.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", outcome.StatusCode)
	}
}

func TestProbeHTTPForbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	outcome := newTestProber(t, server.URL).Probe(context.Background(), 1)

	if outcome.Success {
		t.Fatal("expected failure")
	}
	if outcome.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d", outcome.StatusCode)
	}
	if outcome.Error != places.ErrMsgForbidden {
		t.Errorf("Error = %q, want %q", outcome.Error, places.ErrMsgForbidden)
	}
	if outcome.APIStatus != places.StatusUnknown {
		t.Errorf("APIStatus = %q, want %q", outcome.APIStatus, places.StatusUnknown)
	}
}

func TestProbeHTTPTooManyRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	outcome := newTestProber(t, server.URL).Probe(context.Background(), 1)

	if outcome.Error != places.ErrMsgTooManyRequests {
		t.Errorf("Error = %q, want %q", outcome.Error, places.ErrMsgTooManyRequests)
	}
}

func TestProbeHTTPServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	outcome := newTestProber(t, server.URL).Probe(context.Background(), 1)

	if outcome.Error != "HTTP 500" {
		t.Errorf("Error = %q, want HTTP 500", outcome.Error)
	}
}

func TestProbeTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	outcome := newTestProber(t, server.URL).Probe(context.Background(), 1)

	if outcome.Success {
		t.Fatal("expected failure")
	}
	if outcome.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for transport failure", outcome.StatusCode)
	}
	if outcome.ResponseTimeMs != 0 {
		t.Errorf("ResponseTimeMs = %v, want 0 for transport failure", outcome.ResponseTimeMs)
	}
	if outcome.Error == "" {
		t.Error("Error is empty, want transport error text")
	}
	if outcome.APIStatus != places.StatusUnknown {
		t.Errorf("APIStatus = %q, want %q", outcome.APIStatus, places.StatusUnknown)
	}
}

func TestProbeCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","results":[]}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := newTestProber(t, server.URL).Probe(ctx, 1)
	if outcome.Success {
		t.Fatal("expected failure under cancelled context")
	}
	if outcome.Error == "" {
		t.Error("Error is empty, want context error text")
	}
}

func TestNewProberValidation(t *testing.T) {
	cat, err := catalog.New([]string{"copec"}, catalog.Shared{})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	client := places.NewClient(time.Second)

	if _, err := places.NewProber(nil, cat, "http://example.com"); err == nil {
		t.Error("expected error for nil client")
	}
	if _, err := places.NewProber(client, nil, "http://example.com"); err == nil {
		t.Error("expected error for nil catalog")
	}
	if _, err := places.NewProber(client, cat, ""); err == nil {
		t.Error("expected error for empty target")
	}
}
