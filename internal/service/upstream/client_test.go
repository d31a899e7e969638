package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"Aletheia/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordResolution(string)       {}
func (nopMetrics) RecordUpstreamRetry()          {}
func (nopMetrics) RecordSelfHeal()               {}
func (nopMetrics) RecordCacheWriteFailure()      {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordLatency(string, float64) {}

func testClient(t *testing.T, baseURL string, retries int) *Client {
	t.Helper()
	lgr, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return New(lgr, nopMetrics{}, Config{
		BaseURL:        baseURL,
		RetryCount:     retries,
		RetryDelay:     time.Millisecond,
		RequestTimeout: time.Second,
	}).(*Client)
}

func TestFetchPredictionSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict/NVDA" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"reliability_score":91,"regime":"Momentum","prediction":0.0021,"is_consistent":true}`))
	}))
	defer srv.Close()

	p, err := testClient(t, srv.URL, 3).FetchPrediction(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if p.ReliabilityScore != 91 || p.Regime != "Momentum" {
		t.Fatalf("payload = %+v", p)
	}
	if p.InTraining() {
		t.Fatal("payload wrongly flagged as training")
	}
}

func TestFetchPredictionTrainingIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"training","message":"model warming up"}`))
	}))
	defer srv.Close()

	p, err := testClient(t, srv.URL, 3).FetchPrediction(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !p.InTraining() {
		t.Fatal("training payload not recognized")
	}
}

func TestFetchPredictionRetriesTransientStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"reliability_score":80,"regime":"Recovery","prediction":0.001,"is_consistent":true}`))
	}))
	defer srv.Close()

	if _, err := testClient(t, srv.URL, 5).FetchPrediction(context.Background(), "AMD"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("made %d calls, want 3", got)
	}
}

func TestFetchPredictionFatalStatusDoesNotRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"unknown ticker"}`))
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL, 5).FetchPrediction(context.Background(), "XXXX")
	if err == nil {
		t.Fatal("expected error")
	}

	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Fatalf("err = %v, want StatusError 404", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("made %d calls, want 1 (4xx is fatal)", got)
	}
}

func TestFetchPredictionExhaustion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL, 3).FetchPrediction(context.Background(), "NVDA")

	var unavail *UnavailableError
	if !errors.As(err, &unavail) {
		t.Fatalf("err = %v, want UnavailableError", err)
	}
	if unavail.Attempts != 3 {
		t.Fatalf("attempts = %d", unavail.Attempts)
	}

	// the last underlying status must remain reachable for pass-through
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusInternalServerError {
		t.Fatalf("wrapped err = %v, want StatusError 500", unavail.Last)
	}
}

func TestFetchTickerListDoesNotRetry500(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL, 5).FetchTickerList(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("made %d calls, want 1 (500 is fatal for the list)", got)
	}
}

func TestFetchTickerListRetries503(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"ticker":"NVDA","name":"NVIDIA","price":480,"change":1.2,"is_analyzed":true}]`))
	}))
	defer srv.Close()

	list, err := testClient(t, srv.URL, 5).FetchTickerList(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(list) != 1 || list[0].Ticker != "NVDA" {
		t.Fatalf("list = %+v", list)
	}
}

func TestFetchPredictionClassifiesTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close() // nothing listening anymore

	_, err := testClient(t, base, 2).FetchPrediction(context.Background(), "NVDA")

	var unavail *UnavailableError
	if !errors.As(err, &unavail) {
		t.Fatalf("err = %v, want UnavailableError (refused connection retries)", err)
	}
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want wrapped TransportError", err)
	}
	if !errors.Is(err, syscall.ECONNREFUSED) {
		t.Fatalf("refused connection no longer detectable through the wrap: %v", err)
	}
}

func TestFetchSurvivesCallerCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"reliability_score":80,"regime":"Recovery","prediction":0.001,"is_consistent":true}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // caller is already gone

	if _, err := testClient(t, srv.URL, 3).FetchPrediction(ctx, "NVDA"); err != nil {
		t.Fatalf("fetch after caller cancellation: %v", err)
	}
}
