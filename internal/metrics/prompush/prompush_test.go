package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/weirdgiraffe/brcstats/internal/metrics"
)

// readCounterValue reads the current value of a Counter for assertions in tests.
func readCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Counter.Write() error = %v", err)
	}
	if m.GetCounter() == nil {
		t.Fatalf("metric did not contain Counter value")
	}
	return m.GetCounter().GetValue()
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend("brc", ""); err == nil {
		t.Fatal("NewBackend() without URL returned no error")
	}
	b, err := NewBackend("", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}
	if b.jobName != "brc" {
		t.Fatalf("jobName = %q, want default brc", b.jobName)
	}
}

func TestIncCounter(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("brc", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}

	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "merge", "status": "success"})
	b.IncCounter(metrics.RecordsTotal, 42, metrics.Labels{"kind": "processed"})
	b.IncCounter(metrics.RecordsTotal, 8, metrics.Labels{"kind": "processed"})
	b.IncCounter(metrics.ChunksTotal, 3, nil)
	b.IncCounter("unknown_metric", 1, nil)
	b.ObserveHistogram(metrics.StepDuration, 0.25, metrics.Labels{"step": "merge", "status": "success"})

	if got := readCounterValue(t, b.stepCounter.WithLabelValues("merge", "success")); got != 1 {
		t.Fatalf("step counter = %v, want 1", got)
	}
	if got := readCounterValue(t, b.recordCounter.WithLabelValues("processed")); got != 50 {
		t.Fatalf("record counter = %v, want 50", got)
	}
	if got := readCounterValue(t, b.counters[metrics.ChunksTotal]); got != 3 {
		t.Fatalf("chunks counter = %v, want 3", got)
	}
}

func TestFlushPushesToGateway(t *testing.T) {
	t.Parallel()

	var (
		gotMethod string
		gotPath   string
		gotBody   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBackend("brc-test", srv.URL)
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}
	b.IncCounter(metrics.KeysTotal, 413, nil)

	if err := b.Flush(); err != nil {
		t.Fatalf("failed to flush: %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Fatalf("method = %s, want PUT", gotMethod)
	}
	if gotPath != "/metrics/job/brc-test" {
		t.Fatalf("path = %s", gotPath)
	}
	if !strings.Contains(gotBody, metrics.KeysTotal) {
		t.Fatalf("pushed body does not mention %s", metrics.KeysTotal)
	}
}

func TestFlushGatewayError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	b, err := NewBackend("brc", srv.URL)
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}
	if err := b.Flush(); err == nil {
		t.Fatal("Flush() against a failing gateway returned no error")
	}
}
