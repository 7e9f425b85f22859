// Package metrics is a small backend-agnostic layer for run metrics.
//
// A no-op backend is installed by default so instrumentation is always safe
// to call. Concrete backends live in subpackages (prompush, datadog) so the
// aggregation code never imports a metrics client directly.
package metrics

import (
	"sync"
	"time"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Metric names understood by the backends.
const (
	StepTotal       = "brc_step_total"
	StepDuration    = "brc_step_duration_seconds"
	RecordsTotal    = "brc_records_total"
	ChunksTotal     = "brc_chunks_total"
	KeysTotal       = "brc_keys_total"
	InputBytesTotal = "brc_input_bytes_total"
)

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a duration style value.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes buffered metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs b. Passing nil restores the no-op backend.
func SetBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	if b == nil {
		b = nopBackend{}
	}
	backend = b
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

// RecordStep counts one execution of a pipeline step and its duration.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}
	b := current()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRecords counts records of the given kind, e.g. "processed" or
// "skipped".
func RecordRecords(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RecordsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordCount increments a plain per-job counter such as ChunksTotal.
func RecordCount(job, name string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(name, float64(delta), Labels{"job": job})
}
