// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics of a conversion run.
//
// The package exposes a narrow interface (Backend) focused on counters and
// timing data, and a global pluggable backend that defaults to a no-op so
// instrumentation is always safe to call. Concrete metric systems live in
// subpackages (prompush, datadog).
package metrics

import "time"

// Metric names.
const (
	StepTotal    = "phonotactics_step_total"
	StepDuration = "phonotactics_step_duration_seconds"
	RecordsTotal = "phonotactics_records_total"
	TableRows    = "phonotactics_table_rows_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep measures latency and success/failure of one run stage
// (lookups, schema, transform, load).
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

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRow increments a record-level counter for the given job and kind.
//
// Kinds used by the pipeline:
//   - "rows"       source rows read
//   - "languages"  language records emitted
//   - "parameters" catalog entries
//   - "values"     value records emitted
//   - "duplicates" repeated values skipped
//   - "unknown"    cells without a parameter
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RecordsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordTable counts rows written to one output table.
func RecordTable(job, table string, rows int64) {
	if rows <= 0 {
		return
	}
	backend.IncCounter(TableRows, float64(rows), Labels{
		"job":   job,
		"table": table,
	})
}
