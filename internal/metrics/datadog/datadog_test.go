package datadog

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"phonotactics/internal/metrics"
)

type sample struct {
	kind  string
	name  string
	value float64
	tags  []string
}

type fakeClient struct {
	samples []sample
	closed  bool
	err     error
}

func (f *fakeClient) Count(name string, value int64, tags []string, rate float64) error {
	f.samples = append(f.samples, sample{"count", name, float64(value), tags})
	return nil
}

func (f *fakeClient) Histogram(name string, value float64, tags []string, rate float64) error {
	f.samples = append(f.samples, sample{"histogram", name, value, tags})
	return nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return f.err
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend(Config{}); err == nil {
		t.Fatal("expected error for empty Addr")
	}
	b, err := NewBackend(Config{Addr: "127.0.0.1:8125", GlobalTags: []string{"env:test"}})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter(metrics.RecordsTotal, 3, metrics.Labels{"kind": "values"})
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func TestBackendThroughFacade(t *testing.T) {
	// Not parallel: installs the global metrics backend.
	fc := &fakeClient{}
	metrics.SetBackend(&Backend{c: fc})
	t.Cleanup(func() { metrics.SetBackend(&Backend{}) })

	metrics.RecordStep("cldf", "load", nil, 250*time.Millisecond)
	metrics.RecordTable("cldf", "ValueTable", 12)
	metrics.RecordRow("cldf", "duplicates", 0)

	want := []sample{
		{"count", "step.total", 1, []string{"job:cldf", "status:success", "step:load"}},
		{"histogram", "step.duration_seconds", 0.25, []string{"job:cldf", "status:success", "step:load"}},
		{"count", "table.rows_total", 12, []string{"job:cldf", "table:ValueTable"}},
	}
	if !reflect.DeepEqual(fc.samples, want) {
		t.Fatalf("samples = %+v\nwant %+v", fc.samples, want)
	}

	fc.err = errors.New("socket closed")
	if err := metrics.Flush(); err == nil || !fc.closed {
		t.Fatalf("Flush err=%v closed=%v, want client error and close", err, fc.closed)
	}
}

func TestZeroBackendIsNoop(t *testing.T) {
	t.Parallel()

	b := &Backend{}
	b.IncCounter(metrics.StepTotal, 1, nil)
	b.ObserveHistogram(metrics.StepDuration, 1, nil)
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func TestStatName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		metrics.StepTotal:    "step.total",
		metrics.RecordsTotal: "records.total",
		metrics.TableRows:    "table.rows_total",
		"custom":             "custom",
	}
	for in, want := range cases {
		if got := statName(in); got != want {
			t.Errorf("statName(%q) = %q, want %q", in, got, want)
		}
	}
}
