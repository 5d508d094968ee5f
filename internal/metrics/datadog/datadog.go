// Package datadog sends conversion-run metrics to a DogStatsD agent.
//
// Facade names such as phonotactics_step_duration_seconds become dotted
// statsd names (step.duration_seconds) under the configured namespace, and
// labels become sorted "key:value" tags.
package datadog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DataDog/datadog-go/v5/statsd"

	"phonotactics/internal/metrics"
)

// DefaultNamespace prefixes every metric when Config.Namespace is empty.
const DefaultNamespace = "phonotactics."

// Config selects the agent and the tags stamped on every metric.
type Config struct {
	// Addr is "host:port" or "unix:///path/to/dsd.socket".
	Addr       string
	Namespace  string
	GlobalTags []string
}

// client is the part of statsd.ClientInterface the backend uses.
type client interface {
	Count(name string, value int64, tags []string, rate float64) error
	Histogram(name string, value float64, tags []string, rate float64) error
	Close() error
}

// Backend implements metrics.Backend over DogStatsD.
type Backend struct {
	c client
}

// NewBackend dials the agent. Sends are UDP or UDS datagrams, so no agent
// needs to be listening for the backend to work.
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("datadog: statsd address is required")
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	opts := []statsd.Option{statsd.WithNamespace(ns)}
	if len(cfg.GlobalTags) > 0 {
		opts = append(opts, statsd.WithTags(cfg.GlobalTags))
	}
	c, err := statsd.New(cfg.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("datadog: dial %s: %w", cfg.Addr, err)
	}
	return &Backend{c: c}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	if b.c == nil {
		return
	}
	// Record counts are whole numbers; a fractional delta is truncated.
	_ = b.c.Count(statName(name), int64(delta), tags(labels), 1)
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if b.c == nil {
		return
	}
	_ = b.c.Histogram(statName(name), value, tags(labels), 1)
}

// Flush closes the client, draining its buffer. Call it once at the end of
// a run.
func (b *Backend) Flush() error {
	if b.c == nil {
		return nil
	}
	return b.c.Close()
}

// statName turns phonotactics_table_rows_total into table.rows_total: the
// namespace already carries the job prefix and the first underscore opens
// the metric family.
func statName(name string) string {
	name = strings.TrimPrefix(name, "phonotactics_")
	return strings.Replace(name, "_", ".", 1)
}

func tags(lbls metrics.Labels) []string {
	if len(lbls) == 0 {
		return nil
	}
	out := make([]string, 0, len(lbls))
	for k, v := range lbls {
		out = append(out, k+":"+v)
	}
	sort.Strings(out)
	return out
}
