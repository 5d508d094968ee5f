package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind"). Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Storage and metrics kinds the binary knows about.
var (
	knownStorage = map[string]struct{}{"cldf": {}, "sqlite": {}, "postgres": {}, "mssql": {}, "s3": {}}
	knownMetrics = map[string]struct{}{"": {}, "none": {}, "prompush": {}, "datadog": {}}
)

// ValidatePipeline performs static validation of a Pipeline. It does not
// touch the filesystem; missing input files surface when the run opens them.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, required("raw.data", p.Raw.Data)...)
	issues = append(issues, required("raw.metadata", p.Raw.Metadata)...)
	issues = append(issues, required("etc.languages", p.Etc.Languages)...)
	issues = append(issues, required("etc.countries", p.Etc.Countries)...)
	issues = append(issues, required("etc.parameters", p.Etc.Parameters)...)
	issues = append(issues, required("glottolog.languoids", p.Glottolog.Languoids)...)
	issues = append(issues, validateParser(p.Parser)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateMetrics(p.Metrics)...)
	return issues
}

func required(path, v string) []Issue {
	if strings.TrimSpace(v) != "" {
		return nil
	}
	return []Issue{{
		Severity: SeverityError,
		Path:     path,
		Message:  path + " must not be empty",
	}}
}

func validateParser(p Parser) []Issue {
	if p.LogEvery < 0 {
		return []Issue{{
			Severity: SeverityError,
			Path:     "parser.log_every",
			Message:  fmt.Sprintf("log_every must be >= 0, got %d", p.LogEvery),
		}}
	}
	return nil
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
	}
	if _, ok := knownStorage[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; want one of cldf, sqlite, postgres, mssql, s3", s.Kind),
		})
	}

	switch s.Kind {
	case "cldf":
		issues = append(issues, required("storage.dir", s.Dir)...)
		if s.TablePrefix != "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "storage.table_prefix",
				Message:  "table_prefix is ignored by the cldf sink",
			})
		}
	case "sqlite", "postgres", "mssql":
		issues = append(issues, required("storage.dsn", s.DSN)...)
	case "s3":
		if !strings.HasPrefix(s.DSN, "s3://") {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.dsn",
				Message:  "s3 storage needs a dsn of the form s3://bucket/prefix",
			})
		}
	}

	if s.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.batch_size",
			Message:  fmt.Sprintf("batch_size must be >= 0, got %d", s.BatchSize),
		})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	if _, ok := knownMetrics[m.Backend]; !ok {
		return []Issue{{
			Severity: SeverityError,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q; want none, prompush or datadog", m.Backend),
		}}
	}
	switch m.Backend {
	case "prompush":
		return required("metrics.pushgateway_url", m.PushgatewayURL)
	case "datadog":
		return required("metrics.statsd_addr", m.StatsdAddr)
	}
	return nil
}
