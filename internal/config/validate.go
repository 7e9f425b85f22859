package config

import (
	"errors"
	"fmt"
	"runtime"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks the run.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block the run.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is a single validation finding. Path names the offending field.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static checks on c without touching the filesystem.
func (c Config) Validate() []Issue {
	var issues []Issue
	add := func(sev IssueSeverity, path, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if c.Input == "" {
		add(SeverityError, "input", "input path is required")
	}
	if c.Workers < 0 {
		add(SeverityError, "workers", "must not be negative, got %d", c.Workers)
	} else if n := runtime.NumCPU(); c.Workers > 4*n {
		add(SeverityWarning, "workers", "%d workers on %d CPUs", c.Workers, n)
	}
	if c.ChunkSize <= 0 {
		add(SeverityError, "chunk_size", "must be positive, got %d", c.ChunkSize)
	}
	if c.Lookahead <= 0 {
		add(SeverityError, "lookahead", "must be positive, got %d", c.Lookahead)
	} else if c.ChunkSize > 0 && c.Lookahead > c.ChunkSize {
		add(SeverityWarning, "lookahead", "lookahead %d exceeds chunk size %d", c.Lookahead, c.ChunkSize)
	}
	if c.Output != "" && c.Output == c.Input {
		add(SeverityError, "output", "output would overwrite the input file")
	}

	switch c.Metrics.Backend {
	case "", "none":
	case "pushgateway":
		if c.Metrics.PushgatewayURL == "" {
			add(SeverityError, "metrics.pushgateway_url", "required for the pushgateway backend")
		}
	case "datadog":
		if c.Metrics.DogStatsDAddr == "" {
			add(SeverityError, "metrics.dogstatsd_addr", "required for the datadog backend")
		}
	default:
		add(SeverityError, "metrics.backend", "unknown backend %q", c.Metrics.Backend)
	}
	return issues
}

// Err joins all error-severity issues, or returns nil.
func Err(issues []Issue) error {
	var errs []error
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			errs = append(errs, iss)
		}
	}
	return errors.Join(errs...)
}
