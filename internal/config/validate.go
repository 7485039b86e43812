// Package config: static validation of Config values. Checks return a list
// of issues (errors and warnings) that callers surface in the CLI; warnings
// do not block execution.
package config

import "fmt"

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding surfaced to users without
	// blocking execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into
// the config (e.g. "warehouse.kind"); Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error where convenient.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static validation of a Config. It does not mutate the
// config; callers decide whether to treat warnings as fatal.
func Validate(c Config) []Issue {
	var issues []Issue
	errf := func(path, format string, a ...any) {
		issues = append(issues, Issue{Severity: SeverityError, Path: path, Message: fmt.Sprintf(format, a...)})
	}
	warnf := func(path, format string, a ...any) {
		issues = append(issues, Issue{Severity: SeverityWarning, Path: path, Message: fmt.Sprintf(format, a...)})
	}

	if c.RawDir == "" {
		errf("raw_dir", "must not be empty")
	}
	if c.ProcessedDir == "" {
		errf("processed_dir", "must not be empty")
	}
	if c.LogsDir == "" {
		errf("logs_dir", "must not be empty")
	}

	switch c.Blob.Kind {
	case "local":
		if c.Blob.Root == "" {
			errf("blob.root", "required for kind %q", c.Blob.Kind)
		}
	case "minio":
		if c.Blob.Endpoint == "" {
			errf("blob.endpoint", "required for kind %q", c.Blob.Kind)
		}
		if c.Blob.Bucket == "" {
			errf("blob.bucket", "required for kind %q", c.Blob.Kind)
		}
		if c.Blob.AccessKey == "" || c.Blob.SecretKey == "" {
			warnf("blob", "no credentials configured; set MINIO_ACCESS_KEY / MINIO_SECRET_KEY")
		}
	default:
		errf("blob.kind", "unknown kind %q (want local or minio)", c.Blob.Kind)
	}

	switch c.Warehouse.Kind {
	case "sqlite", "postgres":
		if c.Warehouse.DSN == "" {
			errf("warehouse.dsn", "required for kind %q", c.Warehouse.Kind)
		}
	default:
		errf("warehouse.kind", "unknown kind %q (want sqlite or postgres)", c.Warehouse.Kind)
	}

	switch c.Metrics.Backend {
	case "", "none":
	case "pushgateway":
		if c.Metrics.PushgatewayURL == "" {
			errf("metrics.pushgateway_url", "required for backend %q", c.Metrics.Backend)
		}
	default:
		warnf("metrics.backend", "unknown backend %q; metrics will be disabled", c.Metrics.Backend)
	}

	return issues
}

// HasError reports whether any issue is an error.
func HasError(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
