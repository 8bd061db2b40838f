package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoEndpoints is returned when the start or finish article is missing.
	ErrNoEndpoints = errors.New("no endpoints specified: provide a start and a finish article")

	// ErrInvalidRate is returned when the number of requests per window is not positive.
	ErrInvalidRate = errors.New("invalid rate: must be positive")

	// ErrInvalidWindow is returned when the rate window is not positive.
	ErrInvalidWindow = errors.New("invalid window: must be positive")

	// ErrInvalidMaxLinks is returned when the per-page link cap is not positive.
	ErrInvalidMaxLinks = errors.New("invalid max links: must be positive")

	// ErrInvalidMaxVisited is returned when the visit limit is negative.
	// Use 0 for no limit.
	ErrInvalidMaxVisited = errors.New("invalid max visited: must be non-negative")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidBaseURL is returned when the article base URL is not an
	// absolute http or https URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http or https URL")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
