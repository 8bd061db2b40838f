package fetcher

import "errors"

// Fetch errors.
var (
	// ErrFetchFailed is wrapped by every failed Result.
	// Callers test for it with errors.Is.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrUnexpectedStatus is returned when the server answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrInvalidProxyAddress is returned when the proxy address format is invalid.
	// Expected format is "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrInvalidBaseURL is returned when the article base URL cannot be used.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http(s) URL")
)
