// Package fetcher retrieves article pages under a rate limit.
//
// Each call to Fetcher.Fetch waits on the injected limiter and then issues
// exactly one HTTP GET. The outcome is a tagged Result: either the document
// body or a failure wrapping ErrFetchFailed. There are no retries; a failed
// fetch still counts against the rate budget.
//
// The package also builds the *http.Client used for fetching, optionally
// routed through a SOCKS5 proxy.
package fetcher
