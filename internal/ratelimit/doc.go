// Package ratelimit provides the limiter that throttles outbound page
// fetches.
//
// The limiter is an explicit value owned by the fetcher rather than process
// state. Time is read through the Clock interface and handed to the
// underlying golang.org/x/time/rate bucket, so tests can drive the window
// deterministically.
//
// # Guarantee
//
// For a limiter created with New(n, window), any half-open interval of
// length window contains at most n grants. Grants are spaced at least
// window/n apart; callers arriving sooner block until their turn and are
// delayed, never dropped.
package ratelimit
