// Package log provides the slog setup used by wikirace.
//
// Requests may carry a cookie, an authorization header or a proxy URL with
// credentials, all taken from the .wikirace file. RedactingHandler wraps
// any slog.Handler and masks those values before they reach the output,
// so verbose logs can be shared in bug reports.
//
//	logger := log.NewLogger(os.Stderr, verbose, jsonFormat)
//	slog.SetDefault(logger)
//
//	logger.Debug("request sent", "cookie", "session=abc") // cookie=***REDACTED***
package log
