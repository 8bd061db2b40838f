package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Defaults for a Fetcher.
const (
	// DefaultBaseURL is the article URL prefix; the escaped title is appended.
	DefaultBaseURL = "https://uk.wikipedia.org/wiki/"

	// DefaultUserAgent identifies wikirace in HTTP requests.
	DefaultUserAgent = "wikirace/1.0 (+https://github.com/nao1215/wikirace)"

	// DefaultMaxBodySize bounds how much of a page is read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Limiter gates outbound fetches.
// *ratelimit.SlidingWindow satisfies it.
type Limiter interface {
	// Wait blocks until a fetch may be issued.
	Wait(ctx context.Context) error

	// Delay reports how long Wait would block now, without consuming anything.
	Delay() time.Duration
}

// Result is the outcome of one fetch.
// Exactly one of Document or Err is meaningful: Ok reports which.
type Result struct {
	// Title is the article title that was requested.
	Title string

	// URL is the address that was requested.
	URL string

	// StatusCode is the HTTP status, or 0 if no response was received.
	StatusCode int

	// Document is the response body on success.
	Document []byte

	// Err is non-nil on failure and always wraps ErrFetchFailed.
	Err error
}

// Ok reports whether the fetch produced a document.
func (r Result) Ok() bool {
	return r.Err == nil
}

// Stats are counters for the fetches issued by a Fetcher.
type Stats struct {
	// Requests is the number of outbound network calls made.
	Requests int

	// Failures is the number of fetches that returned a failure,
	// including ones that never reached the network.
	Failures int
}

// Fetcher retrieves article pages by title.
type Fetcher struct {
	client      *http.Client
	limiter     Limiter
	baseURL     string
	userAgent   string
	maxBodySize int64
	logger      *slog.Logger

	mu    sync.Mutex
	stats Stats
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithBaseURL sets the article URL prefix.
func WithBaseURL(baseURL string) Option {
	return func(f *Fetcher) {
		f.baseURL = baseURL
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum number of body bytes read per page.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a Fetcher that issues requests with client, gated by limiter.
func New(client *http.Client, limiter Limiter, opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		client:      client,
		limiter:     limiter,
		baseURL:     DefaultBaseURL,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	if f.client == nil {
		f.client = http.DefaultClient
	}

	u, err := url.Parse(f.baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, f.baseURL)
	}

	return f, nil
}

// PageURL returns the URL fetched for title.
// Spaces become underscores and the rest is path-escaped.
func (f *Fetcher) PageURL(title string) string {
	return f.baseURL + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}

// Fetch waits for the limiter and then issues one GET for title.
// Failures are returned inside the Result, never retried.
func (f *Fetcher) Fetch(ctx context.Context, title string) Result {
	pageURL := f.PageURL(title)
	res := Result{Title: title, URL: pageURL}

	if d := f.limiter.Delay(); d > 0 {
		f.logger.Debug("waiting for rate limiter", "title", title, "delay", d)
	}
	if err := f.limiter.Wait(ctx); err != nil {
		res.Err = fmt.Errorf("%w: rate limiter: %w", ErrFetchFailed, err)
		f.record(false, true)
		return res
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrFetchFailed, err)
		f.record(false, true)
		return res
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	f.logger.Debug("fetching page", "title", title, "url", pageURL)

	resp, err := f.client.Do(req)
	if err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrFetchFailed, err)
		f.record(true, true)
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		res.Err = fmt.Errorf("%w: %w: %d", ErrFetchFailed, ErrUnexpectedStatus, resp.StatusCode)
		f.record(true, true)
		return res
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		res.Err = fmt.Errorf("%w: reading body: %w", ErrFetchFailed, err)
		f.record(true, true)
		return res
	}

	res.Document = body
	f.record(true, false)
	return res
}

// Stats returns a snapshot of the fetch counters.
func (f *Fetcher) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}

func (f *Fetcher) record(requested, failed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if requested {
		f.stats.Requests++
	}
	if failed {
		f.stats.Failures++
	}
}
