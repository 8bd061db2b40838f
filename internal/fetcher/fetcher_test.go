package fetcher

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// countingLimiter admits every call and counts them.
type countingLimiter struct {
	calls atomic.Int32
	err   error
	delay time.Duration
}

func (l *countingLimiter) Wait(_ context.Context) error {
	l.calls.Add(1)
	return l.err
}

func (l *countingLimiter) Delay() time.Duration {
	return l.delay
}

func newTestFetcher(t *testing.T, server *httptest.Server, limiter Limiter) *Fetcher {
	t.Helper()

	f, err := New(server.Client(), limiter, WithBaseURL(server.URL+"/wiki/"))
	if err != nil {
		t.Fatalf("failed to create fetcher: %v", err)
	}
	return f
}

func TestFetch(t *testing.T) {
	t.Parallel()

	t.Run("returns document on success", func(t *testing.T) {
		t.Parallel()

		var gotPath, gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotUA = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body>Rome</body></html>`)) //nolint:errcheck
		}))
		defer server.Close()

		limiter := &countingLimiter{}
		f := newTestFetcher(t, server, limiter)

		res := f.Fetch(context.Background(), "Ancient Rome")
		if !res.Ok() {
			t.Fatalf("expected success, got %v", res.Err)
		}
		if string(res.Document) != `<html><body>Rome</body></html>` {
			t.Errorf("unexpected document %q", res.Document)
		}
		if gotPath != "/wiki/Ancient_Rome" {
			t.Errorf("expected path /wiki/Ancient_Rome, got %q", gotPath)
		}
		if gotUA != DefaultUserAgent {
			t.Errorf("expected default user agent, got %q", gotUA)
		}
		if limiter.calls.Load() != 1 {
			t.Errorf("expected 1 limiter call, got %d", limiter.calls.Load())
		}
		if s := f.Stats(); s.Requests != 1 || s.Failures != 0 {
			t.Errorf("unexpected stats %+v", s)
		}
	})

	t.Run("non-2xx status is a failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer server.Close()

		f := newTestFetcher(t, server, &countingLimiter{})

		res := f.Fetch(context.Background(), "Missing")
		if res.Ok() {
			t.Fatal("expected failure for 404")
		}
		if !errors.Is(res.Err, ErrFetchFailed) {
			t.Errorf("expected ErrFetchFailed, got %v", res.Err)
		}
		if !errors.Is(res.Err, ErrUnexpectedStatus) {
			t.Errorf("expected ErrUnexpectedStatus, got %v", res.Err)
		}
		if res.StatusCode != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", res.StatusCode)
		}
		if s := f.Stats(); s.Requests != 1 || s.Failures != 1 {
			t.Errorf("unexpected stats %+v", s)
		}
	})

	t.Run("network error is a failure and not retried", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
		}))
		url := server.URL
		client := server.Client()
		server.Close()

		limiter := &countingLimiter{}
		f, err := New(client, limiter, WithBaseURL(url+"/wiki/"))
		if err != nil {
			t.Fatalf("failed to create fetcher: %v", err)
		}

		res := f.Fetch(context.Background(), "Anything")
		if res.Ok() {
			t.Fatal("expected failure against a closed server")
		}
		if !errors.Is(res.Err, ErrFetchFailed) {
			t.Errorf("expected ErrFetchFailed, got %v", res.Err)
		}
		if limiter.calls.Load() != 1 {
			t.Errorf("expected the failure to consume one permit, got %d", limiter.calls.Load())
		}
		if hits.Load() != 0 {
			t.Errorf("expected no successful hits, got %d", hits.Load())
		}
	})

	t.Run("limiter error means no network call", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
		}))
		defer server.Close()

		f := newTestFetcher(t, server, &countingLimiter{err: context.Canceled})

		res := f.Fetch(context.Background(), "Rome")
		if res.Ok() {
			t.Fatal("expected failure")
		}
		if !errors.Is(res.Err, context.Canceled) {
			t.Errorf("expected context.Canceled in chain, got %v", res.Err)
		}
		if hits.Load() != 0 {
			t.Errorf("expected no network call, got %d", hits.Load())
		}
		if s := f.Stats(); s.Requests != 0 || s.Failures != 1 {
			t.Errorf("unexpected stats %+v", s)
		}
	})

	t.Run("throttled fetch is logged", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html></html>")) //nolint:errcheck // test server
		}))
		defer server.Close()

		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
		f, err := New(server.Client(), &countingLimiter{delay: 1500 * time.Millisecond},
			WithBaseURL(server.URL+"/wiki/"),
			WithLogger(logger),
		)
		if err != nil {
			t.Fatalf("failed to create fetcher: %v", err)
		}

		if res := f.Fetch(context.Background(), "Rome"); !res.Ok() {
			t.Fatalf("unexpected failure: %v", res.Err)
		}
		output := logs.String()
		if !strings.Contains(output, "waiting for rate limiter") || !strings.Contains(output, "delay=1.5s") {
			t.Errorf("expected the limiter delay to be logged:\n%s", output)
		}
	})

	t.Run("unthrottled fetch logs no wait", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html></html>")) //nolint:errcheck // test server
		}))
		defer server.Close()

		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
		f, err := New(server.Client(), &countingLimiter{}, WithBaseURL(server.URL+"/wiki/"), WithLogger(logger))
		if err != nil {
			t.Fatalf("failed to create fetcher: %v", err)
		}

		f.Fetch(context.Background(), "Rome")
		if strings.Contains(logs.String(), "waiting for rate limiter") {
			t.Errorf("expected no limiter log:\n%s", logs.String())
		}
	})

	t.Run("body is truncated to max size", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("0123456789")) //nolint:errcheck
		}))
		defer server.Close()

		f, err := New(server.Client(), &countingLimiter{},
			WithBaseURL(server.URL+"/wiki/"), WithMaxBodySize(4))
		if err != nil {
			t.Fatalf("failed to create fetcher: %v", err)
		}

		res := f.Fetch(context.Background(), "Digits")
		if string(res.Document) != "0123" {
			t.Errorf("expected truncated body, got %q", res.Document)
		}
	})
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	t.Parallel()

	for _, base := range []string{"", "wiki/", "ftp://example.org/wiki/", "http://"} {
		if _, err := New(nil, &countingLimiter{}, WithBaseURL(base)); !errors.Is(err, ErrInvalidBaseURL) {
			t.Errorf("base %q: expected ErrInvalidBaseURL, got %v", base, err)
		}
	}
}

func TestPageURL(t *testing.T) {
	t.Parallel()

	f, err := New(nil, &countingLimiter{}, WithBaseURL("https://uk.wikipedia.org/wiki/"))
	if err != nil {
		t.Fatalf("failed to create fetcher: %v", err)
	}

	tests := []struct {
		title string
		want  string
	}{
		{"Рим", "https://uk.wikipedia.org/wiki/%D0%A0%D0%B8%D0%BC"},
		{"Ancient Rome", "https://uk.wikipedia.org/wiki/Ancient_Rome"},
		{"50%", "https://uk.wikipedia.org/wiki/50%25"},
	}
	for _, tt := range tests {
		if got := f.PageURL(tt.title); got != tt.want {
			t.Errorf("PageURL(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	t.Run("direct client injects headers", func(t *testing.T) {
		t.Parallel()

		var gotLang string
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			gotLang = r.Header.Get("Accept-Language")
		}))
		defer server.Close()

		client, err := NewHTTPClient("", 5*time.Second, map[string]string{"Accept-Language": "uk"})
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}

		resp, err := client.Get(server.URL) //nolint:noctx // test
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		if gotLang != "uk" {
			t.Errorf("expected injected Accept-Language 'uk', got %q", gotLang)
		}
	})

	t.Run("proxy address is validated", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			address string
			valid   bool
		}{
			{"127.0.0.1:9050", true},
			{"localhost:1080", true},
			{"127.0.0.1", false},
			{":9050", false},
			{"127.0.0.1:0", false},
			{"127.0.0.1:70000", false},
			{"127.0.0.1:abc", false},
		}
		for _, tt := range tests {
			_, err := NewHTTPClient(tt.address, time.Second, nil)
			if tt.valid && err != nil {
				t.Errorf("%q: unexpected error %v", tt.address, err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidProxyAddress) {
				t.Errorf("%q: expected ErrInvalidProxyAddress, got %v", tt.address, err)
			}
		}
	})
}
