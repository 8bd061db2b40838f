package config

import (
	"maps"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/wikirace/internal/extractor"
	"github.com/nao1215/wikirace/internal/fetcher"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "wikirace"

	// DefaultBaseURL is the article URL prefix. Titles are appended escaped.
	DefaultBaseURL = fetcher.DefaultBaseURL

	// DefaultRate is the number of requests allowed per DefaultWindow.
	DefaultRate = 100

	// DefaultWindow is the sliding window the rate applies to.
	DefaultWindow = 60 * time.Second

	// DefaultMaxLinks caps how many links are kept per article, in page order.
	DefaultMaxLinks = extractor.DefaultMaxLinks

	// DefaultTimeout is the timeout for a single page request.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies wikirace in HTTP requests.
	DefaultUserAgent = fetcher.DefaultUserAgent

	// DefaultMaxBodySize limits the response body size to read.
	DefaultMaxBodySize = fetcher.DefaultMaxBodySize

	// DefaultHistoryLimit is the number of searches listed by the history command.
	DefaultHistoryLimit = 20
)

// Config holds all configuration options for wikirace.
// It is populated from defaults, then the configuration file, then CLI
// flags, and passed through the application instead of global state.
//
// Design decision: a single flat struct, as the option count is small.
type Config struct {
	// Start and Finish are the article titles to connect.
	Start  string
	Finish string

	// BaseURL is prepended to escaped titles to form page URLs.
	BaseURL string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	// Empty means direct connections.
	ProxyAddress string

	// Timeout is the timeout of each page request.
	Timeout time.Duration

	// Rate is the number of requests allowed in any Window.
	Rate int

	// Window is the sliding window duration for Rate.
	Window time.Duration

	// MaxLinks is the number of links kept per article.
	MaxLinks int

	// MaxVisited stops the search after this many articles are expanded.
	// 0 means no limit.
	MaxVisited int

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// DBDir is the directory holding the SQLite link cache.
	// Defaults to the XDG data directory (~/.local/share/wikirace on Linux).
	DBDir string

	// SaveHistory records finished searches in the database.
	SaveHistory bool

	// Verbose enables debug logging. When false only warnings and errors are logged.
	Verbose bool

	// LogJSON switches the log output to JSON.
	LogJSON bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, .wikirace is searched in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// JSONReport and MarkdownReport select the report format.
	// They are mutually exclusive; the default is plain text.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero.
func NewConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		Timeout:     DefaultTimeout,
		Rate:        DefaultRate,
		Window:      DefaultWindow,
		MaxLinks:    DefaultMaxLinks,
		Headers:     make(map[string]string),
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		DBDir:       XDGDataDir(),
		SaveHistory: true,
	}
}

// XDGDataDir returns the XDG data directory for wikirace.
// On Linux: ~/.local/share/wikirace
// On macOS: ~/Library/Application Support/wikirace
// On Windows: %LOCALAPPDATA%\wikirace
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// ApplyFile merges the settings of a configuration file into c.
// Only values present in the file override c. The site section matching
// the host of the resulting base URL is merged over the file defaults.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}

	if f.BaseURL != "" {
		c.BaseURL = f.BaseURL
	}
	if f.Proxy != "" {
		c.ProxyAddress = f.Proxy
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.MaxLinks != 0 {
		c.MaxLinks = f.MaxLinks
	}
	if f.MaxVisited != 0 {
		c.MaxVisited = f.MaxVisited
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.DBDir != "" {
		c.DBDir = f.DBDir
	}

	site := f.GetSiteConfig(hostOf(c.BaseURL))
	if site.Rate != 0 {
		c.Rate = site.Rate
	}
	if site.Window != 0 {
		c.Window = site.Window
	}
	if c.Headers == nil {
		c.Headers = make(map[string]string)
	}
	maps.Copy(c.Headers, site.Headers)
	if site.Cookie != "" {
		c.Headers["Cookie"] = site.Cookie
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
//
// Design decision: We validate once after flag parsing, before any
// network or database work begins, so mistakes fail fast.
func (c *Config) Validate() error {
	if c.Start == "" || c.Finish == "" {
		return ErrNoEndpoints
	}

	if c.Rate <= 0 {
		return ErrInvalidRate
	}

	if c.Window <= 0 {
		return ErrInvalidWindow
	}

	if c.MaxLinks <= 0 {
		return ErrInvalidMaxLinks
	}

	if c.MaxVisited < 0 {
		return ErrInvalidMaxVisited
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}

// hostOf returns the host of rawURL, or an empty string when it cannot be parsed.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
