package config

import (
	"maps"
	"time"
)

// SiteConfig holds request settings for one encyclopedia host.
// Different language editions can be given their own rate and headers.
type SiteConfig struct {
	// Rate overrides the number of requests per window for this host.
	Rate int `yaml:"rate,omitempty"`

	// Window overrides the rate window, e.g. "60s" or "1m".
	Window time.Duration `yaml:"window,omitempty"`

	// Cookie is sent as the Cookie header.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this host.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// File represents the structure of the .wikirace configuration file.
type File struct {
	BaseURL    string        `yaml:"base_url,omitempty"`
	Proxy      string        `yaml:"proxy,omitempty"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
	MaxLinks   int           `yaml:"max_links,omitempty"`
	MaxVisited int           `yaml:"max_visited,omitempty"`
	UserAgent  string        `yaml:"user_agent,omitempty"`
	DBDir      string        `yaml:"db_dir,omitempty"`

	// Defaults applies to every host unless overridden in Sites.
	Defaults SiteConfig `yaml:"defaults,omitempty"`

	// Sites maps a host name (e.g. "en.wikipedia.org") to its settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`
}

// GetSiteConfig returns the configuration for host merged over the defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	result.Headers = maps.Clone(cf.Defaults.Headers)

	site, ok := cf.Sites[host]
	if !ok {
		return result
	}

	if site.Rate != 0 {
		result.Rate = site.Rate
	}
	if site.Window != 0 {
		result.Window = site.Window
	}
	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(site.Headers))
		}
		maps.Copy(result.Headers, site.Headers)
	}
	return result
}
