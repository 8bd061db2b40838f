// Package config provides configuration structures and utilities for wikirace.
// It defines the search limits, the request settings used when fetching
// articles and report preferences, and loads the optional .wikirace file.
package config
