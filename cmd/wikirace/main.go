// Package main provides the entry point for the wikirace CLI.
//
// wikirace finds the shortest chain of article links between two
// encyclopedia articles. Links discovered along the way are stored in a
// local SQLite database so later searches reuse them.
//
// Usage:
//
//	wikirace find <start> <finish>
//	wikirace history
//
// See --help for all available options.
package main

func main() {
	Execute()
}
