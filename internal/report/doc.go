// Package report renders search results.
//
// Three writers implement the Writer interface:
//   - SimpleWriter: the path as plain text, one title per line
//   - JSONWriter: structured JSON for scripts
//   - MarkdownWriter: a Markdown summary for sharing
//
// Design decision: report writing is kept apart from model.SearchResult so
// new formats can be added without touching the search code.
package report
