// Package pathfinder searches the article link graph for the shortest
// hyperlink path between two titles.
//
// The search is a breadth-first search over paths rather than bare nodes:
// every queue entry carries the full path that reached it, so the winning
// path needs no parent map to reconstruct.
//
// Ties between equally short paths are broken by document order: the
// first link on a page is expanded first, and the target is returned as
// soon as it shows up among a page's links.
//
// The start title is not treated specially. A search whose start equals
// its target succeeds only if the article is reachable from itself, so
// the answer always has at least one hop.
package pathfinder
