// Package graph implements the persistent link cache that answers
// "which articles does X link to".
//
// A neighbor lookup is memoized per article id: the first lookup fetches
// the page, extracts its links and writes them to the store in one batch;
// later lookups, in this run or any later one, read the stored list.
//
// # Known gap
//
// An empty stored list means either that the page was never fetched
// successfully or that it genuinely has no content links. A failed fetch
// writes nothing, so such an article is fetched again on every miss.
package graph
