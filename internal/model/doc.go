// Package model defines the core data structures used throughout wikirace.
//
// This package contains the following main types:
//   - LinkEdge: A directed edge between two article ids
//   - Path: An ordered sequence of article titles explored by the search
//   - SearchResult: The outcome of one path search, stored and reported
//
// Design decision: Articles are store rows addressed by id rather than objects
// holding references to their neighbors. Edges are plain id pairs, which
// matches the persistent representation and avoids cyclic ownership.
package model
