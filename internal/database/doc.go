// Package database provides SQLite-based storage for the article link graph.
//
// The GraphDB stores:
//   - Articles, keyed by unique title with a stable integer id
//   - Directed links between article ids, at most one per ordered pair
//   - The history of path searches
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
// 1. The cache is a single local file that survives between runs
// 2. CGO-free implementation allows easy cross-compilation
// 3. INSERT ... ON CONFLICT DO NOTHING gives idempotent upserts
package database
