package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nao1215/wikirace/internal/model"
)

// SearchRecord is a stored search outcome.
type SearchRecord struct {
	ID        string
	Start     string
	Finish    string
	Found     bool
	Path      model.Path
	Hops      int
	Visited   int
	Fetches   int
	Elapsed   time.Duration
	Timestamp time.Time
}

// SaveSearch stores the outcome of a search.
func (gdb *GraphDB) SaveSearch(ctx context.Context, result *model.SearchResult) error {
	path := result.Path
	if path == nil {
		path = model.Path{}
	}
	pathJSON, err := json.Marshal(path)
	if err != nil {
		return fmt.Errorf("failed to serialize path: %w", err)
	}

	query := `
	INSERT INTO searches (id, start, finish, found, path, hops, visited, fetches, elapsed_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = gdb.db.ExecContext(ctx, query,
		result.ID,
		result.Start,
		result.Finish,
		result.Found,
		string(pathJSON),
		result.Hops(),
		result.Visited,
		result.Fetches,
		result.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to save search: %w", err)
	}
	return nil
}

// ListSearches returns up to limit stored searches, newest first.
// A limit <= 0 returns all of them.
func (gdb *GraphDB) ListSearches(ctx context.Context, limit int) ([]SearchRecord, error) {
	query := `
	SELECT id, start, finish, found, path, hops, visited, fetches, elapsed_ms, timestamp
	FROM searches
	ORDER BY timestamp DESC, rowid DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := gdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list searches: %w", err)
	}
	defer rows.Close()

	var records []SearchRecord
	for rows.Next() {
		var (
			rec       SearchRecord
			pathJSON  string
			elapsedMS int64
			timestamp string
		)
		if err := rows.Scan(&rec.ID, &rec.Start, &rec.Finish, &rec.Found, &pathJSON,
			&rec.Hops, &rec.Visited, &rec.Fetches, &elapsedMS, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan search: %w", err)
		}
		if err := json.Unmarshal([]byte(pathJSON), &rec.Path); err != nil {
			return nil, fmt.Errorf("failed to parse path: %w", err)
		}
		rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		rec.Timestamp = parseTimestamp(timestamp)
		records = append(records, rec)
	}

	return records, rows.Err()
}
