package model

import "time"

// SearchResult is the outcome of one path search.
// It is persisted in the search history and rendered by the report writers.
type SearchResult struct {
	// ID uniquely identifies the search run.
	ID string `json:"id"`

	// Start is the title the search started from.
	Start string `json:"start"`

	// Finish is the target title.
	Finish string `json:"finish"`

	// Found is true when a path was found.
	Found bool `json:"found"`

	// Path is the winning path. Empty when Found is false.
	Path Path `json:"path,omitempty"`

	// Visited is the number of articles expanded by the search.
	Visited int `json:"visited"`

	// Enqueued is the number of frontier paths the search queued.
	Enqueued int `json:"enqueued"`

	// PeakQueue is the largest frontier the search held at once.
	PeakQueue int `json:"peak_queue"`

	// Fetches is the number of outbound page fetches performed.
	Fetches int `json:"fetches"`

	// CacheHits is the number of neighbor lookups answered from the store.
	CacheHits int `json:"cache_hits"`

	// StartedAt is when the search began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the wall-clock duration of the search.
	Elapsed time.Duration `json:"elapsed"`
}

// NewSearchResult creates a result for the given endpoints.
func NewSearchResult(id, start, finish string) *SearchResult {
	return &SearchResult{
		ID:        id,
		Start:     start,
		Finish:    finish,
		StartedAt: time.Now(),
	}
}

// Hops returns the hop count of the winning path, or 0 if none was found.
func (r *SearchResult) Hops() int {
	if !r.Found {
		return 0
	}
	return r.Path.Hops()
}
