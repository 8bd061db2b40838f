package pathfinder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/wikirace/internal/model"
)

// Search outcomes.
var (
	// ErrPathNotFound is returned when the queue is exhausted without
	// reaching the target. It is an expected outcome, not a failure.
	ErrPathNotFound = errors.New("no path found")

	// ErrSearchLimit is returned when the configured visit limit is reached.
	ErrSearchLimit = errors.New("search limit reached")
)

// NeighborSource yields the ordered outbound titles of an article.
// *graph.Cache implements it.
type NeighborSource interface {
	Neighbors(ctx context.Context, title string) ([]string, error)
}

// Stats describes the work done by the last search.
type Stats struct {
	// Visited is the number of articles expanded.
	Visited int

	// Enqueued is the number of frontier paths added to the queue.
	Enqueued int

	// MaxQueue is the largest queue length observed.
	MaxQueue int
}

// Finder runs breadth-first path searches.
// A Finder runs one search at a time.
type Finder struct {
	neighbors  NeighborSource
	maxVisited int
	logger     *slog.Logger

	stats Stats
}

// Option configures a Finder.
type Option func(*Finder)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finder) {
		f.logger = logger
	}
}

// WithMaxVisited stops a search after n articles have been expanded.
// Zero, the default, means no limit.
func WithMaxVisited(n int) Option {
	return func(f *Finder) {
		if n >= 0 {
			f.maxVisited = n
		}
	}
}

// New creates a Finder reading neighbors from source.
func New(source NeighborSource, opts ...Option) *Finder {
	f := &Finder{neighbors: source}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Find returns the shortest path from start to target.
//
// It returns ErrPathNotFound when every article reachable from start has
// been expanded without meeting target. Errors from the neighbor source
// abort the search and are returned wrapped. The context is checked
// before each expansion.
func (f *Finder) Find(ctx context.Context, start, target string) (model.Path, error) {
	f.stats = Stats{}

	queue := newPathQueue()
	queue.Push(model.NewPath(start))
	visited := make(map[string]struct{})

	for queue.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := queue.Pop()
		current := path.Last()

		if _, seen := visited[current]; seen {
			continue
		}
		if f.maxVisited > 0 && len(visited) >= f.maxVisited {
			return nil, fmt.Errorf("%w: expanded %d articles", ErrSearchLimit, len(visited))
		}
		visited[current] = struct{}{}
		f.stats.Visited = len(visited)

		f.logger.Debug("expanding article",
			"title", current,
			"depth", path.Hops(),
			"queue", queue.Len(),
		)

		links, err := f.neighbors.Neighbors(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("failed to get links of %q: %w", current, err)
		}

		for _, link := range links {
			next := path.Extend(link)
			if link == target {
				return next, nil
			}
			queue.Push(next)
			f.stats.Enqueued++
		}
		if queue.Len() > f.stats.MaxQueue {
			f.stats.MaxQueue = queue.Len()
		}
	}

	return nil, ErrPathNotFound
}

// Stats returns the counters of the most recent search.
func (f *Finder) Stats() Stats {
	return f.stats
}
