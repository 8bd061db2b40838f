package graph

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/nao1215/wikirace/internal/database"
	"github.com/nao1215/wikirace/internal/fetcher"
	"github.com/nao1215/wikirace/internal/model"
)

// Store is the persistence the cache needs.
// *database.GraphDB implements it.
type Store interface {
	// InsertArticle inserts title unless it already exists.
	InsertArticle(ctx context.Context, title string) error

	// ArticleID looks up the id of title.
	ArticleID(ctx context.Context, title string) (int64, error)

	// LinkTitles returns the stored neighbor titles of an article in insertion order.
	LinkTitles(ctx context.Context, fromID int64) ([]string, error)

	// InsertLinks writes edges, ignoring ones that already exist.
	InsertLinks(ctx context.Context, edges []model.LinkEdge) error
}

// PageFetcher retrieves the raw page of an article.
// *fetcher.Fetcher implements it.
type PageFetcher interface {
	Fetch(ctx context.Context, title string) fetcher.Result
}

// LinkExtractor turns a raw page into ordered link titles.
// *extractor.Extractor implements it.
type LinkExtractor interface {
	Extract(r io.Reader) ([]string, error)
}

// Stats counts neighbor lookups.
type Stats struct {
	// Hits is the number of lookups answered from the store.
	Hits int

	// Misses is the number of lookups that required a fetch.
	Misses int

	// FetchFailures is the number of misses whose fetch or extraction failed.
	FetchFailures int
}

// Cache is the memoized neighbor lookup over the link graph.
type Cache struct {
	store     Store
	fetcher   PageFetcher
	extractor LinkExtractor
	logger    *slog.Logger

	mu    sync.Mutex
	stats Stats
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// NewCache creates a Cache backed by store. On a miss it fetches the page
// with f and extracts links with x.
func NewCache(store Store, f PageFetcher, x LinkExtractor, opts ...Option) *Cache {
	c := &Cache{
		store:     store,
		fetcher:   f,
		extractor: x,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// GetOrCreateArticleID returns the id of title, creating the article on
// first reference. Repeated calls return the same id.
func (c *Cache) GetOrCreateArticleID(ctx context.Context, title string) (int64, error) {
	if err := c.store.InsertArticle(ctx, title); err != nil {
		return 0, err
	}
	id, err := c.store.ArticleID(ctx, title)
	if err != nil {
		// The row was just inserted, so a missing row is a store failure.
		if errors.Is(err, database.ErrArticleNotFound) {
			return 0, fmt.Errorf("article %q vanished after insert: %w", title, err)
		}
		return 0, err
	}
	return id, nil
}

// GetCachedNeighbors returns the stored neighbor titles of id, or an empty
// slice when nothing is stored.
func (c *Cache) GetCachedNeighbors(ctx context.Context, id int64) ([]string, error) {
	return c.store.LinkTitles(ctx, id)
}

// StoreNeighbors records titles as the neighbors of id. Every title becomes
// an article of its own; the edges are written in one batch. Writing an
// edge that already exists is a no-op.
func (c *Cache) StoreNeighbors(ctx context.Context, id int64, titles []string) error {
	edges := make([]model.LinkEdge, 0, len(titles))
	for _, title := range titles {
		toID, err := c.GetOrCreateArticleID(ctx, title)
		if err != nil {
			return err
		}
		edges = append(edges, model.LinkEdge{FromID: id, ToID: toID})
	}
	return c.store.InsertLinks(ctx, edges)
}

// Neighbors returns the ordered neighbor titles of the article title.
//
// A stored list is returned as is. Otherwise the page is fetched and its
// links are extracted, stored and returned. A failed fetch is logged and
// reported as no neighbors; nothing is stored for it. Store errors and
// context cancellation are returned to the caller.
func (c *Cache) Neighbors(ctx context.Context, title string) ([]string, error) {
	id, err := c.GetOrCreateArticleID(ctx, title)
	if err != nil {
		return nil, err
	}

	cached, err := c.GetCachedNeighbors(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(cached) > 0 {
		c.record(func(s *Stats) { s.Hits++ })
		c.logger.Debug("cache hit", "title", title, "neighbors", len(cached))
		return cached, nil
	}

	c.record(func(s *Stats) { s.Misses++ })

	res := c.fetcher.Fetch(ctx, title)
	if !res.Ok() {
		// A fetch cut short by cancellation says nothing about the page.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.record(func(s *Stats) { s.FetchFailures++ })
		c.logger.Warn("fetch failed, treating page as having no links",
			"title", title,
			"url", res.URL,
			"status", res.StatusCode,
			"error", res.Err,
		)
		return []string{}, nil
	}

	titles, err := c.extractor.Extract(bytes.NewReader(res.Document))
	if err != nil {
		c.record(func(s *Stats) { s.FetchFailures++ })
		c.logger.Warn("link extraction failed, treating page as having no links",
			"title", title,
			"error", err,
		)
		return []string{}, nil
	}
	titles = dedupe(titles)

	if err := c.StoreNeighbors(ctx, id, titles); err != nil {
		return nil, err
	}

	c.logger.Debug("cache populated", "title", title, "neighbors", len(titles))
	return titles, nil
}

// Stats returns a snapshot of the lookup counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Cache) record(update func(*Stats)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	update(&c.stats)
}

// dedupe drops repeated titles, keeping first occurrences in order.
// This matches what the store returns for the same list on a later hit.
func dedupe(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
