package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/wikirace/internal/model"
	_ "modernc.org/sqlite" // SQLite driver
)

// DBFileName is the name of the database file inside the database directory.
const DBFileName = "wikirace.db"

var (
	// ErrArticleNotFound is returned when an article title has no row.
	ErrArticleNotFound = errors.New("article not found")

	// ErrDatabaseNotFound is returned by Open when the database file is
	// missing and CreateIfNotExists is false.
	ErrDatabaseNotFound = errors.New("database not found")
)

// GraphDB provides SQLite-based storage for the link graph.
// It holds a single connection for its whole lifetime; callers must Close it.
type GraphDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures GraphDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a GraphDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*GraphDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection, opened once and released in Close.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	gdb := &GraphDB{
		db:     db,
		dbPath: dbPath,
	}

	// Foreign keys are off by default in SQLite and are a per-connection setting.
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := gdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return gdb, nil
}

// Close closes the database connection.
func (gdb *GraphDB) Close() error {
	return gdb.db.Close()
}

// Path returns the database file path.
func (gdb *GraphDB) Path() string {
	return gdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (gdb *GraphDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT UNIQUE NOT NULL
	);

	CREATE TABLE IF NOT EXISTS links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		from_article INTEGER NOT NULL REFERENCES articles (id),
		to_article INTEGER NOT NULL REFERENCES articles (id),
		UNIQUE (from_article, to_article)
	);

	CREATE INDEX IF NOT EXISTS idx_links_from ON links(from_article);

	CREATE TABLE IF NOT EXISTS searches (
		id TEXT PRIMARY KEY,
		start TEXT NOT NULL,
		finish TEXT NOT NULL,
		found INTEGER NOT NULL,
		path TEXT NOT NULL,
		hops INTEGER NOT NULL,
		visited INTEGER NOT NULL,
		fetches INTEGER NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_searches_timestamp ON searches(timestamp);
	`

	_, err := gdb.db.ExecContext(context.Background(), schema)
	return err
}

// InsertArticle inserts an article row unless the title already exists.
func (gdb *GraphDB) InsertArticle(ctx context.Context, title string) error {
	query := `INSERT INTO articles (title) VALUES (?) ON CONFLICT (title) DO NOTHING`

	if _, err := gdb.db.ExecContext(ctx, query, title); err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}
	return nil
}

// ArticleID returns the id of the article with the given title.
// It returns ErrArticleNotFound if there is no such row.
func (gdb *GraphDB) ArticleID(ctx context.Context, title string) (int64, error) {
	query := `SELECT id FROM articles WHERE title = ?`

	var id int64
	err := gdb.db.QueryRowContext(ctx, query, title).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrArticleNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get article id: %w", err)
	}
	return id, nil
}

// LinkTitles returns the titles linked from the given article, in the
// order the links were inserted.
func (gdb *GraphDB) LinkTitles(ctx context.Context, fromID int64) ([]string, error) {
	query := `
	SELECT articles.title
	FROM links JOIN articles ON links.to_article = articles.id
	WHERE links.from_article = ?
	ORDER BY links.id
	`

	rows, err := gdb.db.QueryContext(ctx, query, fromID)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	titles := make([]string, 0)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		titles = append(titles, title)
	}

	return titles, rows.Err()
}

// InsertLinks writes edges in one transaction, in order.
// Edges that already exist are skipped.
func (gdb *GraphDB) InsertLinks(ctx context.Context, edges []model.LinkEdge) (err error) {
	if len(edges) == 0 {
		return nil
	}

	tx, err := gdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback() //nolint:errcheck // the original error is more useful
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO links (from_article, to_article) VALUES (?, ?) ON CONFLICT DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare link insert: %w", err)
	}
	defer stmt.Close()

	for _, edge := range edges {
		if _, err = stmt.ExecContext(ctx, edge.FromID, edge.ToID); err != nil {
			return fmt.Errorf("failed to insert link: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit links: %w", err)
	}
	return nil
}

// GraphStats contains row counts of the link graph.
type GraphStats struct {
	// Articles is the number of known articles.
	Articles int

	// Links is the number of stored edges.
	Links int

	// Expanded is the number of articles with at least one stored outbound link.
	Expanded int
}

// Stats returns row counts of the link graph.
func (gdb *GraphDB) Stats(ctx context.Context) (GraphStats, error) {
	query := `
	SELECT
		(SELECT COUNT(*) FROM articles),
		(SELECT COUNT(*) FROM links),
		(SELECT COUNT(DISTINCT from_article) FROM links)
	`

	var s GraphStats
	if err := gdb.db.QueryRowContext(ctx, query).Scan(&s.Articles, &s.Links, &s.Expanded); err != nil {
		return GraphStats{}, fmt.Errorf("failed to get graph stats: %w", err)
	}
	return s, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp parses a SQLite timestamp, returning zero time if no
// known format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
