package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/wikirace/internal/config"
	"github.com/nao1215/wikirace/internal/database"
	"github.com/nao1215/wikirace/internal/extractor"
	"github.com/nao1215/wikirace/internal/fetcher"
	"github.com/nao1215/wikirace/internal/graph"
	"github.com/nao1215/wikirace/internal/log"
	"github.com/nao1215/wikirace/internal/model"
	"github.com/nao1215/wikirace/internal/pathfinder"
	"github.com/nao1215/wikirace/internal/ratelimit"
	"github.com/nao1215/wikirace/internal/report"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewFindCmd creates the find command.
func NewFindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <start> <finish>",
		Short: "Find the shortest link path between two articles",
		Long: `Find searches breadth-first for the shortest chain of article links from
<start> to <finish> and prints the titles of the path, one per line.

Titles may use spaces or underscores. Every article is fetched at most
once; its links are stored in the local database and reused by later
searches. When no path exists the command prints "no path found" and
exits with status 2.

Examples:
  # Find a path with the default settings
  wikirace find "Київ" "Дніпро"

  # Use another language edition and a slower request rate
  wikirace find --base-url https://en.wikipedia.org/wiki/ --rate 30 Kyiv Dnipro

  # Write a Markdown report to a file
  wikirace find --markdown -o report.md Київ Дніпро`,
		Args: cobra.ExactArgs(2),
		RunE: runFindCmd,
	}

	// Rate limiting
	cmd.Flags().IntP("rate", "r", config.DefaultRate,
		"Maximum number of requests in any window")
	cmd.Flags().DurationP("window", "w", config.DefaultWindow,
		"Sliding window the rate applies to")

	// Fetching and extraction
	cmd.Flags().StringP("base-url", "u", config.DefaultBaseURL,
		"Article URL prefix; titles are appended URL-escaped")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address (host:port) for page requests")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page request")
	cmd.Flags().IntP("max-links", "k", config.DefaultMaxLinks,
		"Maximum number of links kept per article")

	// Search
	cmd.Flags().Int("max-visited", 0,
		"Stop after expanding this many articles (0 means no limit)")

	// Storage
	cmd.Flags().String("db-dir", "",
		"Directory of the link cache database (default: XDG data directory)")
	cmd.Flags().Bool("no-history", false,
		"Do not record this search in the history")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .wikirace in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runFindCmd executes the find command.
func runFindCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogJSON)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watchSignals(gctx, cancel, logger)
	})
	g.Go(func() error {
		// Stops the signal watcher once the search is over.
		defer cancel()
		return runFind(gctx, cfg, logger, cmd.OutOrStdout())
	})
	return g.Wait()
}

// watchSignals cancels the search on SIGINT or SIGTERM.
// It returns when ctx is done.
func watchSignals(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Warn("received shutdown signal, cancelling search", "signal", sig.String())
		cancel()
	case <-ctx.Done():
	}
	return nil
}

// getBoolFlag reads a boolean flag from the command or the root's persistent flags.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// buildConfig creates a Config from defaults, the configuration file and
// the flags the user set explicitly, in that order of precedence.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	file, err := config.Load(cfg.ConfigFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// The base URL decides which site section of the file applies.
	if flags.Changed("base-url") {
		if file.BaseURL, err = flags.GetString("base-url"); err != nil {
			return nil, err
		}
	}
	cfg.ApplyFile(file)

	if flags.Changed("rate") {
		if cfg.Rate, err = flags.GetInt("rate"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("window") {
		if cfg.Window, err = flags.GetDuration("window"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-links") {
		if cfg.MaxLinks, err = flags.GetInt("max-links"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-visited") {
		if cfg.MaxVisited, err = flags.GetInt("max-visited"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return nil, err
		}
	}

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}

	cfg.Verbose = getBoolFlag(cmd, "verbose")
	cfg.LogJSON = getBoolFlag(cmd, "log-json")

	// Titles are compared in the form the extractor produces.
	if len(args) == 2 {
		cfg.Start = extractor.NormalizeTitle(args[0])
		cfg.Finish = extractor.NormalizeTitle(args[1])
	}

	return cfg, nil
}

// runFind wires the search components, runs one search and writes the report.
// It returns ErrNoPath after writing the report when the search was exhausted.
func runFind(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.Debug("database opened", "path", db.Path())

	limiter, err := ratelimit.New(cfg.Rate, cfg.Window)
	if err != nil {
		return fmt.Errorf("failed to create rate limiter: %w", err)
	}

	client, err := fetcher.NewHTTPClient(cfg.ProxyAddress, cfg.Timeout, cfg.Headers)
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}

	f, err := fetcher.New(client, limiter,
		fetcher.WithBaseURL(cfg.BaseURL),
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
		fetcher.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create fetcher: %w", err)
	}

	cache := graph.NewCache(db, f, extractor.New(extractor.WithMaxLinks(cfg.MaxLinks)),
		graph.WithLogger(logger),
	)
	finder := pathfinder.New(cache,
		pathfinder.WithLogger(logger),
		pathfinder.WithMaxVisited(cfg.MaxVisited),
	)

	result := model.NewSearchResult(uuid.NewString(), cfg.Start, cfg.Finish)
	logger.Info("starting search",
		"id", result.ID,
		"start", cfg.Start,
		"finish", cfg.Finish,
		"rate", cfg.Rate,
		"window", cfg.Window,
	)

	path, err := finder.Find(ctx, cfg.Start, cfg.Finish)
	result.Elapsed = time.Since(result.StartedAt)
	stats := finder.Stats()
	result.Visited = stats.Visited
	result.Enqueued = stats.Enqueued
	result.PeakQueue = stats.MaxQueue
	result.Fetches = f.Stats().Requests
	result.CacheHits = cache.Stats().Hits

	switch {
	case errors.Is(err, pathfinder.ErrPathNotFound):
		result.Found = false
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("search interrupted after visiting %d articles: %w", result.Visited, err)
	case err != nil:
		return fmt.Errorf("search failed: %w", err)
	default:
		result.Found = true
		result.Path = path
	}

	logger.Info("search finished",
		"id", result.ID,
		"found", result.Found,
		"hops", result.Hops(),
		"path", result.Path.String(),
		"visited", result.Visited,
		"peak_queue", result.PeakQueue,
		"fetches", result.Fetches,
		"elapsed", result.Elapsed.Round(time.Millisecond),
	)

	if cfg.SaveHistory {
		// A history failure must not hide a result that was already computed.
		if err := db.SaveSearch(ctx, result); err != nil {
			logger.Error("failed to save search", "id", result.ID, "error", err)
		}
	}

	if err := outputReport(cfg, result, stdout); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if !result.Found {
		return ErrNoPath
	}
	return nil
}

// outputReport writes the result in the requested format to stdout or
// to cfg.ReportFile.
func outputReport(cfg *config.Config, result *model.SearchResult, stdout io.Writer) error {
	output := stdout
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		file, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		output = file
	}

	_, err := newReportWriter(cfg, output).Write(result)
	return err
}

// newReportWriter selects the report writer for the configured format.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithSummary(cfg.Verbose))
	}
}
