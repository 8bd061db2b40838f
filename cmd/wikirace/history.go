package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/wikirace/internal/config"
	"github.com/nao1215/wikirace/internal/database"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous searches",
		Long: `History lists the searches stored in the local database, newest first,
followed by the size of the link cache.

Examples:
  # Show the last 20 searches
  wikirace history

  # Show the last 5 searches as a Markdown table
  wikirace history -n 5 --markdown`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Number of searches to list (0 lists all)")
	cmd.Flags().String("db-dir", "",
		"Directory of the link cache database (default: XDG data directory)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output a Markdown table")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}
	asMarkdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if errors.Is(err, database.ErrDatabaseNotFound) {
		fmt.Fprintln(out, "No searches yet. Run 'wikirace find <start> <finish>' first.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	records, err := db.ListSearches(cmd.Context(), limit)
	if err != nil {
		return err
	}
	stats, err := db.Stats(cmd.Context())
	if err != nil {
		return err
	}

	if asMarkdown {
		return writeHistoryMarkdown(out, records, stats)
	}
	return writeHistoryText(out, records, stats)
}

// historyRow formats a record as table cells.
func historyRow(rec database.SearchRecord) []string {
	hops := "-"
	if rec.Found {
		hops = strconv.Itoa(rec.Hops)
	}
	return []string{
		rec.Timestamp.Local().Format("2006-01-02 15:04"),
		rec.Start,
		rec.Finish,
		hops,
		strconv.Itoa(rec.Visited),
		strconv.Itoa(rec.Fetches),
		rec.Elapsed.Round(time.Millisecond).String(),
	}
}

var historyHeader = []string{"DATE", "START", "FINISH", "HOPS", "VISITED", "FETCHES", "ELAPSED"}

// writeHistoryText renders the records as a borderless table.
func writeHistoryText(out io.Writer, records []database.SearchRecord, stats database.GraphStats) error {
	if len(records) == 0 {
		fmt.Fprintln(out, "No searches recorded.")
	} else {
		table := tablewriter.NewTable(out,
			tablewriter.WithRendition(tw.Rendition{
				Borders: tw.BorderNone,
				Settings: tw.Settings{
					Separators: tw.SeparatorsNone,
					Lines:      tw.LinesNone,
				},
			}),
			tablewriter.WithHeaderAlignment(tw.AlignLeft),
			tablewriter.WithRowAlignment(tw.AlignLeft),
		)
		table.Header(historyHeader)
		for _, rec := range records {
			if err := table.Append(historyRow(rec)); err != nil {
				return fmt.Errorf("failed to add history row: %w", err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("failed to render history: %w", err)
		}
	}

	fmt.Fprintf(out, "\nLink cache: %d articles, %d links, %d expanded\n",
		stats.Articles, stats.Links, stats.Expanded)
	return nil
}

func writeHistoryMarkdown(out io.Writer, records []database.SearchRecord, stats database.GraphStats) error {
	md := markdown.NewMarkdown(out)
	md.H1("wikirace history")
	md.PlainText("")

	if len(records) == 0 {
		md.PlainText("No searches recorded.")
	} else {
		rows := make([][]string, len(records))
		for i, rec := range records {
			rows[i] = historyRow(rec)
		}
		md.Table(markdown.TableSet{Header: historyHeader, Rows: rows})
	}
	md.PlainText("")
	md.PlainTextf("Link cache: %d articles, %d links, %d expanded",
		stats.Articles, stats.Links, stats.Expanded)

	return md.Build()
}
