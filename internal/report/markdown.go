package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/wikirace/internal/model"
)

// MarkdownWriter outputs results in GitHub flavored Markdown.
//
// Design decision: We use the nao1215/markdown library for type-safe
// generation of tables, lists and alerts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the result in Markdown format.
func (w *MarkdownWriter) Write(result *model.SearchResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writePath(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.SearchResult) {
	md.H1("wikirace: " + result.Start + " → " + result.Finish)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Search ID", "`" + result.ID + "`"},
			{"Started", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Hops", strconv.Itoa(result.Hops())},
			{"Articles Visited", strconv.Itoa(result.Visited)},
			{"Paths Queued", strconv.Itoa(result.Enqueued)},
			{"Peak Queue", strconv.Itoa(result.PeakQueue)},
			{"Page Fetches", strconv.Itoa(result.Fetches)},
			{"Cache Hits", strconv.Itoa(result.CacheHits)},
			{"Elapsed", result.Elapsed.Round(time.Millisecond).String()},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writePath(md *markdown.Markdown, result *model.SearchResult) {
	md.H2("Path")
	md.PlainText("")

	if !result.Found {
		md.Warningf("No path found from %s to %s after visiting %d articles.",
			result.Start, result.Finish, result.Visited)
		md.PlainText("")
		return
	}

	md.OrderedList(result.Path...)
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [wikirace](https://github.com/nao1215/wikirace)*")
}
