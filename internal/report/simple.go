package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/wikirace/internal/model"
)

// SimpleWriter prints the path one title per line, start first.
// A failed search prints NoPathMessage.
//
// Design decision: the default output carries nothing but titles so it
// can be piped into other tools. Counters are opt-in.
type SimpleWriter struct {
	baseWriter

	// summary appends the hop count and search counters.
	summary bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithSummary appends a line with the hop count and search counters.
func WithSummary(summary bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.summary = summary
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the result in plain text.
func (w *SimpleWriter) Write(result *model.SearchResult) (int, error) {
	var sb strings.Builder

	if result.Found {
		for _, title := range result.Path {
			sb.WriteString(title)
			sb.WriteByte('\n')
		}
	} else {
		sb.WriteString(NoPathMessage)
		sb.WriteByte('\n')
	}

	if w.summary {
		sb.WriteByte('\n')
		fmt.Fprintf(&sb, "%d hops, %d articles visited, %d paths queued (peak %d), %d fetches, %d cache hits in %s\n",
			result.Hops(),
			result.Visited,
			result.Enqueued,
			result.PeakQueue,
			result.Fetches,
			result.CacheHits,
			result.Elapsed.Round(time.Millisecond),
		)
	}

	return io.WriteString(w.output, sb.String())
}
