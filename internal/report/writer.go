package report

import (
	"io"

	"github.com/nao1215/wikirace/internal/model"
)

// NoPathMessage is printed when a search is exhausted.
const NoPathMessage = "no path found"

// Writer defines the interface for report output.
//
// Design decision: an interface lets the CLI pick the format and the
// destination (stdout or a file) independently.
type Writer interface {
	// Write outputs the result and returns the number of bytes written.
	Write(result *model.SearchResult) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
