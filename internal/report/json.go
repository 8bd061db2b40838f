package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/wikirace/internal/model"
)

// JSONReport is the document written by JSONWriter.
//
// Design decision: We wrap the result rather than marshal
// model.SearchResult directly so output-only fields (version, hop count,
// elapsed milliseconds) stay out of the model.
type JSONReport struct {
	Version   string `json:"version,omitempty"`
	Hops      int    `json:"hops"`
	ElapsedMS int64  `json:"elapsed_ms"`

	*model.SearchResult
}

// JSONWriter outputs results in JSON format.
//
// Design decision: standard encoding/json is enough for a flat document,
// and the output stays stable across Go versions.
type JSONWriter struct {
	baseWriter

	version string
	indent  string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables indented JSON output.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = "  "
	}
}

// WithVersion records the program version in the document.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the result as one JSON document followed by a newline.
func (w *JSONWriter) Write(result *model.SearchResult) (int, error) {
	doc := JSONReport{
		Version:      w.version,
		Hops:         result.Hops(),
		ElapsedMS:    result.Elapsed.Milliseconds(),
		SearchResult: result,
	}

	var (
		data []byte
		err  error
	)
	if w.indent != "" {
		data, err = json.MarshalIndent(doc, "", w.indent)
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
