package report

import (
	"io"

	"github.com/nao1215/blindcheck/internal/model"
)

// Writer defines the interface for report output.
// Implementations write check runs in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files or stdout with the same API.
type Writer interface {
	// Write outputs the whole run to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(run *model.CheckRun) (int, error)
}

// ResultWriter is implemented by writers that can emit a paper as soon as
// it has been checked.
type ResultWriter interface {
	WriteResult(result *model.PaperResult) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
