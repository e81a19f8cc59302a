package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/nao1215/blindcheck/internal/model"
)

// fileNameWidth is the column the verdict starts at.
const fileNameWidth = 24

// Verdicts of the one-line format. The clean verdict is padded to keep
// titles roughly aligned with short issue lists.
const (
	verdictClean   = "no-issues   "
	verdictFlagged = "issues-found"
)

// SimpleWriter outputs one line per paper:
//
//	icse-paper13.pdf         issues-found {oversize:13, paper-very-short:2} ``Title''
//	icse-paper14.pdf         no-issues    ``Title''
//	icse-paper15.pdf         error: file is not a PDF document
//
// Design decision: We keep one line per paper rather than a multi-line
// report because:
// 1. Program chairs sort and grep the output of hundreds of submissions
// 2. The line is stable, so runs can be compared with diff
// 3. Details are available in the JSON and Markdown formats
type SimpleWriter struct {
	baseWriter

	clean   *color.Color
	flagged *color.Color
	failed  *color.Color
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithColor enables or disables ANSI colors for the verdict.
// Colors are off by default so that output piped to files stays plain.
func WithColor(enabled bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		for _, c := range []*color.Color{w.clean, w.flagged, w.failed} {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		clean:      color.New(color.FgGreen),
		flagged:    color.New(color.FgYellow, color.Bold),
		failed:     color.New(color.FgRed, color.Bold),
	}
	WithColor(false)(w)

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one line per paper of the run.
func (w *SimpleWriter) Write(run *model.CheckRun) (int, error) {
	var sb strings.Builder
	for _, result := range run.Results {
		sb.WriteString(w.Line(result))
		sb.WriteString("\n")
	}
	return io.WriteString(w.output, sb.String())
}

// WriteResult outputs the line of a single paper.
func (w *SimpleWriter) WriteResult(result *model.PaperResult) (int, error) {
	return io.WriteString(w.output, w.Line(result)+"\n")
}

// Line formats the result of one paper without a trailing newline.
func (w *SimpleWriter) Line(result *model.PaperResult) string {
	if result.Failed() {
		return fmt.Sprintf("%-*s %s", fileNameWidth, result.FileName,
			w.failed.Sprint("error: "+result.Error))
	}

	verdict := w.clean.Sprint(verdictClean)
	if result.HasIssues() {
		issues := make([]string, len(result.Issues))
		for i, issue := range result.Issues {
			issues[i] = issue.String()
		}
		verdict = fmt.Sprintf("%s {%s}", w.flagged.Sprint(verdictFlagged), strings.Join(issues, ", "))
	}

	return fmt.Sprintf("%-*s %s ``%s''", fileNameWidth, result.FileName, verdict, result.Title)
}
