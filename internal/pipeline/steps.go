package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/nao1215/blindcheck/internal/checker"
	"github.com/nao1215/blindcheck/internal/document"
	"github.com/nao1215/blindcheck/internal/model"
	"github.com/nao1215/blindcheck/internal/roster"
)

// Opener opens the document at path.
type Opener func(path string) (document.Document, error)

// OpenPDF is the default Opener.
func OpenPDF(path string) (document.Document, error) {
	return document.OpenPDF(path)
}

// OpenStep opens the submission file and records its page count.
type OpenStep struct {
	open Opener
}

// NewOpenStep creates an open step. A nil opener means OpenPDF.
func NewOpenStep(open Opener) *OpenStep {
	if open == nil {
		open = OpenPDF
	}
	return &OpenStep{open: open}
}

// Name returns the step name.
func (s *OpenStep) Name() string {
	return "open"
}

// Do opens the document.
func (s *OpenStep) Do(_ context.Context, job *Job, result *model.PaperResult) error {
	doc, err := s.open(job.Path)
	if err != nil {
		return err
	}
	job.Document = doc
	result.Pages = doc.PageCount()
	return nil
}

// RosterStep attaches the roster entry matching the file name.
//
// Design decision: A file with no roster entry is not an error. Program
// chairs often check a directory that mixes registered submissions with
// withdrawn or late ones, and the remaining checks still apply to those.
type RosterStep struct {
	roster *roster.Roster
	logger *slog.Logger
}

// NewRosterStep creates a roster step.
func NewRosterStep(r *roster.Roster, logger *slog.Logger) *RosterStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &RosterStep{roster: r, logger: logger}
}

// Name returns the step name.
func (s *RosterStep) Name() string {
	return "roster"
}

// Do looks up the paper of the job's file.
func (s *RosterStep) Do(_ context.Context, job *Job, result *model.PaperResult) error {
	paper, ok := s.roster.PaperFor(job.Path)
	if !ok {
		s.logger.Warn("no roster entry for submission", "file", result.FileName)
		return nil
	}
	job.Paper = paper
	result.PaperID = paper.ID
	return nil
}

// ShowTextStep writes the extracted text of the document before it is analyzed.
// Writes from concurrent pipelines sharing one step never interleave.
type ShowTextStep struct {
	w         io.Writer
	selection string
	logger    *slog.Logger
	mu        sync.Mutex
}

// NewShowTextStep creates a step that writes the selected text to w.
// The selection is "all" or a page number, as accepted by document.Show.
func NewShowTextStep(w io.Writer, selection string, logger *slog.Logger) *ShowTextStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShowTextStep{w: w, selection: selection, logger: logger}
}

// Name returns the step name.
func (s *ShowTextStep) Name() string {
	return "show_text"
}

// Do writes the text. A page the document does not have is logged and skipped.
func (s *ShowTextStep) Do(_ context.Context, job *Job, result *model.PaperResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := document.Show(s.w, job.Document, s.selection); err != nil {
		s.logger.Warn("cannot show text", "file", result.FileName, "selection", s.selection, "error", err)
	}
	return nil
}

// AnalyzeStep runs the formatting and anonymity checks.
type AnalyzeStep struct {
	config checker.Config
	logger *slog.Logger
}

// NewAnalyzeStep creates an analyze step using the given limits.
func NewAnalyzeStep(config checker.Config, logger *slog.Logger) *AnalyzeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeStep{config: config, logger: logger}
}

// Name returns the step name.
func (s *AnalyzeStep) Name() string {
	return "analyze"
}

// Do checks the document and copies the findings into result.
func (s *AnalyzeStep) Do(_ context.Context, job *Job, result *model.PaperResult) error {
	opts := []checker.Option{checker.WithLogger(s.logger.With("file", result.FileName))}
	if job.Paper != nil {
		opts = append(opts, checker.WithPaper(job.Paper))
	}

	c, err := checker.New(job.Document, s.config, opts...)
	if err != nil {
		return fmt.Errorf("failed to analyze: %w", err)
	}
	job.Checker = c

	checked := c.Result()
	result.Title = checked.Title
	result.Pages = checked.Pages
	result.Style = checked.Style
	result.Issues = checked.Issues
	if checked.PaperID != "" {
		result.PaperID = checked.PaperID
	}

	for _, issue := range checked.Issues {
		s.logger.Debug("issue found",
			"file", result.FileName,
			"tag", issue.Tag,
			"evidence", issue.Evidence,
		)
	}
	return nil
}

// FingerprintStep hashes the extracted text of the document.
type FingerprintStep struct{}

// NewFingerprintStep creates a fingerprint step.
func NewFingerprintStep() *FingerprintStep {
	return &FingerprintStep{}
}

// Name returns the step name.
func (s *FingerprintStep) Name() string {
	return "fingerprint"
}

// Do records the fingerprint.
func (s *FingerprintStep) Do(_ context.Context, job *Job, result *model.PaperResult) error {
	fingerprint, err := document.Fingerprint(job.Document)
	if err != nil {
		return fmt.Errorf("failed to fingerprint: %w", err)
	}
	result.Fingerprint = fingerprint
	return nil
}
