package model

import (
	"time"

	"github.com/google/uuid"
)

// PaperResult is the outcome of checking one submission file.
//
// Design decision: A failed check still produces a PaperResult with Error set.
// This lets batch runs report every input file in order, and lets writers show
// extraction failures next to the papers that were checked successfully.
type PaperResult struct {
	// FileName is the base name of the checked file.
	FileName string `json:"file_name"`

	// Path is the path the file was opened from.
	Path string `json:"path,omitempty"`

	// PaperID is the submission number, if roster metadata was found.
	PaperID string `json:"paper_id,omitempty"`

	// Title is the detected title. Empty when no title could be found.
	Title string `json:"title"`

	// Pages is the page count of the document.
	Pages int `json:"pages"`

	// Style is the classified formatting template.
	Style Style `json:"style,omitempty"`

	// Issues are the detected policy deviations in report order.
	Issues []Issue `json:"issues"`

	// Fingerprint is the SHA3-256 hash of the extracted text.
	// Used by the history store to tell revised submissions apart.
	Fingerprint string `json:"fingerprint,omitempty"`

	// Error holds the failure message when the file could not be checked.
	Error string `json:"error,omitempty"`

	// CheckedAt is when the check finished.
	CheckedAt time.Time `json:"checked_at"`
}

// NewPaperResult creates an empty result for the given file.
func NewPaperResult(fileName string) *PaperResult {
	return &PaperResult{
		FileName: fileName,
		Issues:   make([]Issue, 0),
	}
}

// HasIssues reports whether any issue was detected.
func (r *PaperResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// Failed reports whether the file could not be checked.
func (r *PaperResult) Failed() bool {
	return r.Error != ""
}

// Tags returns the issue tags in report order.
func (r *PaperResult) Tags() []string {
	tags := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		tags = append(tags, issue.Tag)
	}
	return tags
}

// MaxSeverity returns the highest severity among the issues.
// Returns SeverityInfo when there are no issues.
func (r *PaperResult) MaxSeverity() Severity {
	highest := SeverityInfo
	for _, issue := range r.Issues {
		if issue.Severity > highest {
			highest = issue.Severity
		}
	}
	return highest
}

// RunSettings records the limits a run was performed with.
type RunSettings struct {
	PageLimit      int    `json:"page_limit"`
	ReferenceLimit int    `json:"reference_limit"`
	Style          Style  `json:"style"`
	Venue          string `json:"venue,omitempty"`
	TitleCheck     bool   `json:"title_check"`
}

// CheckRun is one invocation of the checker over a set of files.
type CheckRun struct {
	// ID uniquely identifies the run in the history store.
	ID string `json:"id"`

	// Started is when the run began.
	Started time.Time `json:"started"`

	// Settings are the limits the papers were checked against.
	Settings RunSettings `json:"settings"`

	// Results are kept in input order.
	Results []*PaperResult `json:"results"`
}

// NewCheckRun creates a run with a fresh random identifier.
func NewCheckRun(settings RunSettings) *CheckRun {
	return &CheckRun{
		ID:       uuid.NewString(),
		Started:  time.Now(),
		Settings: settings,
		Results:  make([]*PaperResult, 0),
	}
}

// AddResult appends a paper result to the run.
func (c *CheckRun) AddResult(r *PaperResult) {
	c.Results = append(c.Results, r)
}

// Summary counts papers by outcome.
type Summary struct {
	Total    int            `json:"total"`
	Clean    int            `json:"clean"`
	Flagged  int            `json:"flagged"`
	Failed   int            `json:"failed"`
	TagCount map[string]int `json:"tag_count"`
}

// Summarize counts clean, flagged and failed papers and tallies issue tags.
func (c *CheckRun) Summarize() Summary {
	s := Summary{TagCount: make(map[string]int)}
	for _, r := range c.Results {
		s.Total++
		switch {
		case r.Failed():
			s.Failed++
		case r.HasIssues():
			s.Flagged++
		default:
			s.Clean++
		}
		for _, issue := range r.Issues {
			s.TagCount[issue.Tag]++
		}
	}
	return s
}
