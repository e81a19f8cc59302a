package checker

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/nao1215/blindcheck/internal/document"
	"github.com/nao1215/blindcheck/internal/model"
)

// Config holds the limits a paper is checked against.
// It is copied into the Checker and never changed during a run.
type Config struct {
	// PageLimit is the number of pages allowed for the paper body.
	PageLimit int

	// ReferenceLimit is the number of extra pages allowed for references only.
	ReferenceLimit int

	// Style is the required template.
	Style model.Style

	// TitleCheck enables the title consistency check.
	// It is off by default because papers often shorten their title in one
	// of the three places.
	TitleCheck bool
}

// DefaultConfig returns the limits of a typical ten-page conference.
func DefaultConfig() Config {
	return Config{
		PageLimit:      10,
		ReferenceLimit: 2,
		Style:          model.StyleIEEE,
	}
}

// TotalLimit returns the maximum number of pages including references.
func (c Config) TotalLimit() int {
	return c.PageLimit + c.ReferenceLimit
}

// Checker runs the formatting and anonymity heuristics over one document.
//
// Design decision: The document is read completely when the Checker is
// created, and every check afterwards works on that in-memory copy because:
//  1. Extraction errors surface once, from New, instead of from every check
//  2. The checks become pure functions of text and configuration
//  3. A Checker never holds the document open while reports are written
//
// A Checker is not mutated by any check, so calling Issues repeatedly returns
// the same list.
type Checker struct {
	fileName string

	// pages[0] is page 1.
	pages    []string
	fullText string

	author     string
	hasAuthor  bool
	creator    string
	hasCreator bool
	metaTitle  string
	hasTitle   bool

	paper  *model.Paper
	config Config
	logger *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithPaper attaches roster metadata for the identity and title checks.
func WithPaper(paper *model.Paper) Option {
	return func(c *Checker) {
		c.paper = paper
	}
}

// WithLogger sets the logger for the checker.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// New reads the text and metadata of doc and returns a Checker for it.
// The caller keeps ownership of doc and may close it once New returns.
func New(doc document.Document, config Config, opts ...Option) (*Checker, error) {
	c := &Checker{
		fileName: doc.FileName(),
		pages:    make([]string, 0, doc.PageCount()),
		config:   config,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	for n := 1; n <= doc.PageCount(); n++ {
		text, err := doc.TextAtPage(n)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d of %s: %w", n, c.fileName, err)
		}
		c.pages = append(c.pages, text)
	}

	fullText, err := doc.FullText()
	if err != nil {
		return nil, fmt.Errorf("failed to read text of %s: %w", c.fileName, err)
	}
	c.fullText = fullText

	c.author, c.hasAuthor = doc.MetaDataAuthor()
	c.creator, c.hasCreator = doc.MetaDataCreator()
	c.metaTitle, c.hasTitle = doc.MetaDataTitle()

	return c, nil
}

// FileName returns the name of the checked document.
func (c *Checker) FileName() string {
	return c.fileName
}

// PageCount returns the number of pages of the checked document.
func (c *Checker) PageCount() int {
	return len(c.pages)
}

// Config returns the limits the checker was created with.
func (c *Checker) Config() Config {
	return c.config
}

// page returns the text of page n. Callers only ask for pages in [1, PageCount].
func (c *Checker) page(n int) string {
	return c.pages[n-1]
}

// firstPage returns page 1, or false for an empty document.
func (c *Checker) firstPage() (string, bool) {
	if len(c.pages) == 0 {
		return "", false
	}
	return c.pages[0], true
}
