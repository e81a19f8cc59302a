package document

import "strings"

// Memory is an in-memory Document.
// Every page is stored with a trailing newline, the way page text comes out
// of PDF extraction.
type Memory struct {
	name    string
	pages   []string
	author  string
	creator string
	title   string
	closed  bool
}

// MemoryOption configures a Memory document.
type MemoryOption func(*Memory)

// WithAuthor sets the metadata author field.
func WithAuthor(author string) MemoryOption {
	return func(m *Memory) {
		m.author = author
	}
}

// WithCreator sets the metadata creator tool field.
func WithCreator(creator string) MemoryOption {
	return func(m *Memory) {
		m.creator = creator
	}
}

// WithTitle sets the metadata title field.
func WithTitle(title string) MemoryOption {
	return func(m *Memory) {
		m.title = title
	}
}

// NewMemory creates a document from page texts. pages[0] is page 1.
func NewMemory(name string, pages []string, opts ...MemoryOption) *Memory {
	m := &Memory{
		name:  name,
		pages: make([]string, 0, len(pages)),
	}
	for _, p := range pages {
		if !strings.HasSuffix(p, "\n") {
			p += "\n"
		}
		m.pages = append(m.pages, p)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FileName returns the document name.
func (m *Memory) FileName() string {
	return m.name
}

// PageCount returns the number of pages.
func (m *Memory) PageCount() int {
	return len(m.pages)
}

// TextAtPage returns the text of page n.
func (m *Memory) TextAtPage(n int) (string, error) {
	if err := checkPage(n, len(m.pages)); err != nil {
		return "", err
	}
	return m.pages[n-1], nil
}

// FullText returns all pages joined by newlines.
func (m *Memory) FullText() (string, error) {
	return strings.Join(m.pages, "\n"), nil
}

// MetaDataAuthor returns the author field if it is not blank.
func (m *Memory) MetaDataAuthor() (string, bool) {
	return present(m.author)
}

// MetaDataCreator returns the creator field if it is not blank.
func (m *Memory) MetaDataCreator() (string, bool) {
	return present(m.creator)
}

// MetaDataTitle returns the title field if it is not blank.
func (m *Memory) MetaDataTitle() (string, bool) {
	return present(m.title)
}

// Close marks the document closed. It never fails.
func (m *Memory) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *Memory) Closed() bool {
	return m.closed
}
