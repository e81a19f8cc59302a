package document

import (
	"fmt"
	"strings"
)

// Document is a read-only view of one submitted paper.
// Pages are 1-indexed. Implementations are not required to be safe for
// concurrent use; a batch run gives every goroutine its own Document.
type Document interface {
	// FileName returns the base name of the underlying file.
	FileName() string

	// PageCount returns the number of pages.
	PageCount() int

	// TextAtPage returns the extracted text of page n.
	// Returns ErrPageOutOfRange when n is outside [1, PageCount].
	TextAtPage(n int) (string, error)

	// FullText returns the text of all pages concatenated in order.
	FullText() (string, error)

	// MetaDataAuthor returns the Info dictionary author, if set and not blank.
	MetaDataAuthor() (string, bool)

	// MetaDataCreator returns the Info dictionary creator tool, if set and not blank.
	MetaDataCreator() (string, bool)

	// MetaDataTitle returns the Info dictionary title, if set and not blank.
	MetaDataTitle() (string, bool)

	// Close releases the underlying resources.
	Close() error
}

// checkPage validates a page number against a page count.
func checkPage(n, count int) error {
	if n < 1 || n > count {
		return fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, n, count)
	}
	return nil
}

// present trims a metadata value and reports whether anything is left.
func present(value string) (string, bool) {
	value = strings.TrimSpace(value)
	return value, value != ""
}
