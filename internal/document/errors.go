package document

import "errors"

// Sentinel errors for document access.
var (
	// ErrPageOutOfRange is returned when a page outside [1, PageCount] is requested.
	ErrPageOutOfRange = errors.New("page number out of range")

	// ErrNotPDF is returned when a file does not start with the PDF magic bytes.
	ErrNotPDF = errors.New("file is not a PDF document")

	// ErrExtraction is returned when the PDF library fails to decode a page.
	ErrExtraction = errors.New("failed to extract text")
)
