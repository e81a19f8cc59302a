package roster

import "errors"

// Sentinel errors for roster loading.
var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("required column missing from roster header")

	// ErrMissingPaperID is returned when a row has an empty paper column.
	ErrMissingPaperID = errors.New("roster row has no paper id")

	// ErrMalformedRow is returned when a row cannot be parsed as CSV.
	ErrMalformedRow = errors.New("malformed roster row")

	// ErrEmptyRoster is returned when the input has no header.
	ErrEmptyRoster = errors.New("roster is empty")
)
