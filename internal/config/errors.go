package config

import (
	"errors"

	"github.com/nao1215/blindcheck/internal/model"
)

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoTarget is returned when no PDF file or directory is specified.
	ErrNoTarget = errors.New("no target specified: provide PDF files or directories")

	// ErrInvalidPageLimit is returned when the page limit is not positive.
	ErrInvalidPageLimit = errors.New("invalid page limit: must be positive")

	// ErrInvalidReferenceLimit is returned when the reference limit is negative.
	// Zero is valid and means references must fit within the page limit.
	ErrInvalidReferenceLimit = errors.New("invalid reference limit: must be non-negative")

	// ErrUnknownStyle is returned when the required style is neither ACM nor IEEE.
	ErrUnknownStyle = model.ErrUnknownStyle

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no concurrent checks, effectively stopping
	// the run.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrUnknownVenue is returned when a venue is not defined in the configuration file.
	ErrUnknownVenue = errors.New("venue not defined in configuration file")
)
