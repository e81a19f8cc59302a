package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/nao1215/blindcheck/internal/checker"
	"github.com/nao1215/blindcheck/internal/model"
)

// Default configuration values.
// These values match the call for papers of a typical ten-page software
// engineering conference.
const (
	// DefaultPageLimit is the number of pages allowed for the paper body.
	DefaultPageLimit = 10

	// DefaultReferenceLimit is the number of extra pages allowed for references.
	DefaultReferenceLimit = 2

	// DefaultStyle is the template required when none is configured.
	// IEEE is the fallback classification, so it is also the safer default.
	DefaultStyle = model.StyleIEEE

	// DefaultBatchSize of 4 concurrent checks keeps PDF decoding from
	// saturating a laptop while still speeding up large submission sets.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "blindcheck"
)

// Config holds all configuration options for blindcheck.
// This struct is populated from the configuration file and CLI flags and
// passed through the application rather than kept in global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., LimitConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// PageLimit is the number of pages allowed for the paper body.
	PageLimit int

	// ReferenceLimit is the number of extra pages allowed for references only.
	ReferenceLimit int

	// Style is the template every paper must use.
	Style model.Style

	// TitleCheck enables the comparison of roster, metadata and content titles.
	// Off by default because it raises many false alarms.
	TitleCheck bool

	// Venue is the name of the venue section applied from the configuration file.
	Venue string

	// MetaFile is the path to a HotCRP author CSV export.
	// When set, page 1 is searched for the registered author names and emails.
	MetaFile string

	// ShowText selects extracted text to print before each result:
	// empty for none, "all" for the full text, or a page number.
	ShowText string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of papers checked concurrently.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .blindcheck in the current directory,
	// the user's home directory and the XDG config directory.
	ConfigFilePath string

	// VenueConfigs holds the venues loaded from the configuration file.
	VenueConfigs *File

	// JSONReport enables JSON report output instead of the one-line format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the one-line format.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// Color enables colored one-line output.
	Color bool

	// Targets are the PDF files and directories to check.
	Targets []string

	// DBDir is the directory path for storing the SQLite history database.
	// Defaults to XDG data directory (~/.local/share/blindcheck on Linux).
	DBDir string

	// SaveToDB indicates whether to save results to the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because the limits have non-zero defaults.
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		PageLimit:      DefaultPageLimit,
		ReferenceLimit: DefaultReferenceLimit,
		Style:          DefaultStyle,
		BatchSize:      DefaultBatchSize,
		DBDir:          XDGDataDir(),
		SaveToDB:       true,
	}
}

// XDGDataDir returns the XDG data directory for blindcheck.
// On Linux: ~/.local/share/blindcheck
// On macOS: ~/Library/Application Support/blindcheck
// On Windows: %LOCALAPPDATA%\blindcheck
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for blindcheck.
// On Linux: ~/.config/blindcheck
// On macOS: ~/Library/Application Support/blindcheck
// On Windows: %APPDATA%\blindcheck
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Apply overrides the limits with the values set in a venue configuration.
// Unset venue fields leave the current values alone.
func (c *Config) Apply(v VenueConfig) error {
	if v.PageLimit != 0 {
		c.PageLimit = v.PageLimit
	}
	if v.ReferenceLimit != nil {
		c.ReferenceLimit = *v.ReferenceLimit
	}
	if v.Style != "" {
		style, err := model.ParseStyle(v.Style)
		if err != nil {
			return err
		}
		c.Style = style
	}
	if v.TitleCheck != nil {
		c.TitleCheck = *v.TitleCheck
	}
	if v.Meta != "" {
		c.MetaFile = v.Meta
	}
	return nil
}

// CheckerConfig returns the limits in the form the checker uses.
func (c *Config) CheckerConfig() checker.Config {
	return checker.Config{
		PageLimit:      c.PageLimit,
		ReferenceLimit: c.ReferenceLimit,
		Style:          c.Style,
		TitleCheck:     c.TitleCheck,
	}
}

// RunSettings returns the settings recorded with every check run.
func (c *Config) RunSettings() model.RunSettings {
	return model.RunSettings{
		PageLimit:      c.PageLimit,
		ReferenceLimit: c.ReferenceLimit,
		Style:          c.Style,
		Venue:          c.Venue,
		TitleCheck:     c.TitleCheck,
	}
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.PageLimit <= 0 {
		return ErrInvalidPageLimit
	}

	if c.ReferenceLimit < 0 {
		return ErrInvalidReferenceLimit
	}

	if c.Style != model.StyleACM && c.Style != model.StyleIEEE {
		return ErrUnknownStyle
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
