package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/nao1215/blindcheck/internal/config"
	"github.com/nao1215/blindcheck/internal/database"
	"github.com/nao1215/blindcheck/internal/document"
	"github.com/nao1215/blindcheck/internal/log"
	"github.com/nao1215/blindcheck/internal/model"
	"github.com/nao1215/blindcheck/internal/pipeline"
	"github.com/nao1215/blindcheck/internal/report"
	"github.com/nao1215/blindcheck/internal/roster"
	"github.com/spf13/cobra"
)

// errNoPDFFiles is returned when the targets expand to no files at all.
var errNoPDFFiles = errors.New("no PDF files found in the given targets")

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [files|directories...]",
		Short: "Check submissions for double-blind and formatting issues",
		Long: `Check screens submitted papers (PDF) against a conference's policy.

Each file is checked for:
- Page limit and references-only pages after the limit
- The required template (ACM or IEEE)
- Author emails and names on the first page
- Author names in the PDF metadata
- Mentions of the authors' previous work

Directories are expanded to the *.pdf files they contain. Results are
printed one line per file in the order the files were given:

  icse-paper13.pdf         issues-found {oversize:12} ` + "``Test Infected''" + `

Examples:
  # Check a single paper against the default limits (10+2 pages, IEEE)
  blindcheck check paper.pdf

  # Check all submissions of a venue with the HotCRP author export
  blindcheck check --style ACM --page-limit 10 --meta authors.csv submissions/

  # Use the rules of a venue from the configuration file
  blindcheck check --venue icse2021 submissions/

  # Print the text extracted from the first page
  blindcheck check --showtext 1 paper.pdf

  # Write a Markdown report for the program committee
  blindcheck check --markdown -o reports/icse2021.md submissions/`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheckCmd,
	}

	// Policy flags
	cmd.Flags().StringP("style", "s", string(config.DefaultStyle),
		"Required template (ACM or IEEE)")
	cmd.Flags().IntP("page-limit", "p", config.DefaultPageLimit,
		"Number of pages allowed for the paper body")
	cmd.Flags().IntP("reference-limit", "r", config.DefaultReferenceLimit,
		"Number of extra pages allowed for references")
	cmd.Flags().StringP("meta", "m", "",
		"HotCRP author export (CSV) used for author name checks")
	cmd.Flags().String("venue", "",
		"Venue whose rules are read from the configuration file")
	cmd.Flags().Bool("titles", false,
		"Check that the title agrees with the PDF metadata and the roster")

	// Inspection flags
	cmd.Flags().StringP("showtext", "t", "",
		"Print the extracted text of a page number, or \"all\"")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of files checked concurrently")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .blindcheck in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().Bool("markdown", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("color", false,
		"Colorize the one-line verdicts")

	// History flags
	cmd.Flags().Bool("no-db", false,
		"Do not save the results to the history database")
	cmd.Flags().String("db-dir", "",
		"Directory of the history database (default: XDG data directory)")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := validateSelection(cfg.ShowText); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCheck(ctx, cfg, cmd.OutOrStdout(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the configuration file and the command flags.
//
// Design decision: Values are layered as built-in defaults, then the file's
// defaults section, then the selected venue, then flags the user actually set.
// Only changed flags override, so a venue's page limit is not silently
// replaced by the default value of --page-limit.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, error if not found.
	// If no path is specified, silently use an empty config if no file is found.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.VenueConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.VenueConfigs = &config.File{Venues: make(map[string]config.VenueConfig)}
	}

	cfg.Venue, err = flags.GetString("venue")
	if err != nil {
		return nil, err
	}
	venue, err := cfg.VenueConfigs.Venue(cfg.Venue)
	if err != nil {
		return nil, err
	}
	if err := cfg.Apply(venue); err != nil {
		return nil, fmt.Errorf("invalid venue configuration: %w", err)
	}

	if flags.Changed("style") {
		name, err := flags.GetString("style")
		if err != nil {
			return nil, err
		}
		if cfg.Style, err = model.ParseStyle(name); err != nil {
			return nil, err
		}
	}
	if flags.Changed("page-limit") {
		if cfg.PageLimit, err = flags.GetInt("page-limit"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("reference-limit") {
		if cfg.ReferenceLimit, err = flags.GetInt("reference-limit"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("meta") {
		if cfg.MetaFile, err = flags.GetString("meta"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("titles") {
		if cfg.TitleCheck, err = flags.GetBool("titles"); err != nil {
			return nil, err
		}
	}

	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.ShowText, err = flags.GetString("showtext"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.Color, err = flags.GetBool("color"); err != nil {
		return nil, err
	}

	noDB, err := flags.GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB

	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Targets = args

	return cfg, nil
}

// validateSelection checks a --showtext value before any file is opened.
func validateSelection(selection string) error {
	if selection == "" || selection == document.ShowAll {
		return nil
	}
	if n, err := strconv.Atoi(selection); err != nil || n < 1 {
		return fmt.Errorf("%w: %q", document.ErrInvalidPageSelection, selection)
	}
	return nil
}

// runCheck checks all target files and writes the report.
func runCheck(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	files, err := pipeline.CollectFiles(cfg.Targets)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errNoPDFFiles
	}

	var r *roster.Roster
	if cfg.MetaFile != "" {
		r, err = roster.LoadFile(cfg.MetaFile)
		if err != nil {
			return fmt.Errorf("failed to load author metadata: %w", err)
		}
		logger.Info("roster loaded", "file", cfg.MetaFile, "papers", r.Len())
	}

	var db *database.ResultDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	output, closeOutput, err := openOutput(cfg.ReportFile, stdout)
	if err != nil {
		return err
	}
	defer closeOutput()

	// Extracted text goes to the terminal in file order, so one file at a time.
	concurrency := cfg.BatchSize
	if cfg.ShowText != "" {
		concurrency = 1
	}

	logger.Info("starting check",
		"files", len(files),
		"venue", cfg.Venue,
		"style", cfg.Style,
		"pageLimit", cfg.PageLimit,
		"referenceLimit", cfg.ReferenceLimit,
		"concurrency", concurrency,
	)

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return newCheckPipeline(cfg, r, stdout, logger)
		},
		pipeline.WithConcurrency(concurrency),
		pipeline.WithBatchLogger(logger),
	)

	// The one-line format streams as files finish; the structured formats
	// need the whole run.
	var lines report.ResultWriter
	if !cfg.JSONReport && !cfg.MarkdownReport {
		lines = report.NewSimpleWriter(output, report.WithColor(cfg.Color))
	}
	emitter := newOrderedEmitter(files, lines)

	startTime := time.Now()
	batchErr := bp.ProcessBatchWithCallback(ctx, files, emitter.add)
	results, writeErr := emitter.finish(batchErr)
	if writeErr != nil {
		return fmt.Errorf("failed to write report: %w", writeErr)
	}

	run := model.NewCheckRun(cfg.RunSettings())
	run.Started = startTime
	for _, result := range results {
		run.AddResult(result)
	}

	summary := run.Summarize()
	logger.Info("check completed",
		"total", summary.Total,
		"clean", summary.Clean,
		"flagged", summary.Flagged,
		"failed", summary.Failed,
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)

	if err := writeRunReport(cfg, output, run); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if batchErr != nil {
		return batchErr
	}

	if err := saveRun(ctx, db, run, logger); err != nil {
		logger.Error("failed to save check run", "run", run.ID, "error", err)
	}

	return nil
}

// newCheckPipeline creates the pipeline that checks one file.
func newCheckPipeline(cfg *config.Config, r *roster.Roster, textOut io.Writer, logger *slog.Logger) *pipeline.Pipeline {
	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddStep(pipeline.NewOpenStep(nil))
	if r != nil {
		p.AddStep(pipeline.NewRosterStep(r, logger))
	}
	if cfg.ShowText != "" {
		p.AddStep(pipeline.NewShowTextStep(textOut, cfg.ShowText, logger))
	}
	p.AddSteps(
		pipeline.NewAnalyzeStep(cfg.CheckerConfig(), logger),
		pipeline.NewFingerprintStep(),
	)
	return p
}

// openOutput returns the report destination and a function that closes it.
func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports name un-anonymized authors, so only the owner may read them.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// writeRunReport writes the structured formats. The one-line format has
// already been streamed by the emitter.
func writeRunReport(cfg *config.Config, output io.Writer, run *model.CheckRun) error {
	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		return nil
	}
	_, err := writer.Write(run)
	return err
}

// saveRun saves the run to the history database.
// If db is nil, this function is a no-op.
func saveRun(ctx context.Context, db *database.ResultDB, run *model.CheckRun, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	if err := db.SaveRun(ctx, run); err != nil {
		return err
	}

	logger.Info("check run saved to database", "run", run.ID, "results", len(run.Results))
	return nil
}

// orderedEmitter collects batch results and writes them in input order
// as soon as every earlier file has finished.
type orderedEmitter struct {
	mu      sync.Mutex
	paths   []string
	results []*model.PaperResult
	next    int
	writer  report.ResultWriter
	err     error
}

// newOrderedEmitter creates an emitter for paths. A nil writer only collects.
func newOrderedEmitter(paths []string, writer report.ResultWriter) *orderedEmitter {
	return &orderedEmitter{
		paths:   paths,
		results: make([]*model.PaperResult, len(paths)),
		writer:  writer,
	}
}

// add records the result of the file at index. It is safe for concurrent use.
func (e *orderedEmitter) add(result *model.PaperResult, index int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.results[index] = result
	e.flush()
}

// flush writes the completed prefix of the results. Callers hold mu.
func (e *orderedEmitter) flush() {
	for e.next < len(e.results) && e.results[e.next] != nil {
		if e.writer != nil && e.err == nil {
			_, e.err = e.writer.WriteResult(e.results[e.next])
		}
		e.next++
	}
}

// finish fills in the files that never ran because the batch was
// cancelled, writes the remaining lines and returns every result in order.
func (e *orderedEmitter) finish(batchErr error) ([]*model.PaperResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pipeline.FillCancelled(e.paths, e.results, batchErr)
	e.flush()

	return e.results, e.err
}
