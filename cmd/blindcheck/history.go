package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/blindcheck/internal/config"
	"github.com/nao1215/blindcheck/internal/database"
	"github.com/nao1215/blindcheck/internal/model"
	"github.com/spf13/cobra"
)

// Constants for the direction of change between two checks.
const (
	directionWorsened  = "worsened"
	directionImproved  = "improved"
	directionUnchanged = "unchanged"
	noIssuesMessage    = "No issues"
)

// dateFormat is the timestamp layout of the history tables.
const dateFormat = "2006-01-02 15:04:05"

// NewHistoryCmd creates the history command.
// This command compares check results with earlier results stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [file]",
		Short: "Compare check results with earlier checks of the same file",
		Long: `History displays how the issues of a submission changed between checks.

Authors often fix a desk rejection warning and upload a revision. History
compares the latest two checks of a file and shows:
- New issues that appeared in the latest check
- Resolved issues that are no longer present
- Whether the submission improved or worsened overall

Files are identified by base name, so a path may be given.

Examples:
  # Compare the latest two checks of a submission
  blindcheck history icse-paper13.pdf

  # List all checks of a submission
  blindcheck history --list icse-paper13.pdf

  # List all files in the database
  blindcheck history --list-files

  # Output comparison in JSON format
  blindcheck history --json icse-paper13.pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List check history for the specified file")
	cmd.Flags().BoolP("list-files", "L", false,
		"List all files in the database")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().String("db-dir", "",
		"Directory of the history database (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listFiles, err := cmd.Flags().GetBool("list-files")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	var fileName string
	if !listFiles {
		if len(args) == 0 {
			return errors.New("file name is required (use --list-files to see checked files)")
		}
		fileName = filepath.Base(args[0])
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	out := cmd.OutOrStdout()

	// History never creates a database; an absent one just has no history.
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if errors.Is(err, database.ErrNotFound) {
		fmt.Fprintln(out, "No check history found.")
		fmt.Fprintln(out, "\nUse 'blindcheck check <file>' to check a submission.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()

	if listFiles {
		return listCheckedFiles(ctx, out, db)
	}

	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listCheckHistory(ctx, out, db, fileName)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	return runComparison(ctx, out, db, fileName, jsonOutput)
}

// listCheckedFiles lists all files that have results in the database.
func listCheckedFiles(ctx context.Context, out io.Writer, db *database.ResultDB) error {
	files, err := db.ListFiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	if len(files) == 0 {
		fmt.Fprintln(out, "No checked files found in the database.")
		fmt.Fprintln(out, "\nUse 'blindcheck check <file>' to check a submission.")
		return nil
	}

	fmt.Fprintf(out, "Checked files (%d):\n\n", len(files))
	for _, file := range files {
		fmt.Fprintf(out, "  • %s\n", file)
	}
	fmt.Fprintln(out, "\nUse 'blindcheck history --list <file>' to see the check history of a file.")

	return nil
}

// listCheckHistory lists every stored check of a file, newest first.
func listCheckHistory(ctx context.Context, out io.Writer, db *database.ResultDB, fileName string) error {
	results, err := db.LatestResults(ctx, fileName, 0)
	if err != nil {
		return fmt.Errorf("failed to get check history: %w", err)
	}

	if len(results) == 0 {
		fmt.Fprintf(out, "No check history found for %s\n", fileName)
		fmt.Fprintln(out, "\nUse 'blindcheck check' to check this file.")
		return nil
	}

	fmt.Fprintf(out, "Check history for %s (%d checks):\n\n", fileName, len(results))
	fmt.Fprintf(out, "  %-6s  %-20s  %-6s  %s\n", "ID", "Date", "Pages", "Issues")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 60))

	for _, stored := range results {
		fmt.Fprintf(out, "  %-6d  %-20s  %-6d  %s\n",
			stored.ID,
			stored.Result.CheckedAt.Local().Format(dateFormat),
			stored.Result.Pages,
			formatIssueSummary(stored.Result),
		)
	}

	fmt.Fprintln(out, "\nUse 'blindcheck history <file>' to compare the latest two checks.")

	return nil
}

// formatIssueSummary formats the issue counts per severity into a short string.
func formatIssueSummary(result *model.PaperResult) string {
	if result.Failed() {
		return "error: " + result.Error
	}

	counts := countSeverities(result)
	var parts []string
	for _, level := range []struct {
		label string
		count int
	}{
		{"H", counts.HighCount},
		{"M", counts.MediumCount},
		{"L", counts.LowCount},
		{"I", counts.InfoCount},
	} {
		if level.count > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", level.label, level.count))
		}
	}

	if len(parts) == 0 {
		return noIssuesMessage
	}
	return strings.Join(parts, " ")
}

// runComparison compares the latest two checks of a file.
func runComparison(ctx context.Context, out io.Writer, db *database.ResultDB, fileName string, jsonOutput bool) error {
	results, err := db.LatestResults(ctx, fileName, 2)
	if err != nil {
		return fmt.Errorf("failed to get check history: %w", err)
	}

	if len(results) == 0 {
		return fmt.Errorf("no check history found for %s", fileName)
	}
	if len(results) < 2 {
		return fmt.Errorf("at least 2 checks are required for comparison (found %d)", len(results))
	}

	comparison := compareResults(results[1].Result, results[0].Result)

	if fingerprint := results[0].Result.Fingerprint; fingerprint != "" {
		files, err := db.FindByFingerprint(ctx, fingerprint)
		if err != nil {
			return fmt.Errorf("failed to look up identical files: %w", err)
		}
		comparison.IdenticalFiles = slices.DeleteFunc(files, func(f string) bool { return f == fileName })
	}

	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(comparison)
	}
	return outputComparisonText(out, comparison)
}

// ComparisonResult holds the result of comparing two checks of a file.
type ComparisonResult struct {
	// FileName is the checked file.
	FileName string `json:"file_name"`

	// PreviousCheck contains metadata about the previous check.
	PreviousCheck CheckMetadata `json:"previous_check"`

	// CurrentCheck contains metadata about the latest check.
	CurrentCheck CheckMetadata `json:"current_check"`

	// TextChanged reports whether the extracted text differs.
	TextChanged bool `json:"text_changed"`

	// NewIssues contains issues that are new in the latest check.
	NewIssues []model.Issue `json:"new_issues,omitempty"`

	// ResolvedIssues contains issues that are no longer present.
	ResolvedIssues []model.Issue `json:"resolved_issues,omitempty"`

	// UnchangedCount is the number of issues present in both checks.
	UnchangedCount int `json:"unchanged_count"`

	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	// IdenticalFiles are other files whose text matches the latest check.
	IdenticalFiles []string `json:"identical_files,omitempty"`
}

// CheckMetadata contains metadata about a check for comparison display.
type CheckMetadata struct {
	// CheckedAt is when the check was performed.
	CheckedAt time.Time `json:"checked_at"`

	// Pages is the page count of the checked document.
	Pages int `json:"pages"`

	// Error is set when the file could not be checked.
	Error string `json:"error,omitempty"`

	// TotalIssues is the total number of issues in this check.
	TotalIssues int `json:"total_issues"`

	// HighCount is the number of high severity issues.
	HighCount int `json:"high_count"`

	// MediumCount is the number of medium severity issues.
	MediumCount int `json:"medium_count"`

	// LowCount is the number of low severity issues.
	LowCount int `json:"low_count"`

	// InfoCount is the number of informational issues.
	InfoCount int `json:"info_count"`
}

// countSeverities builds the metadata of one check.
func countSeverities(result *model.PaperResult) CheckMetadata {
	meta := CheckMetadata{
		CheckedAt:   result.CheckedAt,
		Pages:       result.Pages,
		Error:       result.Error,
		TotalIssues: len(result.Issues),
	}
	for _, issue := range result.Issues {
		switch issue.Severity {
		case model.SeverityHigh:
			meta.HighCount++
		case model.SeverityMedium:
			meta.MediumCount++
		case model.SeverityLow:
			meta.LowCount++
		default:
			meta.InfoCount++
		}
	}
	return meta
}

// score weighs the issue counts so that one high severity issue outweighs
// any realistic number of advisory ones.
func (m CheckMetadata) score() int {
	return m.HighCount*100 + m.MediumCount*10 + m.LowCount*5 + m.InfoCount
}

// compareResults compares two checks of the same file.
// Issues are matched by their one-line rendering, so an oversize paper that
// shrank from 14 to 12 pages shows as one resolved and one new issue.
func compareResults(previous, current *model.PaperResult) *ComparisonResult {
	result := &ComparisonResult{
		FileName:      current.FileName,
		PreviousCheck: countSeverities(previous),
		CurrentCheck:  countSeverities(current),
		TextChanged:   previous.Fingerprint != current.Fingerprint,
	}

	previousIssues := make(map[string]bool, len(previous.Issues))
	for _, issue := range previous.Issues {
		previousIssues[issue.String()] = true
	}
	currentIssues := make(map[string]bool, len(current.Issues))
	for _, issue := range current.Issues {
		currentIssues[issue.String()] = true
	}

	// Walk the issue lists rather than the maps to keep report order.
	for _, issue := range current.Issues {
		if !previousIssues[issue.String()] {
			result.NewIssues = append(result.NewIssues, issue)
		}
	}
	for _, issue := range previous.Issues {
		if currentIssues[issue.String()] {
			result.UnchangedCount++
		} else {
			result.ResolvedIssues = append(result.ResolvedIssues, issue)
		}
	}

	previousScore := result.PreviousCheck.score()
	currentScore := result.CurrentCheck.score()
	switch {
	case currentScore < previousScore:
		result.Direction = directionImproved
	case currentScore > previousScore:
		result.Direction = directionWorsened
	default:
		result.Direction = directionUnchanged
	}

	return result
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(out io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(out, "Check Comparison: %s\n", result.FileName)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nStatus: %s\n", formatDirection(result.Direction))
	if !result.TextChanged {
		fmt.Fprintln(out, "The extracted text did not change between the checks.")
	}

	fmt.Fprintf(out, "\nPrevious check: %s\n", result.PreviousCheck.CheckedAt.Local().Format(dateFormat))
	fmt.Fprintf(out, "Current check:  %s\n", result.CurrentCheck.CheckedAt.Local().Format(dateFormat))

	fmt.Fprintln(out, "\nIssues Summary:")
	fmt.Fprintf(out, "  %-10s  %-10s  %-10s  %-10s\n", "Severity", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 45))
	rows := []struct {
		label             string
		previous, current int
	}{
		{"Pages", result.PreviousCheck.Pages, result.CurrentCheck.Pages},
		{"High", result.PreviousCheck.HighCount, result.CurrentCheck.HighCount},
		{"Medium", result.PreviousCheck.MediumCount, result.CurrentCheck.MediumCount},
		{"Low", result.PreviousCheck.LowCount, result.CurrentCheck.LowCount},
		{"Info", result.PreviousCheck.InfoCount, result.CurrentCheck.InfoCount},
	}
	for _, row := range rows {
		fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n",
			row.label, row.previous, row.current, formatDelta(row.current-row.previous))
	}
	fmt.Fprintln(out, "  "+strings.Repeat("-", 45))
	fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", "Total",
		result.PreviousCheck.TotalIssues, result.CurrentCheck.TotalIssues,
		formatDelta(result.CurrentCheck.TotalIssues-result.PreviousCheck.TotalIssues))

	if result.PreviousCheck.Error != "" {
		fmt.Fprintf(out, "\nPrevious check failed: %s\n", result.PreviousCheck.Error)
	}
	if result.CurrentCheck.Error != "" {
		fmt.Fprintf(out, "\nCurrent check failed: %s\n", result.CurrentCheck.Error)
	}

	if len(result.NewIssues) > 0 {
		fmt.Fprintf(out, "\nNew Issues (%d):\n", len(result.NewIssues))
		for _, issue := range result.NewIssues {
			fmt.Fprintf(out, "  [+] [%s] %s\n", issue.SeverityText, issue)
		}
	}

	if len(result.ResolvedIssues) > 0 {
		fmt.Fprintf(out, "\nResolved Issues (%d):\n", len(result.ResolvedIssues))
		for _, issue := range result.ResolvedIssues {
			fmt.Fprintf(out, "  [-] [%s] %s\n", issue.SeverityText, issue)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d issues\n", result.UnchangedCount)
	}

	if len(result.IdenticalFiles) > 0 {
		fmt.Fprintf(out, "\nSame text also checked as: %s\n", strings.Join(result.IdenticalFiles, ", "))
	}

	return nil
}

// formatDirection formats the direction of change for display.
func formatDirection(direction string) string {
	switch direction {
	case directionImproved:
		return "IMPROVED (fewer or less severe issues)"
	case directionWorsened:
		return "WORSENED (more or more severe issues)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
