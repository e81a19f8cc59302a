package report

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/blindcheck/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for sharing results with the program committee.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter

	title cases.Caser
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		title:      cases.Title(language.English),
	}
}

// Write outputs the run in Markdown format.
func (w *MarkdownWriter) Write(run *model.CheckRun) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := run.Summarize()

	w.writeHeader(md, run)
	w.writeSummary(md, run, summary)
	w.writePapers(md, run)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.CheckRun) {
	md.H1("blindcheck Report")
	md.PlainText("")

	venue := run.Settings.Venue
	if venue == "" {
		venue = "-"
	}
	titleCheck := "off"
	if run.Settings.TitleCheck {
		titleCheck = "on"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run", "`" + run.ID + "`"},
			{"Started", run.Started.Format("2006-01-02 15:04:05 MST")},
			{"Venue", venue},
			{"Page Limit", strconv.Itoa(run.Settings.PageLimit)},
			{"Reference Pages", strconv.Itoa(run.Settings.ReferenceLimit)},
			{"Template", run.Settings.Style.String()},
			{"Title Check", titleCheck},
		},
	})
	md.PlainText("")
}

// writeSummary writes the paper counts, the tag distribution and an alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, run *model.CheckRun, summary model.Summary) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Papers", "Count"},
		Rows: [][]string{
			{"✅ Clean", strconv.Itoa(summary.Clean)},
			{"⚠️ Flagged", strconv.Itoa(summary.Flagged)},
			{"❌ Failed", strconv.Itoa(summary.Failed)},
			{"**Total**", "**" + strconv.Itoa(summary.Total) + "**"},
		},
	})
	md.PlainText("")

	if len(summary.TagCount) > 0 {
		w.writePieChart(md, summary)
	}

	w.writeAlert(md, run, summary)
}

// writePieChart writes a mermaid pie chart of issue tags.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Issues by Tag"),
		piechart.WithShowData(true),
	)

	tags := make([]string, 0, len(summary.TagCount))
	for tag := range summary.TagCount {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	for _, tag := range tags {
		chart.LabelAndIntValue(tag, uint64(summary.TagCount[tag])) //nolint:gosec // counts are never negative
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert for the most pressing problem of the run.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, run *model.CheckRun, summary model.Summary) {
	high := 0
	for _, result := range run.Results {
		if result.HasIssues() && result.MaxSeverity() == model.SeverityHigh {
			high++
		}
	}

	switch {
	case summary.Failed > 0:
		md.Cautionf("%d file(s) could not be checked. Check them by hand.", summary.Failed)
	case high > 0:
		md.Warningf("%d paper(s) have high severity issues, likely desk rejections.", high)
	case summary.Flagged > 0:
		md.Importantf("%d paper(s) have issues worth a manual look.", summary.Flagged)
	default:
		md.Tip("No issues detected. This does not guarantee that papers are anonymous.")
	}
	md.PlainText("")
}

// writePapers writes one section per paper.
func (w *MarkdownWriter) writePapers(md *markdown.Markdown, run *model.CheckRun) {
	md.H2("Papers")
	md.PlainText("")

	if len(run.Results) == 0 {
		md.PlainText("No papers checked.")
		md.PlainText("")
		return
	}

	for _, result := range run.Results {
		w.writePaper(md, result)
	}
}

// writePaper writes the details and issue table of one paper.
func (w *MarkdownWriter) writePaper(md *markdown.Markdown, result *model.PaperResult) {
	md.H3(result.FileName)
	md.PlainText("")

	if result.Failed() {
		md.PlainTextf("❌ %s", result.Error)
		md.PlainText("")
		return
	}

	rows := [][]string{
		{"Title", orDash(result.Title)},
		{"Pages", strconv.Itoa(result.Pages)},
		{"Template", orDash(result.Style.String())},
	}
	if result.PaperID != "" {
		rows = append([][]string{{"Paper", "#" + result.PaperID}}, rows...)
	}
	md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: rows})
	md.PlainText("")

	if !result.HasIssues() {
		md.PlainText("✅ No issues.")
		md.PlainText("")
		return
	}

	issueRows := make([][]string, len(result.Issues))
	for i, issue := range result.Issues {
		info := model.GetIssueInfo(issue.Tag)
		issueRows[i] = []string{
			"`" + issue.Tag + "`",
			w.severityLabel(issue.Severity),
			escapeCell(truncateString(orDash(issue.Evidence), 60)),
			info.Recommendation,
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Issue", "Severity", "Evidence", "Recommendation"},
		Rows:   issueRows,
	})
	md.PlainText("")

	for _, tag := range uniqueTags(result) {
		md.Details(tag, model.GetIssueInfo(tag).Description)
	}
	md.PlainText("")
}

// severityLabel returns "High", "Medium" and so on.
func (w *MarkdownWriter) severityLabel(s model.Severity) string {
	return w.title.String(strings.ToLower(s.String()))
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [blindcheck](https://github.com/nao1215/blindcheck). Heuristic results; review flagged papers by hand.*")
}

func uniqueTags(result *model.PaperResult) []string {
	tags := make([]string, 0, len(result.Issues))
	for _, tag := range result.Tags() {
		if !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// escapeCell keeps table cells on one line and their pipes literal.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return fmt.Sprintf("%s...", string(runes[:maxLen-3]))
}
