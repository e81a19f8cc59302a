package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nao1215/blindcheck/internal/model"
)

// sampleRun returns a run with a clean, a flagged and a failed paper.
func sampleRun() *model.CheckRun {
	run := model.NewCheckRun(model.RunSettings{
		PageLimit:      10,
		ReferenceLimit: 2,
		Style:          model.StyleIEEE,
		Venue:          "icse2021",
	})

	clean := model.NewPaperResult("icse-paper1.pdf")
	clean.Title = "Test Infected"
	clean.Pages = 10
	clean.Style = model.StyleIEEE
	run.AddResult(clean)

	flagged := model.NewPaperResult("icse-paper13.pdf")
	flagged.Title = "Refactoring"
	flagged.Pages = 14
	flagged.Style = model.StyleACM
	flagged.PaperID = "13"
	flagged.Issues = []model.Issue{
		model.NewIssue(model.TagWrongTemplate, "must-be-IEEE"),
		model.NewCountIssue(model.TagOversize, 14),
		model.NewIssue(model.TagRevealingEmail, "kent@beck.com"),
	}
	run.AddResult(flagged)

	failed := model.NewPaperResult("icse-paper666.pdf")
	failed.Error = "file is not a PDF document"
	run.AddResult(failed)

	return run
}

// TestSimpleWriterLine tests the one-line format.
func TestSimpleWriterLine(t *testing.T) {
	t.Parallel()

	run := sampleRun()
	w := NewSimpleWriter(&bytes.Buffer{})

	testCases := []struct {
		name     string
		result   *model.PaperResult
		expected string
	}{
		{
			name:     "clean paper",
			result:   run.Results[0],
			expected: "icse-paper1.pdf          no-issues    ``Test Infected''",
		},
		{
			name:     "flagged paper",
			result:   run.Results[1],
			expected: "icse-paper13.pdf         issues-found {wrong-template:must-be-IEEE, oversize:14, author-revealing-email:``kent@beck.com''} ``Refactoring''",
		},
		{
			name:     "failed paper",
			result:   run.Results[2],
			expected: "icse-paper666.pdf        error: file is not a PDF document",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := w.Line(tc.result); got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
		})
	}
}

// TestSimpleWriterLongFileName tests that long names push the verdict right.
func TestSimpleWriterLongFileName(t *testing.T) {
	t.Parallel()

	result := model.NewPaperResult("a-very-long-submission-file-name.pdf")
	result.Title = "T"
	got := NewSimpleWriter(&bytes.Buffer{}).Line(result)
	expected := "a-very-long-submission-file-name.pdf no-issues    ``T''"
	if got != expected {
		t.Errorf("got %q, expected %q", got, expected)
	}
}

// TestSimpleWriterWrite tests writing a whole run and a single result.
func TestSimpleWriterWrite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSimpleWriter(&buf)

	n, err := w.Write(sampleRun())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("got %d bytes reported, %d written", n, buf.Len())
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, expected 3", len(lines))
	}
	if !strings.HasPrefix(lines[1], "icse-paper13.pdf") {
		t.Errorf("expected input order, got %q", lines[1])
	}

	buf.Reset()
	if _, err := w.WriteResult(sampleRun().Results[0]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "``Test Infected''\n") {
		t.Errorf("unexpected line %q", buf.String())
	}
}

// TestSimpleWriterColor tests that colors are opt-in.
func TestSimpleWriterColor(t *testing.T) {
	t.Parallel()

	result := sampleRun().Results[1]

	plain := NewSimpleWriter(&bytes.Buffer{}).Line(result)
	if strings.Contains(plain, "\x1b[") {
		t.Errorf("expected no escape codes, got %q", plain)
	}

	colored := NewSimpleWriter(&bytes.Buffer{}, WithColor(true)).Line(result)
	if !strings.Contains(colored, "\x1b[") {
		t.Errorf("expected escape codes, got %q", colored)
	}
	if !strings.Contains(colored, "oversize:14") {
		t.Errorf("expected issues in colored line, got %q", colored)
	}
}

// TestJSONWriter tests the JSON report structure.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		run := sampleRun()
		if _, err := NewJSONWriter(&buf, WithVersion("v1.2.3")).Write(run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded struct {
			Version string `json:"version"`
			Run     struct {
				ID      string `json:"id"`
				Results []struct {
					FileName string `json:"file_name"`
					Issues   []struct {
						Tag      string `json:"tag"`
						Evidence string `json:"evidence"`
					} `json:"issues"`
					Error string `json:"error"`
				} `json:"results"`
			} `json:"run"`
			Summary model.Summary `json:"summary"`
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
		}

		if decoded.Version != "v1.2.3" {
			t.Errorf("got version %q, expected %q", decoded.Version, "v1.2.3")
		}
		if decoded.Run.ID != run.ID {
			t.Errorf("got run id %q, expected %q", decoded.Run.ID, run.ID)
		}
		if len(decoded.Run.Results) != 3 {
			t.Fatalf("got %d results, expected 3", len(decoded.Run.Results))
		}
		flagged := decoded.Run.Results[1]
		if len(flagged.Issues) != 3 || flagged.Issues[2].Evidence != "kent@beck.com" {
			t.Errorf("unexpected issues %+v", flagged.Issues)
		}
		if decoded.Run.Results[2].Error == "" {
			t.Error("expected error in failed result")
		}
		if decoded.Summary.Clean != 1 || decoded.Summary.Flagged != 1 || decoded.Summary.Failed != 1 {
			t.Errorf("unexpected summary %+v", decoded.Summary)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected compact single-line output")
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(sampleRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"run\": {") {
			t.Errorf("expected indented output, got %s", buf.String())
		}
	})
}

// TestMarkdownWriter tests the Markdown report sections.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	run := sampleRun()
	if _, err := NewMarkdownWriter(&buf).Write(run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()

	expected := []string{
		"# blindcheck Report",
		run.ID,
		"icse2021",
		"## Summary",
		"```mermaid",
		"Issues by Tag",
		"## Papers",
		"### icse-paper13.pdf",
		"`oversize`",
		"High",
		"Medium",
		"kent@beck.com",
		"#13",
		"file is not a PDF document",
		"could not be checked",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

// TestMarkdownWriterClean tests a run without issues.
func TestMarkdownWriterClean(t *testing.T) {
	t.Parallel()

	run := model.NewCheckRun(model.RunSettings{PageLimit: 10, Style: model.StyleACM})
	clean := model.NewPaperResult("paper.pdf")
	clean.Title = "Clean"
	run.AddResult(clean)

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()

	if strings.Contains(output, "```mermaid") {
		t.Error("expected no chart without issues")
	}
	if !strings.Contains(output, "No issues detected") {
		t.Errorf("expected clean tip, got:\n%s", output)
	}
}

// TestTruncateString tests rune-aware truncation.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in       string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"much longer text", 10, "much lo..."},
		{"Kästner und Apel", 8, "Kästn..."},
		{"abcdef", 3, "abc"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			if got := truncateString(tc.in, tc.maxLen); got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
		})
	}
}
