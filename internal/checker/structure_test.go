package checker

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/nao1215/blindcheck/internal/document"
)

// newChecker creates a checker over in-memory pages.
func newChecker(t *testing.T, pages []string, config Config, docOpts []document.MemoryOption, opts ...Option) *Checker {
	t.Helper()

	doc := document.NewMemory("paper.pdf", pages, docOpts...)
	c, err := New(doc, config, opts...)
	if err != nil {
		t.Fatalf("failed to create checker: %v", err)
	}
	return c
}

// numbered returns the lines from..to, one number per line.
func numbered(from, to int) []string {
	lines := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		lines = append(lines, strconv.Itoa(i))
	}
	return lines
}

// TestReferencesPageFound tests the accepted headings.
func TestReferencesPageFound(t *testing.T) {
	t.Parallel()

	headings := []string{
		"References",
		"    References",
		"Publications",
		"R E F E R E N C E S",
		"REFERENCES",
		"references  ",
	}

	for _, heading := range headings {
		t.Run(heading, func(t *testing.T) {
			t.Parallel()
			page := fmt.Sprintf("TEXT-BEFORE\n%s\nTEXT-AFTER", heading)
			c := newChecker(t, []string{page}, DefaultConfig(), nil)
			if got := c.ReferencesPage(); got != 1 {
				t.Errorf("got %d, expected 1", got)
			}
		})
	}
}

// TestReferencesPageNotFound tests lines that only resemble a heading.
func TestReferencesPageNotFound(t *testing.T) {
	t.Parallel()

	texts := []string{
		"Reference\n",
		"My References\n",
		"References of this paper\n",
		"R E F E R E N C E\n",
	}

	for _, text := range texts {
		t.Run(strings.TrimSpace(text), func(t *testing.T) {
			t.Parallel()
			page := "TEXT-BEFORE\n" + text + "TEXT-AFTER"
			c := newChecker(t, []string{page}, DefaultConfig(), nil)
			if got := c.ReferencesPage(); got != 0 {
				t.Errorf("got %d, expected 0", got)
			}
		})
	}
}

// TestReferencesPageScansBackward tests that the last heading wins.
func TestReferencesPageScansBackward(t *testing.T) {
	t.Parallel()

	pages := []string{
		"Title\nReferences\nas a label",
		"Body",
		"REFERENCES\n[1] Test Infected",
		"[2] More references",
	}
	c := newChecker(t, pages, DefaultConfig(), nil)
	if got := c.ReferencesPage(); got != 3 {
		t.Errorf("got %d, expected 3", got)
	}

	// Stable across calls.
	if got := c.ReferencesPage(); got != 3 {
		t.Errorf("second call: got %d, expected 3", got)
	}
}

// TestReferencesPageEmptyDocument tests the not-found sentinel without pages.
func TestReferencesPageEmptyDocument(t *testing.T) {
	t.Parallel()

	c := newChecker(t, nil, DefaultConfig(), nil)
	if got := c.ReferencesPage(); got != 0 {
		t.Errorf("got %d, expected 0", got)
	}
}

// TestCountLineNumbers tests counting of sequential leading numbers.
func TestCountLineNumbers(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		lines    []string
		expected int
	}{
		{"sequential", []string{"10", "11", "12", "13", "HELLO WORLD"}, 4},
		{"gap", []string{"10", "11", "14", "15", "HELLO WORLD"}, 2},
		{"no numbers", []string{"HELLO WORLD"}, 0},
		{"empty", nil, 0},
		{"only numbers", []string{"1", "2", "3"}, 3},
		{"single", []string{"42", "text"}, 1},
		{"descending", []string{"5", "4"}, 1},
		{"padded", []string{" 1", "2"}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := CountLineNumbers(tc.lines); got != tc.expected {
				t.Errorf("got %d, expected %d", got, tc.expected)
			}
		})
	}
}

// TestStripLineNumbers tests removal of leading numbers.
func TestStripLineNumbers(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		text     string
		expected string
	}{
		{"sequential", "10\n11\n12\n13\nHELLO WORLD", "HELLO WORLD\n"},
		{"gap", "10\n11\n14\n15\nHELLO WORLD", "14\n15\nHELLO WORLD\n"},
		{"none", "HELLO WORLD\n", "HELLO WORLD\n"},
		{"empty", "", "\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := StripLineNumbers(tc.text)
			if got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
			if again := StripLineNumbers(got); tc.name != "gap" && again != got {
				t.Errorf("not idempotent: %q became %q", got, again)
			}
		})
	}
}

// TestStripLineNumbersIdempotent tests that stripped text has no leading numbers.
func TestStripLineNumbersIdempotent(t *testing.T) {
	t.Parallel()

	stripped := StripLineNumbers("1\n2\n3\nTest Infected\nAbstract")
	if n := CountLineNumbers(splitLines(stripped)); n != 0 {
		t.Errorf("got %d leading numbers after stripping, expected 0", n)
	}
	if StripLineNumbers(stripped) != stripped {
		t.Errorf("stripping twice changed %q", stripped)
	}
}

// TestStripHeaderUnnumbered tests removal of a repeated running title.
func TestStripHeaderUnnumbered(t *testing.T) {
	t.Parallel()

	pages := []string{
		"Title\nAuthors\nAbstract",
		"Conference Header\nIntroduction",
		"Title Header\nRelated Work",
	}
	c := newChecker(t, pages, DefaultConfig(), nil)

	if got := c.StripHeader(c.page(2)); got != "Introduction\n" {
		t.Errorf("got %q, expected %q", got, "Introduction\n")
	}
}

// TestStripHeaderUnnumberedKeepsText tests the cases where nothing is dropped.
func TestStripHeaderUnnumberedKeepsText(t *testing.T) {
	t.Parallel()

	t.Run("fewer than three pages", func(t *testing.T) {
		t.Parallel()
		c := newChecker(t, []string{"Title\nAbstract", "Header\nBody"}, DefaultConfig(), nil)
		if got := c.StripHeader("Header\nBody\n"); got != "Header\nBody\n" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("page three without title", func(t *testing.T) {
		t.Parallel()
		pages := []string{"Title\nAbstract", "Header\nBody", "Something else\nMore"}
		c := newChecker(t, pages, DefaultConfig(), nil)
		if got := c.StripHeader("Header\nBody\n"); got != "Header\nBody\n" {
			t.Errorf("got %q", got)
		}
	})
}

// TestStripHeaderTwoColumns tests numbered two-column review copies.
func TestStripHeaderTwoColumns(t *testing.T) {
	t.Parallel()

	join := func(parts ...[]string) string {
		var lines []string
		for _, p := range parts {
			lines = append(lines, p...)
		}
		return strings.Join(lines, "\n")
	}

	testCases := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "one line header",
			text:     join(numbered(1, 31), []string{"Running Header"}, numbered(32, 62), []string{"Body text"}),
			expected: "Body text",
		},
		{
			name: "three line header",
			text: join(numbered(1, 31), []string{"Header one", "Header two", "Header three"},
				numbered(32, 62), []string{"Body text"}),
			expected: "Body text",
		},
		{
			name:     "right column not numbered",
			text:     join(numbered(1, 31), []string{"Running Header"}, numbered(1, 2), []string{"Body text"}),
			expected: "1\n2\nBody text",
		},
	}

	c := newChecker(t, []string{"Title"}, DefaultConfig(), nil)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := c.StripHeader(tc.text); got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
		})
	}
}

// TestStripHeaderBelowThreshold tests that 30 numbers are not a column.
func TestStripHeaderBelowThreshold(t *testing.T) {
	t.Parallel()

	text := strings.Join(append(numbered(1, 30), "Header", "Body"), "\n")
	c := newChecker(t, []string{"Title"}, DefaultConfig(), nil)
	if got := c.StripHeader(text); got != text {
		t.Errorf("expected text unchanged, got %q", got)
	}
}

// TestTitle tests title extraction from page 1 and metadata.
func TestTitle(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		page1     string
		metaTitle string
		expected  string
		ok        bool
	}{
		{"first line", "Test Infected\nAbstract\nBla bla", "", "Test Infected", true},
		{"long title", "Test Infected: A long title\nAbstract\n", "", "Test Infected: A long title", true},
		{"line numbers", "1\n2\n3\nTest Infected\nAbstract", "", "Test Infected", true},
		{"ieee copyright", "XXXX 20XX IEEE \nTest Infected\nAbstract", "", "Test Infected", true},
		{"whitespace", "   Test Infected   \nFnerk\n", "", "Test Infected", true},
		{"leading blank lines", "\n  \nTest Infected\n", "", "Test Infected", true},
		{"empty page with metadata", "", "Meta Title", "Meta Title", true},
		{"empty page without metadata", "", "", "", false},
		{"content wins over metadata", "Content Title\n", "Meta Title", "Content Title", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := newChecker(t, []string{tc.page1}, DefaultConfig(),
				[]document.MemoryOption{document.WithTitle(tc.metaTitle)})
			got, ok := c.Title()
			if ok != tc.ok || got != tc.expected {
				t.Errorf("got (%q, %v), expected (%q, %v)", got, ok, tc.expected, tc.ok)
			}
		})
	}
}

// TestTitleEmptyDocument tests the metadata fallback without pages.
func TestTitleEmptyDocument(t *testing.T) {
	t.Parallel()

	c := newChecker(t, nil, DefaultConfig(), []document.MemoryOption{document.WithTitle("X")})
	if got, ok := c.Title(); !ok || got != "X" {
		t.Errorf("got (%q, %v), expected (%q, true)", got, ok, "X")
	}
}

// TestPrecedingText tests text before the references heading.
func TestPrecedingText(t *testing.T) {
	t.Parallel()

	pages := []string{"Body\nREFERENCES\n[1] x", "No heading here"}
	c := newChecker(t, pages, DefaultConfig(), nil)

	if got, ok := c.PrecedingText(1); !ok || got != "Body\n" {
		t.Errorf("got (%q, %v), expected (%q, true)", got, ok, "Body\n")
	}
	if _, ok := c.PrecedingText(2); ok {
		t.Error("expected no preceding text on a page without heading")
	}
	if _, ok := c.PrecedingText(3); ok {
		t.Error("expected no preceding text beyond the last page")
	}
}
