package checker

import (
	"strconv"
	"strings"
)

// columnThreshold is the number of leading line numbers above which a page
// is taken to be a numbered two-column review copy.
const columnThreshold = 30

// maxHeaderLines is how many lines a running header may span.
const maxHeaderLines = 3

// splitLines splits text at newlines, dropping trailing empty lines.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	end := len(lines)
	for end > 1 && lines[end-1] == "" {
		end--
	}
	return lines[:end]
}

// firstLine returns text up to the first newline.
func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}

// CountLineNumbers returns how many leading lines are integers, each one
// greater than the one before. The first number may be anything.
func CountLineNumbers(lines []string) int {
	count := 0
	previous := 0
	for _, line := range lines {
		n, err := strconv.Atoi(line)
		if err != nil {
			break
		}
		if count > 0 && n != previous+1 {
			break
		}
		previous = n
		count++
	}
	return count
}

// StripLineNumbers removes leading line numbers from text.
// The result always ends in a newline.
func StripLineNumbers(text string) string {
	lines := splitLines(text)
	count := CountLineNumbers(lines)
	return strings.Join(lines[count:], "\n") + "\n"
}

// ReferencesPage returns the last page with a references heading, or 0.
// Scanning backward skips "References" used as a label earlier in the paper.
func (c *Checker) ReferencesPage() int {
	for n := len(c.pages); n >= 1; n-- {
		if patterns().references.MatchString(c.page(n)) {
			return n
		}
	}
	return 0
}

// PrecedingText returns the header-stripped text that comes before the
// references heading on page n. It returns false when page n has no heading
// or does not exist.
func (c *Checker) PrecedingText(n int) (string, bool) {
	if n < 1 || n > len(c.pages) {
		return "", false
	}
	text := c.page(n)
	loc := patterns().references.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return c.StripHeader(text[:loc[0]]), true
}

// StripHeader removes the running header from a page.
//
// Numbered review copies print line numbers for the left column first, then
// the header, then the right column's numbers. When the left column has more
// than columnThreshold numbers the header (up to three lines) and the right
// column numbers are dropped. Otherwise a one-line running title is dropped
// if the paper repeats its title at the top of page 3.
func (c *Checker) StripHeader(text string) string {
	lines := splitLines(text)
	left := CountLineNumbers(lines)
	if left <= columnThreshold || left >= len(lines) {
		return c.stripUnnumberedHeader(text)
	}

	// lines[left] is the header; it continues while the next line is not a number.
	header := left
	for i := 1; i < maxHeaderLines; i++ {
		if header+1 < len(lines) && !patterns().number.MatchString(lines[header+1]) {
			header++
			continue
		}
		break
	}

	remaining := lines[header+1:]
	right := CountLineNumbers(remaining)
	if right > columnThreshold {
		remaining = remaining[right:]
	}
	return strings.Join(remaining, "\n")
}

// stripUnnumberedHeader drops the first line of text when page 3 starts with
// the paper title. Papers shorter than three pages are returned unchanged.
func (c *Checker) stripUnnumberedHeader(text string) string {
	if len(c.pages) < 3 {
		return text
	}
	title, ok := c.Title()
	if !ok || !strings.HasPrefix(firstLine(c.page(3)), title) {
		return text
	}
	i := strings.IndexByte(text, '\n')
	if i < 0 {
		return ""
	}
	return text[i+1:]
}

// contentTitle returns the title found in the text of page 1, ignoring metadata.
func (c *Checker) contentTitle() (string, bool) {
	page1, ok := c.firstPage()
	if !ok {
		return "", false
	}

	lines := splitLines(StripLineNumbers(page1))
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if patterns().ieeeCopyright.MatchString(line) {
			continue
		}
		return line, true
	}
	return "", false
}

// Title returns the first non-blank line of page 1 after line numbers are
// removed, skipping the IEEE copyright placeholder. When page 1 has no text
// the metadata title is used.
func (c *Checker) Title() (string, bool) {
	if title, ok := c.contentTitle(); ok {
		return title, true
	}
	if c.hasTitle {
		return c.metaTitle, true
	}
	return "", false
}
