package checker

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// titleTolerance is the share of differing characters under which two
// normalized titles still count as the same title.
const titleTolerance = 0.2

// Title source labels, in the order they are reported.
const (
	sourceContent  = "content"
	sourceMetaData = "metadata"
	sourceRoster   = "roster"
)

type titleSource struct {
	label string
	title string
}

// TitlesConsistent compares the title on page 1, the metadata title and the
// roster title. When two available titles differ it returns both, preferring
// the content title over the metadata title over the roster title:
//
//	content:Some Title vs metadata:Other Title
//
// Fewer than two available titles are always consistent.
func (c *Checker) TitlesConsistent() (string, bool) {
	sources := make([]titleSource, 0, 3)
	if title, ok := c.contentTitle(); ok {
		sources = append(sources, titleSource{sourceContent, title})
	}
	if c.hasTitle {
		sources = append(sources, titleSource{sourceMetaData, c.metaTitle})
	}
	if c.paper != nil && strings.TrimSpace(c.paper.Title) != "" {
		sources = append(sources, titleSource{sourceRoster, strings.TrimSpace(c.paper.Title)})
	}

	for i := 0; i < len(sources); i++ {
		for j := i + 1; j < len(sources); j++ {
			if !SameTitle(sources[i].title, sources[j].title) {
				return fmt.Sprintf("%s:%s vs %s:%s",
					sources[i].label, sources[i].title, sources[j].label, sources[j].title), true
			}
		}
	}
	return "", false
}

// SameTitle reports whether two titles are the same up to case, punctuation,
// a ": subtitle" suffix, and small spelling differences.
func SameTitle(a, b string) bool {
	if similar(normalizeTitle(a), normalizeTitle(b)) {
		return true
	}
	return similar(normalizeTitle(dropSubtitle(a)), normalizeTitle(dropSubtitle(b)))
}

// similar compares two normalized titles with the Levenshtein distance
// relative to the longer one.
func similar(a, b string) bool {
	if a == b {
		return true
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	distance := levenshtein.ComputeDistance(a, b)
	return float64(distance) <= titleTolerance*float64(longest)
}

// dropSubtitle removes everything from the first colon on.
func dropSubtitle(title string) string {
	if i := strings.IndexByte(title, ':'); i >= 0 {
		return title[:i]
	}
	return title
}

// normalizeTitle folds compatibility forms and case, replaces punctuation
// with spaces, and collapses whitespace.
func normalizeTitle(title string) string {
	title = cases.Fold().String(norm.NFKC.String(title))
	title = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return ' '
		}
		return r
	}, title)
	return strings.Join(strings.Fields(title), " ")
}
