package checker

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// patternTable holds every fixed pattern the checks use.
// It is built once and never modified, so concurrent checkers share it.
type patternTable struct {
	// references matches a references heading occupying a whole line.
	references *regexp.Regexp

	// caption matches a figure, table, appendix or acknowledgments heading
	// at the start of a line.
	caption *regexp.Regexp

	// email is deliberately permissive: authors write "{a, b}@x.org" and
	// "name @ host.org".
	email *regexp.Regexp

	// blinded matches placeholder identities such as anonymous@example.org.
	blinded *regexp.Regexp

	// previousWork matches "our previous work [3]" style self-citations.
	previousWork *regexp.Regexp

	// ieeeCopyright matches the "XXX-X-XXXX-XXXX-X/XX/$31.00 ©20XX IEEE"
	// placeholder of the old Word template.
	ieeeCopyright *regexp.Regexp

	// number matches a line consisting of digits only.
	number *regexp.Regexp
}

// Placeholder tokens that mark an identity as intentionally anonymized.
var (
	blindedNames = []string{
		"anonymous", "anon", "doe", "blinded", "nn", "nobody", "none", "email",
		"anonymized", "firstname", "lastname", "xyz", "xxx", "author",
	}
	blindedDomains = []string{"email", "example", "domain", "address", "blind", "review"}
)

// acmPermissions is the ACM rights-management address printed on the first page.
const acmPermissions = "permissions@acm.org"

// acmReferenceFormat is the heading of the ACM citation block on the first page.
const acmReferenceFormat = "ACM Reference format:"

// acmartMarker identifies the ACM LaTeX class in the creator metadata.
const acmartMarker = "acmart"

// patterns returns the shared pattern table, compiling it on first use.
var patterns = sync.OnceValue(func() *patternTable {
	name := `\w+[\w.\-]*`
	names := fmt.Sprintf(`\{?%s(?:,\s*%s)*\}?`, name, name)
	domain := `\w+(?:\.[a-zA-Z]\w*)+`

	blinded := append(append([]string{}, blindedNames...), blindedDomains...)
	blinded = append(blinded, regexp.QuoteMeta(acmPermissions))

	previous := strings.Join([]string{
		`our|my`,
		`previous|earlier|prior`,
		`work|study|studies|approach|papers?|publications?|result|findings?`,
		`\[[\d,]+\]`,
	}, `)\s+(?:`)

	return &patternTable{
		references:    regexp.MustCompile(`(?im)^\s*(?:REFERENCES|R E F E R E N C E S|PUBLICATIONS)\s*$`),
		caption:       regexp.MustCompile(`(?im)^\s*(?:(?:Fig\.|Figure)\s*\d+|TABLE\s*[IVX]+|APPENDIX|ACKNOWLEDGE?MENTS)`),
		email:         regexp.MustCompile(`(?im)` + names + `\s*@\s*` + domain),
		blinded:       regexp.MustCompile(`(?i)(?:` + strings.Join(blinded, "|") + `)`),
		previousWork:  regexp.MustCompile(`(?im)(?:` + previous + `)`),
		ieeeCopyright: regexp.MustCompile(`20XX IEEE`),
		number:        regexp.MustCompile(`^\d+$`),
	}
})

// find returns the first match of re in text, trimmed.
// A match that is blank after trimming counts as not found.
func find(re *regexp.Regexp, text string) (string, bool) {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	match := strings.TrimSpace(text[loc[0]:loc[1]])
	return match, match != ""
}

// literal compiles a case-insensitive pattern matching any of the given
// strings verbatim. Empty strings are skipped; nil means nothing to look for.
func literal(values ...string) *regexp.Regexp {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			quoted = append(quoted, regexp.QuoteMeta(v))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?im)(?:` + strings.Join(quoted, "|") + `)`)
}

// IsBlindedIdentity reports whether text looks like an anonymization
// placeholder rather than a real name or address.
func IsBlindedIdentity(text string) bool {
	return patterns().blinded.MatchString(text)
}
