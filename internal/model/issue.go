package model

import (
	"fmt"
	"strconv"
)

// Issue tags. These strings are part of the report format and must stay stable.
const (
	TagWrongTemplate      = "wrong-template"
	TagOversize           = "oversize"
	TagVeryShort          = "paper-very-short"
	TagReferencesLate     = "reference-page-after-limit"
	TagContentAfterLimit  = "non-references-after-limit"
	TagRevealingEmail     = "author-revealing-email"
	TagRevealingMetaData  = "possibly-author-revealing-meta-data"
	TagPreviousWork       = "previous-work-mentioned"
	TagRevealingIdentity  = "possibly-identity-revealing-data"
	TagInconsistentTitles = "inconsistent-titles"
)

// Issue is a single detected policy deviation.
// All fields are copies; an issue never refers back to the document.
type Issue struct {
	// Tag is the stable issue key (one of the Tag* constants).
	Tag string `json:"tag"`

	// Evidence is the captured value: a count, a page number or a text snippet.
	Evidence string `json:"evidence"`

	// Severity is the risk level looked up from the tag.
	Severity Severity `json:"severity"`

	// SeverityText is the human-readable severity.
	SeverityText string `json:"severity_text"`
}

// NewIssue creates an issue with the severity registered for its tag.
func NewIssue(tag, evidence string) Issue {
	severity := GetSeverity(tag)
	return Issue{
		Tag:          tag,
		Evidence:     evidence,
		Severity:     severity,
		SeverityText: severity.String(),
	}
}

// NewCountIssue creates an issue whose evidence is a number (page count, page number).
func NewCountIssue(tag string, n int) Issue {
	return NewIssue(tag, strconv.Itoa(n))
}

// String renders the issue as "tag:evidence", quoting textual evidence
// as ``evidence''.
func (i Issue) String() string {
	if GetIssueInfo(i.Tag).Quoted {
		return fmt.Sprintf("%s:``%s''", i.Tag, i.Evidence)
	}
	return fmt.Sprintf("%s:%s", i.Tag, i.Evidence)
}
