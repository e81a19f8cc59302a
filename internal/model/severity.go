package model

// Severity represents how strongly an issue argues for rejecting a submission.
// Every check in this tool is a heuristic, so severity expresses confidence in
// the signal as much as the seriousness of the violation.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Severity int

const (
	// SeverityInfo marks advisory signals with a known high false-positive rate.
	// Example: phrasing that may be an un-blinded self-citation.
	SeverityInfo Severity = iota

	// SeverityLow marks deviations that rarely lead to desk rejection on their own.
	// Examples: a suspiciously short paper, titles that differ between sources.
	SeverityLow

	// SeverityMedium marks issues a chair should look at before review starts.
	// Examples: the wrong template, author names in PDF metadata.
	SeverityMedium

	// SeverityHigh marks clear policy violations.
	// Examples: page limit exceeded, identifying emails or names on page 1.
	SeverityHigh
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// IssueInfo contains metadata about an issue tag including severity,
// a description of the policy it relates to, and what the authors should do.
type IssueInfo struct {
	Severity       Severity
	Description    string
	Recommendation string

	// Quoted reports the evidence wrapped in ``...'' in the one-line format.
	// Numeric evidence (page counts, page numbers) is printed bare.
	Quoted bool
}

// issueInfoMapping maps issue tags to their metadata.
// This centralized mapping keeps risk assessment consistent across writers.
var issueInfoMapping = map[string]IssueInfo{
	TagWrongTemplate: {
		Severity:       SeverityMedium,
		Description:    "The paper does not appear to use the required template.",
		Recommendation: "Typeset the paper with the conference's official template.",
	},
	TagOversize: {
		Severity:       SeverityHigh,
		Description:    "The paper has more pages than the page limit plus the reference allowance.",
		Recommendation: "Shorten the paper to fit the page limit.",
	},
	TagVeryShort: {
		Severity:       SeverityLow,
		Description:    "The paper is much shorter than the page limit.",
		Recommendation: "Check that the right file was submitted.",
	},
	TagReferencesLate: {
		Severity:       SeverityHigh,
		Description:    "The references section starts after the page limit.",
		Recommendation: "Move content so that references start within the allowed pages.",
	},
	TagContentAfterLimit: {
		Severity:       SeverityHigh,
		Description:    "Figures, tables, appendices or other non-reference text appear beyond the page limit.",
		Recommendation: "Only references may appear on pages beyond the page limit.",
		Quoted:         true,
	},
	TagRevealingEmail: {
		Severity:       SeverityHigh,
		Description:    "An email address on the first page may reveal the authors.",
		Recommendation: "Replace author emails with anonymous placeholders.",
		Quoted:         true,
	},
	TagRevealingMetaData: {
		Severity:       SeverityMedium,
		Description:    "The PDF author field is set and does not look anonymized.",
		Recommendation: "Clear the author field of the PDF metadata.",
		Quoted:         true,
	},
	TagPreviousWork: {
		Severity:       SeverityInfo,
		Description:    "The text refers to the authors' own previous work with a citation.",
		Recommendation: "Refer to own work in the third person. This check has many false alarms.",
		Quoted:         true,
	},
	TagRevealingIdentity: {
		Severity:       SeverityHigh,
		Description:    "A name or email of a registered author appears on the first page.",
		Recommendation: "Remove author names and emails from the submission.",
		Quoted:         true,
	},
	TagInconsistentTitles: {
		Severity:       SeverityLow,
		Description:    "The title differs between the submission system, the PDF metadata and the paper.",
		Recommendation: "Use the same title everywhere.",
		Quoted:         true,
	},
}

// GetSeverity returns the severity level for an issue tag.
// Returns SeverityInfo if the tag is not in the mapping.
func GetSeverity(tag string) Severity {
	if info, ok := issueInfoMapping[tag]; ok {
		return info.Severity
	}
	return SeverityInfo
}

// GetIssueInfo returns the full information for an issue tag.
// Returns a default IssueInfo with SeverityInfo if the tag is not in the mapping.
func GetIssueInfo(tag string) IssueInfo {
	if info, ok := issueInfoMapping[tag]; ok {
		return info
	}
	return IssueInfo{
		Severity:       SeverityInfo,
		Description:    "Unknown issue type. Review manually.",
		Recommendation: "Investigate the issue and assess risk.",
		Quoted:         true,
	}
}
