package checker

import (
	"fmt"
	"strings"

	"github.com/nao1215/blindcheck/internal/model"
)

// leeway is the number of characters tolerated before the references
// heading on the first page after the limit, typically a page number.
const leeway = 8

// PagesAfterLimit looks for content other than references beyond the page
// limit. It returns the last figure, table, appendix or acknowledgments
// heading on those pages. Failing that, it reports text preceding the
// references heading on the first page after the limit when there is more
// of it than a page number would take:
//
//	11-chars-before-REFERENCES: ABCDEFGH
func (c *Checker) PagesAfterLimit() (string, bool) {
	limit := c.config.PageLimit
	if len(c.pages) <= limit {
		return "", false
	}

	for n := len(c.pages); n > limit; n-- {
		if caption, ok := find(patterns().caption, c.page(n)); ok {
			return caption, true
		}
	}

	before, ok := c.PrecedingText(limit + 1)
	if !ok || len(before) <= leeway {
		return "", false
	}
	shown := strings.ReplaceAll(before[:leeway], "\n", `\n`)
	return fmt.Sprintf("%d-chars-before-REFERENCES: %s", len(before), shown), true
}

// check is one entry of the issue list.
type check func(c *Checker) (model.Issue, bool)

// textual turns a detector returning textual evidence into a check.
func textual(tag string, detect func(c *Checker) (string, bool)) check {
	return func(c *Checker) (model.Issue, bool) {
		evidence, ok := detect(c)
		if !ok {
			return model.Issue{}, false
		}
		return model.NewIssue(tag, evidence), true
	}
}

// counted turns a detector returning a page count or page number into a check.
func counted(tag string, detect func(c *Checker) (int, bool)) check {
	return func(c *Checker) (model.Issue, bool) {
		n, ok := detect(c)
		if !ok {
			return model.Issue{}, false
		}
		return model.NewCountIssue(tag, n), true
	}
}

// checks returns the checks in report order. The order is part of the
// report format.
func (c *Checker) checks() []check {
	checks := []check{
		textual(model.TagWrongTemplate, func(c *Checker) (string, bool) {
			if c.HasStyle(c.config.Style) {
				return "", false
			}
			return "must-be-" + c.config.Style.String(), true
		}),
		counted(model.TagOversize, func(c *Checker) (int, bool) {
			return len(c.pages), len(c.pages) > c.config.TotalLimit()
		}),
		counted(model.TagVeryShort, func(c *Checker) (int, bool) {
			minimum := max(2, c.config.PageLimit/2)
			n := len(c.pages)
			return n, n > 0 && n <= c.config.TotalLimit() && n <= minimum
		}),
		counted(model.TagReferencesLate, func(c *Checker) (int, bool) {
			page := c.ReferencesPage()
			return page, page > c.config.PageLimit+1
		}),
		textual(model.TagContentAfterLimit, (*Checker).PagesAfterLimit),
		textual(model.TagRevealingEmail, (*Checker).FindEmails),
		textual(model.TagRevealingMetaData, (*Checker).FindAuthorIdentity),
		textual(model.TagPreviousWork, (*Checker).PreviousWork),
		textual(model.TagRevealingIdentity, (*Checker).RevealingMetaData),
	}
	if c.config.TitleCheck {
		checks = append(checks, textual(model.TagInconsistentTitles, (*Checker).TitlesConsistent))
	}
	return checks
}

// Issues runs every check and returns the detected issues in report order.
// An empty document only yields issues that do not depend on page text.
func (c *Checker) Issues() []model.Issue {
	issues := make([]model.Issue, 0)
	for _, detect := range c.checks() {
		if issue, ok := detect(c); ok {
			issues = append(issues, issue)
		}
	}
	c.logger.Debug("checked paper", "file", c.fileName, "pages", len(c.pages), "issues", len(issues))
	return issues
}

// Result runs the checks and fills a paper result.
func (c *Checker) Result() *model.PaperResult {
	result := model.NewPaperResult(c.fileName)
	result.Pages = len(c.pages)
	result.Style = c.Style()
	result.Issues = c.Issues()
	if title, ok := c.Title(); ok {
		result.Title = title
	}
	if c.paper != nil {
		result.PaperID = c.paper.ID
	}
	return result
}
