package checker

import (
	"strings"

	"github.com/nao1215/blindcheck/internal/model"
)

// IsACM reports whether the paper was typeset with the ACM template.
// The signals are tried from most to least reliable: the acmart class in
// the creator field, the ACM permissions address, the "ACM Reference format"
// block, and finally a page 1 carrying more than 30 line numbers.
func (c *Checker) IsACM() bool {
	if c.hasCreator && strings.Contains(strings.ToLower(c.creator), acmartMarker) {
		return true
	}
	if _, ok := c.RevealingEmail(acmPermissions); ok {
		return true
	}
	if _, ok := c.RevealingEmail(acmReferenceFormat); ok {
		return true
	}
	page1, ok := c.firstPage()
	if !ok {
		return false
	}
	return CountLineNumbers(splitLines(page1)) > columnThreshold
}

// IsIEEE reports whether the paper uses the IEEE template.
// There is no positive test for IEEE, so every paper that is not ACM counts.
func (c *Checker) IsIEEE() bool {
	if c.IsACM() {
		return false
	}
	if page1, ok := c.firstPage(); ok {
		if patterns().ieeeCopyright.MatchString(firstLine(page1)) {
			c.logger.Debug("legacy IEEE copyright line", "file", c.fileName)
		}
	}
	return true
}

// Style returns the template the paper was classified as.
func (c *Checker) Style() model.Style {
	if c.IsACM() {
		return model.StyleACM
	}
	return model.StyleIEEE
}

// HasStyle reports whether the paper matches the given template.
func (c *Checker) HasStyle(style model.Style) bool {
	switch style {
	case model.StyleACM:
		return c.IsACM()
	case model.StyleIEEE:
		return c.IsIEEE()
	default:
		return false
	}
}
