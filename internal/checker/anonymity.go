package checker

import (
	"strings"
)

// RevealingEmail searches page 1 for the given text verbatim, ignoring case.
func (c *Checker) RevealingEmail(text string) (string, bool) {
	page1, ok := c.firstPage()
	if !ok {
		return "", false
	}
	re := literal(text)
	if re == nil {
		return "", false
	}
	return find(re, page1)
}

// FindEmails returns the first email-like text on page 1 unless it is an
// anonymization placeholder.
func (c *Checker) FindEmails() (string, bool) {
	page1, ok := c.firstPage()
	if !ok {
		return "", false
	}
	email, ok := find(patterns().email, page1)
	if !ok {
		return "", false
	}
	if IsBlindedIdentity(email) {
		c.logger.Debug("blinded email accepted", "file", c.fileName, "email", email)
		return "", false
	}
	return email, true
}

// FindAuthorIdentity returns the metadata author field unless it is a placeholder.
func (c *Checker) FindAuthorIdentity() (string, bool) {
	if !c.hasAuthor || IsBlindedIdentity(c.author) {
		return "", false
	}
	return c.author, true
}

// PreviousWork returns the first "our previous work [n]" phrase in the paper.
// Many such phrases are harmless, so the result is advisory.
func (c *Checker) PreviousWork() (string, bool) {
	return find(patterns().previousWork, c.fullText)
}

// RevealingMetaData returns the roster names and emails of the paper's
// authors that occur on page 1, comma-joined in roster order.
// It finds nothing when no roster metadata is attached.
func (c *Checker) RevealingMetaData() (string, bool) {
	if c.paper == nil {
		return "", false
	}
	page1, ok := c.firstPage()
	if !ok {
		return "", false
	}

	found := make([]string, 0, len(c.paper.Authors))
	for _, author := range c.paper.Authors {
		re := literal(author.Name(), author.Email)
		if re == nil {
			continue
		}
		if match, ok := find(re, page1); ok {
			found = append(found, match)
		}
	}
	if len(found) == 0 {
		return "", false
	}
	return strings.Join(found, ","), true
}
