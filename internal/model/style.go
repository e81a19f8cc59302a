package model

import (
	"errors"
	"fmt"
	"strings"
)

// Style is a conference formatting template.
type Style string

const (
	// StyleACM is the ACM "acmart" LaTeX class.
	StyleACM Style = "ACM"

	// StyleIEEE is the IEEE conference template.
	// It is the fallback classification for anything not recognizably ACM.
	StyleIEEE Style = "IEEE"
)

// ErrUnknownStyle is returned when a style name is neither ACM nor IEEE.
var ErrUnknownStyle = errors.New("unknown style (must be ACM or IEEE)")

// ParseStyle converts a case-insensitive style name into a Style.
func ParseStyle(s string) (Style, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(StyleACM):
		return StyleACM, nil
	case string(StyleIEEE):
		return StyleIEEE, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, s)
	}
}

// String returns the style name.
func (s Style) String() string {
	return string(s)
}
