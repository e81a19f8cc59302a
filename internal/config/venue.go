package config

import (
	"fmt"
	"strings"
)

// VenueConfig holds the call-for-papers rules of a single venue.
// Unset fields inherit from the defaults section and then from the built-in
// defaults.
type VenueConfig struct {
	// PageLimit is the number of pages allowed for the paper body.
	// If zero, the inherited limit is used.
	PageLimit int `yaml:"pageLimit,omitempty"`

	// ReferenceLimit is the number of extra pages allowed for references.
	// A pointer because zero is a meaningful limit.
	ReferenceLimit *int `yaml:"referenceLimit,omitempty"`

	// Style is the required template, "ACM" or "IEEE".
	Style string `yaml:"style,omitempty"`

	// TitleCheck enables the title consistency check for this venue.
	TitleCheck *bool `yaml:"titleCheck,omitempty"`

	// Meta is the path to the HotCRP author export of this venue.
	Meta string `yaml:"meta,omitempty"`
}

// File represents the structure of the .blindcheck configuration file.
type File struct {
	// Venues maps venue names (e.g., "icse2021") to their rules.
	// Names are matched case-insensitively.
	Venues map[string]VenueConfig `yaml:"venues,omitempty"`

	// Defaults contains the rules applied to all venues
	// unless overridden in the venue-specific configuration.
	Defaults VenueConfig `yaml:"defaults,omitempty"`
}

// Venue returns the configuration for a venue merged with the defaults.
// An empty name returns the defaults alone. A name that is not defined
// returns ErrUnknownVenue.
func (cf *File) Venue(name string) (VenueConfig, error) {
	result := cf.Defaults
	if name == "" {
		return result, nil
	}

	venue, ok := cf.lookup(name)
	if !ok {
		return result, fmt.Errorf("%w: %s", ErrUnknownVenue, name)
	}

	if venue.PageLimit != 0 {
		result.PageLimit = venue.PageLimit
	}
	if venue.ReferenceLimit != nil {
		result.ReferenceLimit = venue.ReferenceLimit
	}
	if venue.Style != "" {
		result.Style = venue.Style
	}
	if venue.TitleCheck != nil {
		result.TitleCheck = venue.TitleCheck
	}
	if venue.Meta != "" {
		result.Meta = venue.Meta
	}

	return result, nil
}

// VenueNames returns the names of all configured venues.
func (cf *File) VenueNames() []string {
	names := make([]string, 0, len(cf.Venues))
	for name := range cf.Venues {
		names = append(names, name)
	}
	return names
}

func (cf *File) lookup(name string) (VenueConfig, bool) {
	if venue, ok := cf.Venues[name]; ok {
		return venue, true
	}
	for key, venue := range cf.Venues {
		if strings.EqualFold(key, name) {
			return venue, true
		}
	}
	return VenueConfig{}, false
}
