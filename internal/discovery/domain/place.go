// Package domain holds the discovery bounded context's core records: places,
// suggestions and their structural contract.
package domain

import (
	"fmt"
	"strings"

	"timescape_backend/platform/validator"
)

// LocationType distinguishes a single site from a broader area.
type LocationType string

const (
	// LocationPoint is a single site or monument.
	LocationPoint LocationType = "point"
	// LocationArea is a city, park or region.
	LocationArea LocationType = "area"
)

// Category classifies a place for the UI's category dock.
type Category string

const (
	CategoryAncient Category = "ancient"
	CategoryNature  Category = "nature"
	CategoryGrowth  Category = "growth"
	CategoryTime    Category = "time"
)

// DetailIcon is the fixed icon vocabulary for place details.
type DetailIcon string

const (
	IconCalendar     DetailIcon = "calendar"
	IconGlobe        DetailIcon = "globe"
	IconGeology      DetailIcon = "geology"
	IconArchitecture DetailIcon = "architecture"
	IconGrowth       DetailIcon = "growth"
	IconTime         DetailIcon = "time"
	IconSparkles     DetailIcon = "sparkles"
)

// Zoom bounds required for point locations.
const (
	MinPointZoom = 15
	MaxPointZoom = 22
)

// PlaceDetail is one label/icon/value triple shown on a place card.
type PlaceDetail struct {
	Label string     `json:"label" validate:"required"`
	Icon  DetailIcon `json:"icon" validate:"required,oneof=calendar globe geology architecture growth time sparkles"`
	Value string     `json:"value" validate:"required"`
}

// PlaceRecord describes one historical or geographic location. Category may
// be absent when the record arrives from the backend; the repair pass fills
// it before the record reaches presentation.
type PlaceRecord struct {
	Name         string        `json:"name" validate:"required"`
	Location     string        `json:"location" validate:"required"`
	PlaceID      string        `json:"placeId" validate:"required"`
	LocationType LocationType  `json:"locationType" validate:"required,oneof=point area"`
	Latitude     float64       `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude    float64       `json:"longitude" validate:"gte=-180,lte=180"`
	ZoomLevel    int           `json:"zoomLevel" validate:"gte=0,lte=22"`
	Description  string        `json:"description" validate:"required"`
	Category     Category      `json:"category,omitempty" validate:"omitempty,oneof=ancient nature growth time"`
	Details      []PlaceDetail `json:"details" validate:"required,min=2,max=4,dive"`
}

// CountryDetail returns the globe detail carrying the country, if present.
func (p *PlaceRecord) CountryDetail() (PlaceDetail, bool) {
	for _, d := range p.Details {
		if d.Icon == IconGlobe {
			return d, true
		}
	}
	return PlaceDetail{}, false
}

// Validate checks the structural contract of a record. Category is
// deliberately optional at this layer.
func (p *PlaceRecord) Validate(val *validator.Validator) error {
	if err := val.Struct(p); err != nil {
		return fmt.Errorf("place %q: %w", p.Name, err)
	}
	if _, ok := p.CountryDetail(); !ok {
		return fmt.Errorf("place %q: missing globe/country detail", p.Name)
	}
	if p.LocationType == LocationPoint && (p.ZoomLevel < MinPointZoom || p.ZoomLevel > MaxPointZoom) {
		return fmt.Errorf("place %q: point zoom level %d outside %d-%d", p.Name, p.ZoomLevel, MinPointZoom, MaxPointZoom)
	}
	return nil
}

// MaxSuggestionWords bounds the refined-query label length.
const MaxSuggestionWords = 8

// SuggestionItem is one selectable search result: a short refined-query label
// plus the fully structured place behind it.
type SuggestionItem struct {
	Suggestion string      `json:"suggestion" validate:"required,max=80"`
	Place      PlaceRecord `json:"place"`
}

// Validate checks the item and its embedded place.
func (s *SuggestionItem) Validate(val *validator.Validator) error {
	if err := val.Var(s.Suggestion, "required,max=80"); err != nil {
		return fmt.Errorf("suggestion label: %w", err)
	}
	if n := len(strings.Fields(s.Suggestion)); n > MaxSuggestionWords {
		return fmt.Errorf("suggestion label: %d words exceeds %d", n, MaxSuggestionWords)
	}
	return s.Place.Validate(val)
}

// SuggestionBatch is an ordered list of suggestions. Insertion order is
// display order; the backend's ranking intent is preserved, never re-sorted.
type SuggestionBatch []SuggestionItem

// Validate checks every item in the batch.
func (b SuggestionBatch) Validate(val *validator.Validator) error {
	for i := range b {
		if err := b[i].Validate(val); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}
