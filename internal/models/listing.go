package models

import (
	"fmt"
	"strings"

	"listing-moderation/internal/common/errors"
)

// PropertyType is the internal property-type code carried by a listing.
type PropertyType string

const (
	PropertyRoom        PropertyType = "phong-tro"
	PropertyWholeHouse  PropertyType = "nha-nguyen-can"
	PropertyApartment   PropertyType = "can-ho"
	PropertyMiniComplex PropertyType = "chung-cu-mini"
	PropertyStudio      PropertyType = "studio"
)

// Coordinates is a geographic point attached to a listing.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Amenities is the fixed set of boolean amenity flags the estimator knows about.
type Amenities struct {
	AC        bool `json:"ac"`
	Parking   bool `json:"parking"`
	Kitchen   bool `json:"kitchen"`
	Furniture bool `json:"furniture"`
	Balcony   bool `json:"balcony"`
	Window    bool `json:"window"`
	Mezzanine bool `json:"mezzanine"`
}

// ListingSnapshot is the immutable input of one moderation run. It is
// produced by the external submission/edit workflow; the pipeline performs
// no I/O to obtain it.
type ListingSnapshot struct {
	ID           string       `json:"id,omitempty"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Price        float64      `json:"price"` // VND per month
	Area         float64      `json:"area"`  // square meters
	Bedrooms     int          `json:"bedrooms"`
	Bathrooms    int          `json:"bathrooms"`
	ImageCount   int          `json:"imageCount"`
	PropertyType PropertyType `json:"propertyType"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
	ContactPhone string       `json:"contactPhone"`
	Amenities    Amenities    `json:"amenities"`
	District     string       `json:"district"`
	Ward         string       `json:"ward"`
	City         string       `json:"city"`
}

// Validate fails fast on structurally invalid snapshots, before any scoring
// begins. A failure here signals the caller to reject the submission outright
// rather than record a moderation result.
func (s *ListingSnapshot) Validate() error {
	var problems []string

	if strings.TrimSpace(s.Title) == "" && strings.TrimSpace(s.Description) == "" {
		problems = append(problems, "title and description are both empty")
	}
	if s.Price <= 0 {
		problems = append(problems, fmt.Sprintf("price must be positive, got %v", s.Price))
	}
	if s.Area <= 0 {
		problems = append(problems, fmt.Sprintf("area must be positive, got %v", s.Area))
	}
	if s.Bedrooms < 0 {
		problems = append(problems, fmt.Sprintf("bedrooms must not be negative, got %d", s.Bedrooms))
	}
	if s.Bathrooms < 0 {
		problems = append(problems, fmt.Sprintf("bathrooms must not be negative, got %d", s.Bathrooms))
	}
	if s.ImageCount < 0 {
		problems = append(problems, fmt.Sprintf("imageCount must not be negative, got %d", s.ImageCount))
	}

	if len(problems) > 0 {
		return errors.NewValidationInputError(strings.Join(problems, "; "))
	}
	return nil
}

// HasCoordinates reports whether a usable coordinate pair is present.
func (s *ListingSnapshot) HasCoordinates() bool {
	return s.Coordinates != nil
}
