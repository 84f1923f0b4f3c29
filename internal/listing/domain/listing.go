package domain

import "errors"

// CategoryAll is the wildcard category; it never matches a stored listing by value.
const CategoryAll = "all"

var (
	ErrMissingParameter = errors.New("missing parameter")
	ErrNotFound         = errors.New("listing not found")
	ErrDataUnavailable  = errors.New("listing data unavailable")
)

// Listing is one property record of the catalog. Images is derived from the
// image tree at response time and is not read from the dataset.
type Listing struct {
	Slug        string   `json:"slug"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price,omitempty"`
	Area        float64  `json:"area,omitempty"`
	AreaUnit    string   `json:"areaUnit,omitempty"`
	Bedrooms    float64  `json:"bedrooms,omitempty"`
	Bathrooms   float64  `json:"bathrooms,omitempty"`
	Location    string   `json:"location,omitempty"`
	Features    []string `json:"features,omitempty"`
	Images      []string `json:"images"`
}

// SlugIndexEntry is the navigation projection of a Listing.
type SlugIndexEntry struct {
	Slug     string `json:"slug"`
	Category string `json:"category"`
}
