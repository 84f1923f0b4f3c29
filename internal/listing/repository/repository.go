package repository

import (
	"context"

	"shorelands-backend/internal/listing/domain"
)

// ListingRepository is the read-only source of the property catalog.
type ListingRepository interface {
	// GetAll returns the whole catalog in dataset order. Failures wrap domain.ErrDataUnavailable.
	GetAll(ctx context.Context) ([]*domain.Listing, error)
}

// ImageRepository lists the image files stored for a listing.
type ImageRepository interface {
	// ImagesFor never fails; a listing without an image directory has no images.
	ImagesFor(slug string) []string
}
