package usecase

import (
	"context"

	"shorelands-backend/internal/listing/domain"
)

// ListingUsecase answers the catalog queries behind the public listing routes.
type ListingUsecase interface {
	// ListByCategory returns every listing when category is "" or "all",
	// otherwise the listings whose category equals it exactly.
	ListByCategory(ctx context.Context, category string) ([]*domain.Listing, error)
	// FindBySlug fails with domain.ErrMissingParameter for an empty slug and
	// domain.ErrNotFound when no listing carries it.
	FindBySlug(ctx context.Context, slug string) (*domain.Listing, error)
	// ListSlugIndex projects the catalog to {slug, category} without images.
	ListSlugIndex(ctx context.Context) ([]domain.SlugIndexEntry, error)
}
