package usecase

import (
	"context"

	"shorelands-backend/internal/listing/domain"
	"shorelands-backend/internal/listing/repository"
)

// listingUsecase implements ListingUsecase interface
type listingUsecase struct {
	listingRepo repository.ListingRepository
	imageRepo   repository.ImageRepository
}

// NewListingUsecase creates a new instance of listingUsecase
func NewListingUsecase(listingRepo repository.ListingRepository, imageRepo repository.ImageRepository) ListingUsecase {
	return &listingUsecase{
		listingRepo: listingRepo,
		imageRepo:   imageRepo,
	}
}

func (u *listingUsecase) ListByCategory(ctx context.Context, category string) ([]*domain.Listing, error) {
	listings, err := u.listingRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Listing, 0, len(listings))
	for _, l := range listings {
		if category != "" && category != domain.CategoryAll && l.Category != category {
			continue
		}
		result = append(result, u.withImages(l))
	}
	return result, nil
}

func (u *listingUsecase) FindBySlug(ctx context.Context, slug string) (*domain.Listing, error) {
	if slug == "" {
		return nil, domain.ErrMissingParameter
	}

	listings, err := u.listingRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, l := range listings {
		if l.Slug == slug {
			return u.withImages(l), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (u *listingUsecase) ListSlugIndex(ctx context.Context) ([]domain.SlugIndexEntry, error) {
	listings, err := u.listingRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	index := make([]domain.SlugIndexEntry, 0, len(listings))
	for _, l := range listings {
		index = append(index, domain.SlugIndexEntry{Slug: l.Slug, Category: l.Category})
	}
	return index, nil
}

// withImages returns a copy of l with its images resolved from disk. The
// repository may hand out shared (cached) records, so they are never mutated.
func (u *listingUsecase) withImages(l *domain.Listing) *domain.Listing {
	enriched := *l
	enriched.Images = u.imageRepo.ImagesFor(l.Slug)
	return &enriched
}
