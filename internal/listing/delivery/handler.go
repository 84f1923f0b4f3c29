package delivery

import (
	"errors"
	"net/http"

	"shorelands-backend/internal/listing/domain"
	"shorelands-backend/internal/listing/usecase"
	"shorelands-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ListingHandler handles the public catalog routes
type ListingHandler struct {
	listingUsecase usecase.ListingUsecase
	logger         logger.Logger
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(listingUsecase usecase.ListingUsecase, log logger.Logger) *ListingHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &ListingHandler{
		listingUsecase: listingUsecase,
		logger:         log,
	}
}

// GetProperties returns the catalog, optionally filtered by category
// GET /api/properties?category=homes
func (h *ListingHandler) GetProperties(c *gin.Context) {
	listings, err := h.listingUsecase.ListByCategory(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

// GetProperty returns a single listing
// GET /api/property?slug=lake-house
func (h *ListingHandler) GetProperty(c *gin.Context) {
	listing, err := h.listingUsecase.FindBySlug(c.Request.Context(), c.Query("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// GetSlugs returns the {slug, category} index
// GET /api/slugs
func (h *ListingHandler) GetSlugs(c *gin.Context) {
	index, err := h.listingUsecase.ListSlugIndex(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, index)
}

func (h *ListingHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingParameter):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide slug parameter"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slug parameter"})
	default:
		logger.FromContext(c.Request.Context(), h.logger).Error("Failed to load listings", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Listing data is unavailable"})
	}
}
