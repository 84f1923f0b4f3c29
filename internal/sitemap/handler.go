package sitemap

import (
	"context"
	"net/http"

	"shorelands-backend/internal/listing/domain"
	"shorelands-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SlugIndexer is the part of the listing usecase the sitemap needs.
type SlugIndexer interface {
	ListSlugIndex(ctx context.Context) ([]domain.SlugIndexEntry, error)
}

type Handler struct {
	generator *Generator
	listings  SlugIndexer
	logger    logger.Logger
}

func NewHandler(generator *Generator, listings SlugIndexer, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{generator: generator, listings: listings, logger: log}
}

// GET /sitemap.xml
func (h *Handler) GetSitemap(c *gin.Context) {
	index, err := h.listings.ListSlugIndex(c.Request.Context())
	if err != nil {
		logger.FromContext(c.Request.Context(), h.logger).Error("Failed to load slug index for sitemap", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Listing data is unavailable"})
		return
	}
	body, err := h.generator.Sitemap(index)
	if err != nil {
		logger.FromContext(c.Request.Context(), h.logger).Error("Failed to render sitemap", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render sitemap"})
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

// GET /robots.txt
func (h *Handler) GetRobots(c *gin.Context) {
	c.String(http.StatusOK, h.generator.Robots())
}
