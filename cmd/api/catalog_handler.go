package api

import (
	"net/http"

	"shorelands-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// CatalogCache is the runtime control surface of the in-memory catalog.
type CatalogCache interface {
	Invalidate()
	Cached() bool
}

// CatalogHandler exposes catalog cache status and reload. cache is nil when
// caching is disabled; every request then reads the dataset anyway.
type CatalogHandler struct {
	cache  CatalogCache
	logger logger.Logger
}

func NewCatalogHandler(cache CatalogCache, log logger.Logger) *CatalogHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &CatalogHandler{cache: cache, logger: log}
}

// GetCatalogStatus returns whether the catalog cache is enabled and loaded
// GET /api/catalog
func (h *CatalogHandler) GetCatalogStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cache_enabled": h.cache != nil,
		"cached":        h.cache != nil && h.cache.Cached(),
	})
}

// ReloadCatalog drops the cached catalog so the next read hits the dataset
// POST /api/catalog/reload
func (h *CatalogHandler) ReloadCatalog(c *gin.Context) {
	if h.cache == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Catalog cache is disabled; the dataset is read on every request"})
		return
	}
	h.cache.Invalidate()
	logger.FromContext(c.Request.Context(), h.logger).Info("Catalog reload requested", nil)
	c.JSON(http.StatusOK, gin.H{"message": "Catalog cache cleared"})
}
