package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Listing routes (public)
		api.GET("/properties", h.listingHandler.GetProperties)
		api.GET("/property", h.listingHandler.GetProperty)
		api.GET("/slugs", h.listingHandler.GetSlugs)

		// Contact form
		api.POST("/enquiry", h.enquiryHandler.SubmitEnquiry)

		// Catalog cache control
		catalog := api.Group("/catalog")
		{
			catalog.GET("", h.catalogHandler.GetCatalogStatus)
			catalog.POST("/reload", h.catalogHandler.ReloadCatalog)
		}
	}

	r.GET("/sitemap.xml", h.sitemapHandler.GetSitemap)
	r.GET("/robots.txt", h.sitemapHandler.GetRobots)

	if h.config.ImageRoot != "" {
		r.Static("/images", h.config.ImageRoot)
	}
}
