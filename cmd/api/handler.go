package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	enquiryDelivery "shorelands-backend/internal/enquiry/delivery"
	enquiryUsecase "shorelands-backend/internal/enquiry/usecase"
	listingDelivery "shorelands-backend/internal/listing/delivery"
	listingUsecase "shorelands-backend/internal/listing/usecase"
	"shorelands-backend/internal/sitemap"
	"shorelands-backend/pkg/config"
	"shorelands-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	config         *config.Config
	logger         logger.Logger
	listingHandler *listingDelivery.ListingHandler
	enquiryHandler *enquiryDelivery.EnquiryHandler
	sitemapHandler *sitemap.Handler
	catalogHandler *CatalogHandler

	mu     sync.Mutex
	server *http.Server
}

// NewHandler wires the feature handlers. cache may be nil when the catalog is
// read from disk on every request.
func NewHandler(listingUc listingUsecase.ListingUsecase, enquiryUc enquiryUsecase.EnquiryUsecase, cache CatalogCache, cfg *config.Config, log logger.Logger, startedAt time.Time) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		config:         cfg,
		logger:         log,
		listingHandler: listingDelivery.NewListingHandler(listingUc, log),
		enquiryHandler: enquiryDelivery.NewEnquiryHandler(enquiryUc, log),
		sitemapHandler: sitemap.NewHandler(sitemap.NewGenerator(cfg.SiteURL, startedAt), listingUc, log),
		catalogHandler: NewCatalogHandler(cache, log),
	}
}

// Engine builds the gin engine with middleware and routes.
func (h *Handler) Engine() *gin.Engine {
	if h.config.GinMode != "" {
		gin.SetMode(h.config.GinMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware())
	r.Use(LoggerMiddleware(h.logger))

	SetupRoutes(r, h)
	return r
}

// Start serves until Shutdown is called. A graceful shutdown returns nil.
func (h *Handler) Start(addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           h.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	h.mu.Lock()
	h.server = server
	h.mu.Unlock()

	h.logger.Info("Server starting", logger.Fields{"addr": addr})
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (h *Handler) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	server := h.server
	h.mu.Unlock()
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}
