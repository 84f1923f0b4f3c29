package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "shorelands-backend/cmd/api"
	enquiryUsecase "shorelands-backend/internal/enquiry/usecase"
	listingRepo "shorelands-backend/internal/listing/repository"
	listingUsecase "shorelands-backend/internal/listing/usecase"
	"shorelands-backend/pkg/config"
	"shorelands-backend/pkg/gmail"
	"shorelands-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	appLogger, closeLogger := newLogger(cfg)
	defer closeLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize repositories (dependency injection)
	fileRepo, err := listingRepo.NewFileListingRepository(cfg.DatasetPath)
	if err != nil {
		log.Fatal("Failed to initialize listing repository:", err)
	}
	listings := fileRepo
	var cache api.CatalogCache
	if cfg.CatalogCache {
		cached := listingRepo.NewCachedListingRepository(fileRepo, cfg.DatasetPath, appLogger)
		if err := cached.Watch(ctx); err != nil {
			appLogger.Warn("Dataset watcher disabled; use POST /api/catalog/reload after edits", logger.Fields{"error": err.Error()})
		}
		listings = cached
		cache = cached
	}
	images := listingRepo.NewDirImageRepository(cfg.ImageRoot, appLogger)

	// Initialize mail relay
	if !cfg.MailConfigured() {
		appLogger.Warn("CLIENT_ID, CLIENT_SECRET or REFRESH_TOKEN not set; enquiries will fail to send", nil)
	}
	tokenProvider := gmail.NewTokenProvider(cfg.ClientID, cfg.ClientSecret, cfg.RefreshToken, cfg.TokenURL, cfg.TokenTimeout)
	dispatcher := enquiryUsecase.NewDispatcher(tokenProvider, gmail.NewTransport(""), enquiryUsecase.DispatcherConfig{
		From:        cfg.MailFrom,
		SendTimeout: cfg.SendTimeout,
		Workers:     cfg.SendWorkers,
	}, appLogger)

	// Initialize use cases (dependency injection)
	listingUc := listingUsecase.NewListingUsecase(listings, images)
	enquiryUc := enquiryUsecase.NewEnquiryUsecase(dispatcher, cfg.Recipients)

	// Initialize HTTP handler
	handler := api.NewHandler(listingUc, enquiryUc, cache, cfg, appLogger, time.Now())

	errCh := make(chan error, 1)
	go func() {
		errCh <- handler.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			appLogger.Error("Server stopped unexpectedly", err, nil)
			closeLogger()
			os.Exit(1)
		}
	case <-ctx.Done():
		appLogger.Info("Shutdown signal received", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := handler.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Graceful shutdown failed", err, nil)
		}
		<-errCh
	}
	appLogger.Info("Server stopped", nil)
}

// newLogger builds the console logger and, when enabled, fans out to Fluent Bit.
func newLogger(cfg *config.Config) (logger.Logger, func()) {
	level := logger.ParseLevel(cfg.LogLevel)
	console := logger.NewSlogAdapter(logger.SlogConfig{Level: level, Format: cfg.LogFormat})
	if !cfg.FluentEnabled {
		return console, func() {}
	}

	client, err := logger.NewFluentClient(cfg.FluentHost, cfg.FluentPort)
	if err != nil {
		console.Warn("Fluent Bit unavailable, logging to console only", logger.Fields{"error": err.Error()})
		return console, func() {}
	}
	fluentLogger, err := logger.NewFluentAdapter(client, cfg.FluentTag, level)
	if err != nil {
		console.Warn("Fluent Bit unavailable, logging to console only", logger.Fields{"error": err.Error()})
		_ = client.Close()
		return console, func() {}
	}
	multi, err := logger.NewMultiAdapter(console, fluentLogger)
	if err != nil {
		return console, func() { _ = fluentLogger.Close() }
	}
	return multi, func() { _ = fluentLogger.Close() }
}
