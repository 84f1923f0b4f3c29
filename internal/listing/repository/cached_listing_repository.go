package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"shorelands-backend/internal/listing/domain"
	"shorelands-backend/pkg/logger"

	"github.com/fsnotify/fsnotify"
)

// CachedListingRepository keeps the last successfully loaded catalog in memory
// until it is invalidated. Loads are serialised; reads share the lock.
type CachedListingRepository struct {
	source ListingRepository
	path   string
	logger logger.Logger

	mu       sync.RWMutex
	listings []*domain.Listing
	loaded   bool
}

// NewCachedListingRepository wraps source. path is the dataset file Watch observes.
func NewCachedListingRepository(source ListingRepository, path string, log logger.Logger) *CachedListingRepository {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &CachedListingRepository{
		source: source,
		path:   path,
		logger: log.WithFields(logger.Fields{"component": "catalog_cache"}),
	}
}

func (r *CachedListingRepository) GetAll(ctx context.Context) ([]*domain.Listing, error) {
	r.mu.RLock()
	if r.loaded {
		listings := r.listings
		r.mu.RUnlock()
		return listings, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return r.listings, nil
	}

	listings, err := r.source.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	r.listings = listings
	r.loaded = true
	r.logger.Debug("Catalog cached", logger.Fields{"listings": len(listings)})
	return listings, nil
}

// Invalidate drops the cached catalog; the next read goes to the source.
func (r *CachedListingRepository) Invalidate() {
	r.mu.Lock()
	r.listings = nil
	r.loaded = false
	r.mu.Unlock()
	r.logger.Info("Catalog cache invalidated", nil)
}

// Cached reports whether a catalog is currently held.
func (r *CachedListingRepository) Cached() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Watch invalidates the cache whenever the dataset file changes. The watcher
// runs until ctx is cancelled.
func (r *CachedListingRepository) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create dataset watcher: %w", err)
	}
	// Watch the directory: editors and deploys often replace the file by rename.
	if err := watcher.Add(filepath.Dir(r.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(r.path), err)
	}

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) == r.path && event.Op&relevant != 0 {
					r.Invalidate()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.logger.Warn("Dataset watcher error", logger.Fields{"error": err.Error()})
			}
		}
	}()

	r.logger.Info("Watching dataset for changes", logger.Fields{"path": r.path})
	return nil
}
