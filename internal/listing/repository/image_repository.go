package repository

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"shorelands-backend/pkg/logger"
)

// dirImageRepository resolves images from <root>/<slug>/.
type dirImageRepository struct {
	root   string
	logger logger.Logger
}

func NewDirImageRepository(root string, log logger.Logger) ImageRepository {
	if log == nil {
		log = logger.NewNop()
	}
	return &dirImageRepository{
		root:   root,
		logger: log.WithFields(logger.Fields{"component": "image_repository"}),
	}
}

// ImagesFor returns the file names in the slug's directory in os.ReadDir order
// (sorted by name). Hidden files and sub-directories are skipped. The result is
// never nil.
func (r *dirImageRepository) ImagesFor(slug string) []string {
	images := []string{}

	// a slug must name exactly one directory below root
	if slug == "" || slug == "." || strings.ContainsAny(slug, `/\`) || !filepath.IsLocal(slug) {
		return images
	}

	dir := filepath.Join(r.root, slug)
	info, err := os.Stat(dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("Failed to stat image directory", logger.Fields{"slug": slug, "error": err.Error()})
		}
		return images
	}
	if !info.IsDir() {
		return images
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		r.logger.Warn("Failed to list image directory", logger.Fields{"slug": slug, "error": err.Error()})
		return images
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		images = append(images, entry.Name())
	}
	return images
}
