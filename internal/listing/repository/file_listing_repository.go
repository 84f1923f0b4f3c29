package repository

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"shorelands-backend/internal/listing/domain"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/properties.json
var datasetSchema []byte

const datasetSchemaURL = "mem://shorelands/properties.json"

// dataset mirrors the on-disk document: {"properties": [...]}.
type dataset struct {
	Properties []*domain.Listing `json:"properties"`
}

// fileListingRepository reads the dataset from disk on every call.
type fileListingRepository struct {
	path   string
	schema *jsonschema.Schema
}

// NewFileListingRepository compiles the dataset schema once and returns a
// repository that re-reads path for every query.
func NewFileListingRepository(path string) (ListingRepository, error) {
	schema, err := compileDatasetSchema()
	if err != nil {
		return nil, err
	}
	return &fileListingRepository{
		path:   path,
		schema: schema,
	}, nil
}

func compileDatasetSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(datasetSchemaURL, bytes.NewReader(datasetSchema)); err != nil {
		return nil, fmt.Errorf("failed to add dataset schema: %w", err)
	}
	schema, err := compiler.Compile(datasetSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile dataset schema: %w", err)
	}
	return schema, nil
}

func (r *fileListingRepository) GetAll(ctx context.Context) ([]*domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}

	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrDataUnavailable, r.path, err)
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s is not valid JSON: %v", domain.ErrDataUnavailable, r.path, err)
	}
	if err := r.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s does not match the dataset schema: %v", domain.ErrDataUnavailable, r.path, err)
	}

	var data dataset
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrDataUnavailable, r.path, err)
	}

	listings := make([]*domain.Listing, 0, len(data.Properties))
	for _, l := range data.Properties {
		// images come from disk, not from the dataset
		l.Images = nil
		listings = append(listings, l)
	}
	return listings, nil
}
