package services

import (
	"context"

	"github.com/sbilibin2017/juicebox/internal/logger"
	"github.com/sbilibin2017/juicebox/internal/models"
)

// TagReader lists the tag vocabulary.
type TagReader interface {
	ListAll(ctx context.Context) ([]models.Tag, error)
}

// TagWriter creates tags on first use.
type TagWriter interface {
	UpsertByNames(ctx context.Context, names []string) ([]models.Tag, error)
}

// TagService exposes the shared tag vocabulary.
type TagService struct {
	reader TagReader
	writer TagWriter
}

// NewTagService creates a new TagService.
func NewTagService(reader TagReader, writer TagWriter) *TagService {
	return &TagService{reader: reader, writer: writer}
}

// UpsertByNames returns one tag per distinct name, creating missing ones, in
// the order names were first seen.
func (s *TagService) UpsertByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	if err := validateTagNames(names); err != nil {
		return nil, err
	}

	tags, err := s.writer.UpsertByNames(ctx, names)
	if err != nil {
		logger.Log.Errorw("failed to upsert tags", "names", names, "error", err)
		return nil, err
	}
	return tags, nil
}

// ListAll returns every tag in insertion order.
func (s *TagService) ListAll(ctx context.Context) ([]models.Tag, error) {
	return s.reader.ListAll(ctx)
}
