package services

import (
	"context"

	"github.com/sbilibin2017/juicebox/internal/logger"
	"github.com/sbilibin2017/juicebox/internal/models"
)

// PostReader reads posts rows without their tags.
type PostReader interface {
	ListAll(ctx context.Context) ([]models.Post, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	ListByTagName(ctx context.Context, name string) ([]models.Post, error)
}

// QueryService answers the read-side questions that span posts and tags.
// It never writes.
type QueryService struct {
	posts    PostReader
	postTags PostTagReader
}

// NewQueryService creates a new QueryService.
func NewQueryService(posts PostReader, postTags PostTagReader) *QueryService {
	return &QueryService{posts: posts, postTags: postTags}
}

// PostsWithTags returns every post, active or not, with its tag names.
func (s *QueryService) PostsWithTags(ctx context.Context) ([]models.Post, error) {
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list posts", "error", err)
		return nil, err
	}
	return s.WithTags(ctx, posts)
}

// PostsByTagName returns the posts tagged with exactly name. An unknown tag
// yields an empty slice.
func (s *QueryService) PostsByTagName(ctx context.Context, name string) ([]models.Post, error) {
	posts, err := s.posts.ListByTagName(ctx, name)
	if err != nil {
		logger.Log.Errorw("failed to list posts by tag", "tag", name, "error", err)
		return nil, err
	}
	return s.WithTags(ctx, posts)
}

// WithTags fills in the tag names of posts, ordered by association insertion.
func (s *QueryService) WithTags(ctx context.Context, posts []models.Post) ([]models.Post, error) {
	if len(posts) == 0 {
		return []models.Post{}, nil
	}

	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	names, err := s.postTags.ListTagNames(ctx, ids)
	if err != nil {
		logger.Log.Errorw("failed to load post tags", "postIDs", ids, "error", err)
		return nil, err
	}

	out := make([]models.Post, len(posts))
	for i, p := range posts {
		p.Tags = names[p.ID]
		if p.Tags == nil {
			p.Tags = []string{}
		}
		out[i] = p
	}
	return out, nil
}
