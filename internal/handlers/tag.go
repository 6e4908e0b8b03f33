package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/juicebox/internal/models"
)

// TagLister lists the tag vocabulary.
type TagLister interface {
	ListAll(ctx context.Context) ([]models.Tag, error)
}

// TaggedPostLister lists the posts carrying a tag.
type TaggedPostLister interface {
	PostsByTagName(ctx context.Context, name string) ([]models.Post, error)
}

// TagsResponse is a list of tags
// swagger:model TagsResponse
type TagsResponse struct {
	Tags []models.Tag `json:"tags"`
}

// NewListTagsHandler returns an HTTP handler listing every tag.
// @Summary List tags
// @Tags tags
// @Produce json
// @Success 200 {object} handlers.TagsResponse
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /tags [get]
func NewListTagsHandler(svc TagLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := svc.ListAll(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, TagsResponse{Tags: tags})
	}
}

// NewPostsByTagHandler returns an HTTP handler listing the posts tagged with
// tagName. The name must be URL-encoded, e.g. %23happy for #happy.
// @Summary Posts by tag
// @Tags tags
// @Produce json
// @Param tagName path string true "Tag name, URL-encoded"
// @Success 200 {object} handlers.PostsResponse
// @Failure 400 {object} handlers.ErrorResponse "invalid tagName"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /tags/{tagName}/posts [get]
func NewPostsByTagHandler(svc TaggedPostLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// chi matches on RawPath when the request has one, and then the
		// segment is still escaped. Otherwise it is already decoded.
		name := chi.URLParam(r, "tagName")
		if r.URL.RawPath != "" {
			unescaped, err := url.PathUnescape(name)
			if err != nil {
				writeErrorMessage(w, http.StatusBadRequest, "invalid tagName")
				return
			}
			name = unescaped
		}

		posts, err := svc.PostsByTagName(r.Context(), name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, PostsResponse{Posts: posts})
	}
}
