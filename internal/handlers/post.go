package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/juicebox/internal/apperrors"
	"github.com/sbilibin2017/juicebox/internal/middlewares"
	"github.com/sbilibin2017/juicebox/internal/models"
)

// PostLister lists posts with their tags.
type PostLister interface {
	ListAll(ctx context.Context) ([]models.Post, error)
}

// PostGetter fetches one post with its tags.
type PostGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
}

// PostCreator creates posts.
type PostCreator interface {
	Create(ctx context.Context, params models.CreatePostParams) (*models.Post, error)
}

// PostUpdater applies partial post updates.
type PostUpdater interface {
	Update(ctx context.Context, id int64, params models.UpdatePostParams) (*models.Post, error)
}

// PostsResponse is a list of posts
// swagger:model PostsResponse
type PostsResponse struct {
	Posts []models.Post `json:"posts"`
}

// PostResponse wraps a single post
// swagger:model PostResponse
type PostResponse struct {
	Post *models.Post `json:"post"`
}

// CreatePostRequest represents the JSON body for a new post
// swagger:model CreatePostRequest
type CreatePostRequest struct {
	// required: true
	// default: First Post
	Title string `json:"title"`

	// required: true
	// default: This is my first post. I hope I love writing blogs as much as I love writing them.
	Content string `json:"content"`

	// default: ["#happy","#youcandoanything"]
	Tags []string `json:"tags"`
}

// UpdatePostRequest holds the fields to change. A missing tags field leaves
// the tags alone, an empty list removes them all.
// swagger:model UpdatePostRequest
type UpdatePostRequest struct {
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Active  *bool     `json:"active,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

// NewListPostsHandler returns an HTTP handler listing every post with its tags.
// @Summary List posts
// @Tags posts
// @Produce json
// @Success 200 {object} handlers.PostsResponse
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /posts [get]
func NewListPostsHandler(svc PostLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := svc.ListAll(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, PostsResponse{Posts: posts})
	}
}

// NewGetPostHandler returns an HTTP handler fetching one post by id.
// @Summary Get post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} handlers.PostResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid id"
// @Failure 404 {object} handlers.ErrorResponse "Post not found"
// @Router /posts/{id} [get]
func NewGetPostHandler(svc PostGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}

		post, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, PostResponse{Post: post})
	}
}

// NewCreatePostHandler returns an HTTP handler creating a post authored by the caller.
// @Summary Create post
// @Tags posts
// @Accept json
// @Produce json
// @Param createPostRequest body handlers.CreatePostRequest true "New post"
// @Success 201 {object} handlers.PostResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid body or missing field"
// @Failure 401 {object} handlers.ErrorResponse "Not logged in"
// @Router /posts [post]
// @Security BearerAuth
func NewCreatePostHandler(svc PostCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, r, apperrors.ErrUnauthorized)
			return
		}

		var req CreatePostRequest
		if !decodeBody(w, r, &req) {
			return
		}

		post, err := svc.Create(r.Context(), models.CreatePostParams{
			AuthorID: userID,
			Title:    req.Title,
			Content:  req.Content,
			Tags:     req.Tags,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, PostResponse{Post: post})
	}
}

// NewUpdatePostHandler returns an HTTP handler applying a partial update to a post.
// @Summary Update post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param updatePostRequest body handlers.UpdatePostRequest true "Fields to change"
// @Success 200 {object} handlers.PostResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid id or body"
// @Failure 401 {object} handlers.ErrorResponse "Not logged in"
// @Failure 404 {object} handlers.ErrorResponse "Post not found"
// @Router /posts/{id} [patch]
// @Security BearerAuth
func NewUpdatePostHandler(svc PostUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}

		var req UpdatePostRequest
		if !decodeBody(w, r, &req) {
			return
		}

		post, err := svc.Update(r.Context(), id, models.UpdatePostParams{
			Title:   req.Title,
			Content: req.Content,
			Active:  req.Active,
			Tags:    req.Tags,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, PostResponse{Post: post})
	}
}
