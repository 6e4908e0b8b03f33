package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/juicebox/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTagsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockTagLister(ctrl)
	mockSvc.EXPECT().ListAll(gomock.Any()).Return([]models.Tag{{ID: 1, Name: "#happy"}}, nil)

	w := httptest.NewRecorder()
	NewListTagsHandler(mockSvc).ServeHTTP(w, newRequest(t, http.MethodGet, "/api/tags", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []models.Tag{{ID: 1, Name: "#happy"}}, decode[TagsResponse](t, w).Tags)
}

func TestPostsByTagHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockTaggedPostLister(ctrl)

	router := chi.NewRouter()
	router.Get("/api/tags/{tagName}/posts", NewPostsByTagHandler(mockSvc))

	tests := []struct {
		name  string
		path  string
		want  string
		posts []models.Post
	}{
		{name: "escaped hash", path: "/api/tags/%23happy/posts", want: "#happy", posts: []models.Post{{ID: 1}}},
		{name: "escaped percent is decoded once", path: "/api/tags/%2541/posts", want: "%41", posts: []models.Post{{ID: 2}}},
		{name: "escaped slash", path: "/api/tags/red%2Ffish/posts", want: "red/fish", posts: []models.Post{{ID: 3}}},
		{name: "unknown tag", path: "/api/tags/%23nonexistent/posts", want: "#nonexistent", posts: []models.Post{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc.EXPECT().PostsByTagName(gomock.Any(), tt.want).Return(tt.posts, nil)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, newRequest(t, http.MethodGet, tt.path, nil))

			require.Equal(t, http.StatusOK, w.Code)
			resp := decode[PostsResponse](t, w)
			assert.Len(t, resp.Posts, len(tt.posts))
			assert.NotNil(t, resp.Posts)
		})
	}
}

func TestPostsByTagHandler_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockTaggedPostLister(ctrl)
	mockSvc.EXPECT().PostsByTagName(gomock.Any(), "#happy").Return(nil, errors.New("db down"))

	req := withURLParam(newRequest(t, http.MethodGet, "/api/tags/x/posts", nil), "tagName", "#happy")
	w := httptest.NewRecorder()
	NewPostsByTagHandler(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
