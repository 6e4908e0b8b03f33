package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/juicebox/internal/apperrors"
	"github.com/sbilibin2017/juicebox/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsersHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockUserLister(ctrl)

	mockSvc.EXPECT().ListAll(gomock.Any()).Return([]models.User{{ID: 1, Username: "albert"}, {ID: 2, Username: "sandra"}}, nil)
	w := httptest.NewRecorder()
	NewListUsersHandler(mockSvc).ServeHTTP(w, newRequest(t, http.MethodGet, "/api/users", nil))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[UsersResponse](t, w)
	assert.Len(t, resp.Users, 2)

	mockSvc.EXPECT().ListAll(gomock.Any()).Return(nil, errors.New("db down"))
	w = httptest.NewRecorder()
	NewListUsersHandler(mockSvc).ServeHTTP(w, newRequest(t, http.MethodGet, "/api/users", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetUserHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockUserGetter(ctrl)

	tests := []struct {
		name         string
		id           string
		mockSetup    func()
		expectedCode int
	}{
		{
			name: "found",
			id:   "1",
			mockSetup: func() {
				mockSvc.EXPECT().GetByID(gomock.Any(), int64(1)).Return(&models.User{ID: 1}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "not found",
			id:   "99",
			mockSetup: func() {
				mockSvc.EXPECT().GetByID(gomock.Any(), int64(99)).Return(nil, apperrors.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "bad id",
			id:           "abc",
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			req := withURLParam(newRequest(t, http.MethodGet, "/api/users/"+tt.id, nil), "id", tt.id)
			w := httptest.NewRecorder()

			NewGetUserHandler(mockSvc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestUpdateMeHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockUserUpdater(ctrl)
	name := "Newname Sogood"

	t.Run("updates the caller", func(t *testing.T) {
		mockSvc.EXPECT().Update(gomock.Any(), int64(3), models.UpdateUserParams{Name: &name}).
			Return(&models.User{ID: 3, Name: name}, nil)

		req := withUser(newRequest(t, http.MethodPatch, "/api/users/me", UpdateUserRequest{Name: &name}), 3)
		w := httptest.NewRecorder()
		NewUpdateMeHandler(mockSvc).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, name, decode[UserResponse](t, w).User.Name)
	})

	t.Run("anonymous", func(t *testing.T) {
		req := newRequest(t, http.MethodPatch, "/api/users/me", UpdateUserRequest{Name: &name})
		w := httptest.NewRecorder()
		NewUpdateMeHandler(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "you must be logged in to perform this action", decode[ErrorResponse](t, w).Error)
	})
}
