package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/juicebox/internal/apperrors"
	"github.com/sbilibin2017/juicebox/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRegisterHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockRegisterer(ctrl)

	valid := RegisterRequest{
		Username: "albert",
		Password: "bertie99",
		Name:     "Al Bert",
		Location: "Sidney, Australia",
	}
	params := models.CreateUserParams{
		Username: "albert",
		Password: "bertie99",
		Name:     "Al Bert",
		Location: "Sidney, Australia",
	}

	tests := []struct {
		name         string
		inputBody    interface{}
		mockSetup    func()
		expectedCode int
		expectedErr  string
	}{
		{
			name:      "success",
			inputBody: valid,
			mockSetup: func() {
				mockSvc.EXPECT().Create(gomock.Any(), params).
					Return(&models.User{ID: 1, Username: "albert", Name: "Al Bert", Location: "Sidney, Australia", Active: true}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "invalid JSON",
			inputBody:    "{bad",
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "invalid request body",
		},
		{
			name:      "username taken",
			inputBody: valid,
			mockSetup: func() {
				mockSvc.EXPECT().Create(gomock.Any(), params).Return(nil, apperrors.ErrConflict)
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  apperrors.ErrConflict.Error(),
		},
		{
			name:      "missing field",
			inputBody: RegisterRequest{Username: "albert"},
			mockSetup: func() {
				mockSvc.EXPECT().Create(gomock.Any(), models.CreateUserParams{Username: "albert"}).
					Return(nil, apperrors.ErrValidation)
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  apperrors.ErrValidation.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			req := newRequest(t, http.MethodPost, "/api/users/register", tt.inputBody)
			w := httptest.NewRecorder()

			NewRegisterHandler(mockSvc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedErr != "" {
				assert.Equal(t, tt.expectedErr, decode[ErrorResponse](t, w).Error)
				return
			}

			resp := decode[RegisterResponse](t, w)
			assert.Equal(t, "thank you for signing up", resp.Message)
			assert.Equal(t, int64(1), resp.User.ID)
			assert.NotContains(t, w.Body.String(), "bertie99")
		})
	}
}
