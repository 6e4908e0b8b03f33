package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/juicebox/internal/apperrors"
	"github.com/sbilibin2017/juicebox/internal/middlewares"
	"github.com/sbilibin2017/juicebox/internal/models"
)

// UserLister lists users.
type UserLister interface {
	ListAll(ctx context.Context) ([]models.User, error)
}

// UserGetter fetches one user.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// UserUpdater applies partial user updates.
type UserUpdater interface {
	Update(ctx context.Context, id int64, params models.UpdateUserParams) (*models.User, error)
}

// UsersResponse is a list of users
// swagger:model UsersResponse
type UsersResponse struct {
	Users []models.User `json:"users"`
}

// UserResponse wraps a single user
// swagger:model UserResponse
type UserResponse struct {
	User *models.User `json:"user"`
}

// UpdateUserRequest holds the fields to change. Omitted fields are left as they are.
// swagger:model UpdateUserRequest
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Name     *string `json:"name,omitempty"`
	Location *string `json:"location,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// NewListUsersHandler returns an HTTP handler listing every user.
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} handlers.UsersResponse
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /users [get]
func NewListUsersHandler(svc UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.ListAll(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, UsersResponse{Users: users})
	}
}

// NewGetUserHandler returns an HTTP handler fetching one user by id.
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} handlers.UserResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid id"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /users/{id} [get]
func NewGetUserHandler(svc UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}

		user, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, UserResponse{User: user})
	}
}

// NewUpdateMeHandler returns an HTTP handler updating the authenticated user.
// @Summary Update current user
// @Tags users
// @Accept json
// @Produce json
// @Param updateUserRequest body handlers.UpdateUserRequest true "Fields to change"
// @Success 200 {object} handlers.UserResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid body or username taken"
// @Failure 401 {object} handlers.ErrorResponse "Not logged in"
// @Router /users/me [patch]
// @Security BearerAuth
func NewUpdateMeHandler(svc UserUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, r, apperrors.ErrUnauthorized)
			return
		}

		var req UpdateUserRequest
		if !decodeBody(w, r, &req) {
			return
		}

		user, err := svc.Update(r.Context(), userID, models.UpdateUserParams{
			Username: req.Username,
			Password: req.Password,
			Name:     req.Name,
			Location: req.Location,
			Active:   req.Active,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, UserResponse{User: user})
	}
}
