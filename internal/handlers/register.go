package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/juicebox/internal/models"
)

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Create(ctx context.Context, params models.CreateUserParams) (*models.User, error)
}

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Username
	// required: true
	// default: albert
	Username string `json:"username"`

	// Password
	// required: true
	// default: bertie99
	Password string `json:"password"`

	// Display name
	// required: true
	// default: Al Bert
	Name string `json:"name"`

	// Location
	// required: true
	// default: Sidney, Australia
	Location string `json:"location"`
}

// RegisterResponse represents a successful registration response
// swagger:model RegisterResponse
type RegisterResponse struct {
	// Success message
	// default: thank you for signing up
	Message string `json:"message"`

	// Created user
	User *models.User `json:"user"`
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account. Usernames are unique. Password is hashed before storing.
// @Tags users
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "Register Request"
// @Success 201 {object} handlers.RegisterResponse "User registered"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body, missing field or username taken"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /users/register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if !decodeBody(w, r, &req) {
			return
		}

		user, err := svc.Create(r.Context(), models.CreateUserParams{
			Username: req.Username,
			Password: req.Password,
			Name:     req.Name,
			Location: req.Location,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, RegisterResponse{
			Message: "thank you for signing up",
			User:    user,
		})
	}
}
