package services

import (
	"context"
	"errors"

	"github.com/sbilibin2017/juicebox/internal/apperrors"
	"github.com/sbilibin2017/juicebox/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

// JWTGenerator defines an interface for generating JWT tokens.
type JWTGenerator interface {
	Generate(ctx context.Context, userID int64) (string, error)
}

// AuthService handles login.
type AuthService struct {
	reader UserReader
	jwt    JWTGenerator
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, jwt JWTGenerator) *AuthService {
	return &AuthService{
		reader: reader,
		jwt:    jwt,
	}
}

// Login authenticates a user and returns a JWT token.
// Unknown, inactive and mismatching users all yield apperrors.ErrInvalidCredentials.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	creds, err := svc.reader.GetCredentials(ctx, username)
	if errors.Is(err, apperrors.ErrNotFound) {
		logger.Log.Infow("login for unknown user", "username", username)
		return "", apperrors.ErrInvalidCredentials
	}
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}

	if !creds.Active {
		logger.Log.Infow("login for inactive user", "username", username)
		return "", apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.Password), []byte(password)); err != nil {
		logger.Log.Infow("invalid credentials", "username", username)
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, creds.ID)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", err
	}
	return token, nil
}
