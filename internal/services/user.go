package services

import (
	"context"

	"github.com/sbilibin2017/juicebox/internal/logger"
	"github.com/sbilibin2017/juicebox/internal/models"
)

// UserReader defines read-only operations for users.
type UserReader interface {
	ListAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetCredentials(ctx context.Context, username string) (*models.UserCredentials, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Create(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	Update(ctx context.Context, id int64, params models.UpdateUserParams) (*models.User, error)
}

// UserService registers, updates and lists users. Passwords are stored as bcrypt hashes.
type UserService struct {
	reader UserReader
	writer UserWriter
}

// NewUserService creates a new UserService instance.
func NewUserService(reader UserReader, writer UserWriter) *UserService {
	return &UserService{
		reader: reader,
		writer: writer,
	}
}

// Create registers a new user.
func (svc *UserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	if err := validateStruct(params); err != nil {
		return nil, err
	}

	hashed, err := hashPassword(params.Password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}
	params.Password = hashed

	user, err := svc.writer.Create(ctx, params)
	if err != nil {
		logger.Log.Errorw("failed to create user", "username", params.Username, "err", err)
		return nil, err
	}
	return user, nil
}

// Update applies a partial update to the user with the given id.
func (svc *UserService) Update(ctx context.Context, id int64, params models.UpdateUserParams) (*models.User, error) {
	if err := validateStruct(params); err != nil {
		return nil, err
	}

	if params.Password != nil {
		hashed, err := hashPassword(*params.Password)
		if err != nil {
			logger.Log.Errorw("failed to hash password", "err", err)
			return nil, err
		}
		params.Password = &hashed
	}

	user, err := svc.writer.Update(ctx, id, params)
	if err != nil {
		logger.Log.Errorw("failed to update user", "id", id, "err", err)
		return nil, err
	}
	return user, nil
}

// ListAll returns every user in insertion order.
func (svc *UserService) ListAll(ctx context.Context) ([]models.User, error) {
	return svc.reader.ListAll(ctx)
}

// GetByID returns a single user.
func (svc *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return svc.reader.GetByID(ctx, id)
}
