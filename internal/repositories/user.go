package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/juicebox/internal/apperrors"
	"github.com/sbilibin2017/juicebox/internal/logger"
	"github.com/sbilibin2017/juicebox/internal/models"
)

const redacted = "[REDACTED]"

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// ListAll returns every user in insertion order.
func (r *UserReadRepository) ListAll(ctx context.Context) ([]models.User, error) {
	const query = `
		SELECT id, username, name, location, active
		FROM users
		ORDER BY id
	`

	users := make([]models.User, 0)
	err := r.db.SelectContext(ctx, &users, query)
	logger.Query(query, nil, len(users), err)

	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetByID returns the user with the given id or apperrors.ErrNotFound.
func (r *UserReadRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `
		SELECT id, username, name, location, active
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	logger.Query(query, []any{id}, user, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetCredentials returns the stored password hash for username, or apperrors.ErrNotFound.
func (r *UserReadRepository) GetCredentials(ctx context.Context, username string) (*models.UserCredentials, error) {
	const query = `
		SELECT id, username, password, active
		FROM users
		WHERE username = $1
	`

	var creds models.UserCredentials
	err := r.db.GetContext(ctx, &creds, query, username)
	logger.Query(query, []any{username}, creds.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &creds, nil
}

type UserWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewUserWriteRepository(db *sqlx.DB, txGetter TxGetter) *UserWriteRepository {
	return &UserWriteRepository{db: db, txGetter: txGetter}
}

// Create inserts a user. The password must already be hashed.
// A taken username yields apperrors.ErrConflict.
func (r *UserWriteRepository) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	const query = `
		INSERT INTO users (username, password, name, location)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, name, location, active
	`

	var user models.User
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query,
		params.Username, params.Password, params.Name, params.Location)
	logger.Query(query, []any{params.Username, redacted, params.Name, params.Location}, user.ID, err)

	if err != nil {
		return nil, fmt.Errorf("create user %q: %w", params.Username, apperrors.FromPG(err))
	}
	return &user, nil
}

// Update applies the non-nil fields of params to the user with the given id.
func (r *UserWriteRepository) Update(ctx context.Context, id int64, params models.UpdateUserParams) (*models.User, error) {
	const query = `
		UPDATE users
		SET username = COALESCE($2::VARCHAR, username),
		    password = COALESCE($3::VARCHAR, password),
		    name = COALESCE($4::VARCHAR, name),
		    location = COALESCE($5::VARCHAR, location),
		    active = COALESCE($6::BOOLEAN, active)
		WHERE id = $1
		RETURNING id, username, name, location, active
	`

	var password any
	if params.Password != nil {
		password = redacted
	}

	var user models.User
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query,
		id, params.Username, params.Password, params.Name, params.Location, params.Active)
	logger.Query(query, []any{id, params.Username, password, params.Name, params.Location, params.Active}, user, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, apperrors.FromPG(err))
	}
	return &user, nil
}
