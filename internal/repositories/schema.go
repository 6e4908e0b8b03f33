package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/juicebox/internal/apperrors"
	"github.com/sbilibin2017/juicebox/internal/logger"
)

// createStatements builds the four relations, parents before children.
var createStatements = []string{
	`CREATE TABLE users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		location VARCHAR(255) NOT NULL,
		active BOOLEAN NOT NULL DEFAULT true
	)`,
	`CREATE TABLE posts (
		id BIGSERIAL PRIMARY KEY,
		author_id BIGINT NOT NULL REFERENCES users(id),
		title VARCHAR(255) NOT NULL,
		content TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT true
	)`,
	`CREATE TABLE tags (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE
	)`,
	`CREATE TABLE post_tags (
		post_id BIGINT NOT NULL REFERENCES posts(id),
		tag_id BIGINT NOT NULL REFERENCES tags(id),
		seq BIGSERIAL NOT NULL,
		PRIMARY KEY (post_id, tag_id)
	)`,
	`CREATE INDEX idx_post_tags_tag_id ON post_tags(tag_id)`,
}

// dropStatements removes the relations, children before parents.
var dropStatements = []string{
	`DROP TABLE IF EXISTS post_tags`,
	`DROP TABLE IF EXISTS tags`,
	`DROP TABLE IF EXISTS posts`,
	`DROP TABLE IF EXISTS users`,
}

// SchemaRepository creates and drops the blog schema.
type SchemaRepository struct {
	db *sqlx.DB
}

func NewSchemaRepository(db *sqlx.DB) *SchemaRepository {
	return &SchemaRepository{db: db}
}

// DropAll drops every table. Either all of them go or none does.
func (r *SchemaRepository) DropAll(ctx context.Context) error {
	return r.apply(ctx, "drop tables", dropStatements)
}

// CreateAll creates every table with its constraints. Either all of them are
// created or none is.
func (r *SchemaRepository) CreateAll(ctx context.Context) error {
	return r.apply(ctx, "create tables", createStatements)
}

func (r *SchemaRepository) apply(ctx context.Context, step string, statements []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrSchema, step, err)
	}

	for _, stmt := range statements {
		_, err := tx.ExecContext(ctx, stmt)
		logger.Query(stmt, nil, nil, err)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("%w: %s: %w", apperrors.ErrSchema, step, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrSchema, step, err)
	}
	return nil
}
