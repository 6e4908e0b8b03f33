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

// PostReadRepository reads posts rows. Tags are filled in by the caller.
type PostReadRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewPostReadRepository(db *sqlx.DB, txGetter TxGetter) *PostReadRepository {
	return &PostReadRepository{db: db, txGetter: txGetter}
}

// ListAll returns every post, active or not, in insertion order.
func (r *PostReadRepository) ListAll(ctx context.Context) ([]models.Post, error) {
	const query = `
		SELECT id, author_id, title, content, active
		FROM posts
		ORDER BY id
	`

	posts := make([]models.Post, 0)
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &posts, query)
	logger.Query(query, nil, len(posts), err)

	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetByID returns the post with the given id or apperrors.ErrNotFound.
func (r *PostReadRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	const query = `
		SELECT id, author_id, title, content, active
		FROM posts
		WHERE id = $1
	`

	var post models.Post
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &post, query, id)
	logger.Query(query, []any{id}, post.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListByTagName returns the posts associated with the tag named exactly name.
// An unknown or unused tag yields an empty slice.
func (r *PostReadRepository) ListByTagName(ctx context.Context, name string) ([]models.Post, error) {
	const query = `
		SELECT p.id, p.author_id, p.title, p.content, p.active
		FROM posts p
		JOIN post_tags pt ON pt.post_id = p.id
		JOIN tags t ON t.id = pt.tag_id
		WHERE t.name = $1
		ORDER BY p.id
	`

	posts := make([]models.Post, 0)
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &posts, query, name)
	logger.Query(query, []any{name}, len(posts), err)

	if err != nil {
		return nil, err
	}
	return posts, nil
}

// PostWriteRepository writes posts rows.
type PostWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewPostWriteRepository(db *sqlx.DB, txGetter TxGetter) *PostWriteRepository {
	return &PostWriteRepository{db: db, txGetter: txGetter}
}

// Create inserts a post. An unknown author yields apperrors.ErrNotFound.
func (r *PostWriteRepository) Create(ctx context.Context, params models.CreatePostParams) (*models.Post, error) {
	const query = `
		INSERT INTO posts (author_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, author_id, title, content, active
	`

	args := []any{params.AuthorID, params.Title, params.Content}

	var post models.Post
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &post, query, args...)
	logger.Query(query, args, post.ID, err)

	if err != nil {
		return nil, fmt.Errorf("create post for author %d: %w", params.AuthorID, apperrors.FromPG(err))
	}
	return &post, nil
}

// LockByID returns the post and holds a row lock on it until the surrounding
// transaction ends. Outside a transaction the lock is released immediately.
func (r *PostWriteRepository) LockByID(ctx context.Context, id int64) (*models.Post, error) {
	const query = `
		SELECT id, author_id, title, content, active
		FROM posts
		WHERE id = $1
		FOR UPDATE
	`

	var post models.Post
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &post, query, id)
	logger.Query(query, []any{id}, post.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Update applies the non-nil title, content and active fields of params.
// Tags are not touched here.
func (r *PostWriteRepository) Update(ctx context.Context, id int64, params models.UpdatePostParams) (*models.Post, error) {
	const query = `
		UPDATE posts
		SET title = COALESCE($2::VARCHAR, title),
		    content = COALESCE($3::TEXT, content),
		    active = COALESCE($4::BOOLEAN, active)
		WHERE id = $1
		RETURNING id, author_id, title, content, active
	`

	args := []any{id, params.Title, params.Content, params.Active}

	var post models.Post
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &post, query, args...)
	logger.Query(query, args, post.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update post %d: %w", id, apperrors.FromPG(err))
	}
	return &post, nil
}
