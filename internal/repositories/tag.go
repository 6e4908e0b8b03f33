package repositories

import (
	"context"
	"fmt"
	"slices"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sbilibin2017/juicebox/internal/apperrors"
	"github.com/sbilibin2017/juicebox/internal/logger"
	"github.com/sbilibin2017/juicebox/internal/models"
)

type TagReadRepository struct {
	db *sqlx.DB
}

func NewTagReadRepository(db *sqlx.DB) *TagReadRepository {
	return &TagReadRepository{db: db}
}

// ListAll returns every tag in insertion order.
func (r *TagReadRepository) ListAll(ctx context.Context) ([]models.Tag, error) {
	const query = `
		SELECT id, name
		FROM tags
		ORDER BY id
	`

	tags := make([]models.Tag, 0)
	err := r.db.SelectContext(ctx, &tags, query)
	logger.Query(query, nil, len(tags), err)

	if err != nil {
		return nil, err
	}
	return tags, nil
}

type TagWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewTagWriteRepository(db *sqlx.DB, txGetter TxGetter) *TagWriteRepository {
	return &TagWriteRepository{db: db, txGetter: txGetter}
}

// UpsertByNames returns one tag per distinct name, creating the missing ones.
// The result follows the order in which names were first seen.
//
// Missing names are inserted with ON CONFLICT DO NOTHING, so existing tag rows
// are neither rewritten nor locked. A concurrent insert of the same new name
// makes this statement wait for it; once it commits, the name is read back by
// the follow-up select. Names are inserted in sorted order so two upserts
// never wait on each other's names in opposite order.
func (r *TagWriteRepository) UpsertByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	const insertQuery = `
		INSERT INTO tags (name)
		SELECT unnest($1::VARCHAR[])
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name
	`
	const selectQuery = `
		SELECT id, name
		FROM tags
		WHERE name = ANY($1)
	`

	ordered := distinct(names)
	if len(ordered) == 0 {
		return []models.Tag{}, nil
	}

	sorted := slices.Clone(ordered)
	slices.Sort(sorted)

	ex := executor(ctx, r.db, r.txGetter)

	var inserted []models.Tag
	err := sqlx.SelectContext(ctx, ex, &inserted, insertQuery, pq.Array(sorted))
	logger.Query(insertQuery, []any{sorted}, inserted, err)
	if err != nil {
		return nil, fmt.Errorf("upsert tags: %w", apperrors.FromPG(err))
	}

	byName := make(map[string]models.Tag, len(ordered))
	for _, t := range inserted {
		byName[t.Name] = t
	}

	existing := make([]string, 0, len(sorted)-len(inserted))
	for _, name := range sorted {
		if _, ok := byName[name]; !ok {
			existing = append(existing, name)
		}
	}

	if len(existing) > 0 {
		var found []models.Tag
		err := sqlx.SelectContext(ctx, ex, &found, selectQuery, pq.Array(existing))
		logger.Query(selectQuery, []any{existing}, found, err)
		if err != nil {
			return nil, fmt.Errorf("select tags: %w", err)
		}
		for _, t := range found {
			byName[t.Name] = t
		}
	}

	tags := make([]models.Tag, 0, len(ordered))
	for _, name := range ordered {
		t, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("upsert tags: no row found for %q", name)
		}
		tags = append(tags, t)
	}
	return tags, nil
}
