package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sbilibin2017/juicebox/internal/apperrors"
	"github.com/sbilibin2017/juicebox/internal/logger"
)

// PostTagReadRepository reads post/tag associations.
type PostTagReadRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewPostTagReadRepository(db *sqlx.DB, txGetter TxGetter) *PostTagReadRepository {
	return &PostTagReadRepository{db: db, txGetter: txGetter}
}

// ListTagIDs returns the ids of the tags associated with postID, in association order.
func (r *PostTagReadRepository) ListTagIDs(ctx context.Context, postID int64) ([]int64, error) {
	const query = `
		SELECT tag_id
		FROM post_tags
		WHERE post_id = $1
		ORDER BY seq
	`

	ids := make([]int64, 0)
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &ids, query, postID)
	logger.Query(query, []any{postID}, ids, err)

	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListTagNames returns the tag names of each of postIDs in association order.
// Posts without tags are absent from the map.
func (r *PostTagReadRepository) ListTagNames(ctx context.Context, postIDs []int64) (map[int64][]string, error) {
	const query = `
		SELECT pt.post_id, t.name
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1)
		ORDER BY pt.post_id, pt.seq
	`

	names := make(map[int64][]string)
	if len(postIDs) == 0 {
		return names, nil
	}

	var rows []struct {
		PostID int64  `db:"post_id"`
		Name   string `db:"name"`
	}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &rows, query, pq.Array(postIDs))
	logger.Query(query, []any{postIDs}, len(rows), err)

	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		names[row.PostID] = append(names[row.PostID], row.Name)
	}
	return names, nil
}

// PostTagWriteRepository inserts and deletes post/tag associations.
type PostTagWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewPostTagWriteRepository(db *sqlx.DB, txGetter TxGetter) *PostTagWriteRepository {
	return &PostTagWriteRepository{db: db, txGetter: txGetter}
}

// Add associates tagIDs with postID in the given order. Pairs that already
// exist are left as they are.
func (r *PostTagWriteRepository) Add(ctx context.Context, postID int64, tagIDs []int64) error {
	const query = `
		INSERT INTO post_tags (post_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, tag_id) DO NOTHING
	`

	ex := executor(ctx, r.db, r.txGetter)
	for _, tagID := range tagIDs {
		res, err := ex.ExecContext(ctx, query, postID, tagID)
		var rowsAffected int64
		if res != nil {
			rowsAffected, _ = res.RowsAffected()
		}
		logger.Query(query, []any{postID, tagID}, rowsAffected, err)

		if err != nil {
			return apperrors.FromPG(err)
		}
	}
	return nil
}

// Remove deletes the associations between postID and tagIDs.
func (r *PostTagWriteRepository) Remove(ctx context.Context, postID int64, tagIDs []int64) error {
	const query = `
		DELETE FROM post_tags
		WHERE post_id = $1 AND tag_id = ANY($2)
	`

	if len(tagIDs) == 0 {
		return nil
	}

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, postID, pq.Array(tagIDs))
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logger.Query(query, []any{postID, tagIDs}, rowsAffected, err)

	return err
}
