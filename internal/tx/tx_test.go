package tx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestManager_Do_Commit(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE posts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := NewManager(db).Do(context.Background(), func(ctx context.Context) error {
		tx := GetTxFromContext(ctx)
		assert.NotNil(t, tx)
		_, err := tx.ExecContext(ctx, "UPDATE posts SET title = $1", "x")
		return err
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_Do_RollbackOnError(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	fnErr := errors.New("reconcile failed")
	err := NewManager(db).Do(context.Background(), func(ctx context.Context) error {
		return fnErr
	})

	assert.ErrorIs(t, err, fnErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_Do_BeginError(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

	called := false
	err := NewManager(db).Do(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_Do_CommitError(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(sql.ErrConnDone)

	err := NewManager(db).Do(context.Background(), func(ctx context.Context) error {
		return nil
	})

	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_Do_Panic(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = NewManager(db).Do(context.Background(), func(ctx context.Context) error {
			panic("test panic")
		})
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_Do_Nested(t *testing.T) {
	db, mock := newMock(t)

	// One Begin/Commit pair for both levels.
	mock.ExpectBegin()
	mock.ExpectCommit()

	m := NewManager(db)
	err := m.Do(context.Background(), func(outer context.Context) error {
		return m.Do(outer, func(inner context.Context) error {
			assert.Same(t, GetTxFromContext(outer), GetTxFromContext(inner))
			return nil
		})
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTxFromContext_Empty(t *testing.T) {
	assert.Nil(t, GetTxFromContext(context.Background()))
}
