package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/juicebox/internal/logger"
	"github.com/sbilibin2017/juicebox/internal/models"
	"github.com/sbilibin2017/juicebox/internal/tx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// --- Setup Postgres ---
func setupPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	logger.Initialize("debug")
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "secret", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:secret@%s:%s/testdb?sslmode=disable", host, port.Port())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err)

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)

	require.NoError(t, NewSchemaRepository(db).CreateAll(ctx))

	t.Cleanup(func() {
		db.Close()
		container.Terminate(ctx)
	})
	return db
}

func newSqlmock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

// --- Helpers ---
func createUser(t *testing.T, db *sqlx.DB, username string) models.User {
	t.Helper()
	user, err := NewUserWriteRepository(db, tx.GetTxFromContext).Create(context.Background(), models.CreateUserParams{
		Username: username,
		Password: "hashed-" + username,
		Name:     "Name " + username,
		Location: "Somewhere",
	})
	require.NoError(t, err)
	return *user
}

func createPost(t *testing.T, db *sqlx.DB, authorID int64, title string) models.Post {
	t.Helper()
	post, err := NewPostWriteRepository(db, tx.GetTxFromContext).Create(context.Background(), models.CreatePostParams{
		AuthorID: authorID,
		Title:    title,
		Content:  "content of " + title,
	})
	require.NoError(t, err)
	return *post
}

func ptr[T any](v T) *T {
	return &v
}
