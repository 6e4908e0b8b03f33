// Package seed rebuilds the database with a small demo data set.
package seed

import (
	"context"
	"fmt"

	"github.com/sbilibin2017/juicebox/internal/logger"
	"github.com/sbilibin2017/juicebox/internal/models"
)

//go:generate mockgen -destination=mocks.go -package=seed . Schema,UserCreator,PostCreator

// Schema drops and creates the tables.
type Schema interface {
	DropAll(ctx context.Context) error
	CreateAll(ctx context.Context) error
}

// UserCreator registers users.
type UserCreator interface {
	Create(ctx context.Context, params models.CreateUserParams) (*models.User, error)
}

// PostCreator creates posts with tags.
type PostCreator interface {
	Create(ctx context.Context, params models.CreatePostParams) (*models.Post, error)
}

// Users is the initial set of accounts.
var Users = []models.CreateUserParams{
	{Username: "albert", Password: "bertie99", Name: "Al Bert", Location: "Sidney, Australia"},
	{Username: "sandra", Password: "2sandy4me", Name: "Just Sandy", Location: "Ain't Tellin'"},
	{Username: "glamgal", Password: "soglam", Name: "Joshua", Location: "Upper East Side"},
}

// post is a demo post keyed by its author's username.
type post struct {
	author  string
	title   string
	content string
	tags    []string
}

var posts = []post{
	{
		author:  "albert",
		title:   "First Post",
		content: "This is my first post. I hope I enjoy writing blogs as much as I enjoy reading them.",
		tags:    []string{"#happy", "#youcandoanything"},
	},
	{
		author:  "sandra",
		title:   "How does this work?",
		content: "Seriously, does this even do anything?",
		tags:    []string{"#happy", "#worst-day-ever"},
	},
	{
		author:  "glamgal",
		title:   "Living The Glam Life",
		content: "Do you even? I swear that half of you are posing.",
		tags:    []string{"#happy", "#youcandoanything", "#catmandoeverything"},
	},
}

// Rebuild drops every table, recreates the schema and inserts the demo users
// and posts. Existing data is lost.
func Rebuild(ctx context.Context, schema Schema, users UserCreator, postCreator PostCreator) error {
	logger.Log.Info("dropping tables")
	if err := schema.DropAll(ctx); err != nil {
		return err
	}

	logger.Log.Info("creating tables")
	if err := schema.CreateAll(ctx); err != nil {
		return err
	}

	ids := make(map[string]int64, len(Users))
	for _, params := range Users {
		user, err := users.Create(ctx, params)
		if err != nil {
			return fmt.Errorf("create user %s: %w", params.Username, err)
		}
		ids[user.Username] = user.ID
	}
	logger.Log.Infow("users created", "count", len(ids))

	for _, p := range posts {
		created, err := postCreator.Create(ctx, models.CreatePostParams{
			AuthorID: ids[p.author],
			Title:    p.title,
			Content:  p.content,
			Tags:     p.tags,
		})
		if err != nil {
			return fmt.Errorf("create post %q: %w", p.title, err)
		}
		logger.Log.Infow("post created", "id", created.ID, "tags", created.Tags)
	}

	logger.Log.Info("database rebuilt")
	return nil
}
