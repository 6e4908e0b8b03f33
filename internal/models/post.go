package models

// Post is a posts row enriched with the names of its tags.
// Tags are ordered by association insertion order.
type Post struct {
	ID       int64    `json:"id" db:"id"`
	AuthorID int64    `json:"authorId" db:"author_id"`
	Title    string   `json:"title" db:"title"`
	Content  string   `json:"content" db:"content"`
	Active   bool     `json:"active" db:"active"`
	Tags     []string `json:"tags" db:"-"`
}

// CreatePostParams holds the fields of a new post. Tags is optional.
type CreatePostParams struct {
	AuthorID int64    `json:"authorId" validate:"required"`
	Title    string   `json:"title" validate:"required,max=255"`
	Content  string   `json:"content" validate:"required"`
	Tags     []string `json:"tags,omitempty"`
}

// UpdatePostParams holds the fields of a partial post update.
//
// Tags distinguishes "not mentioned" (nil) from "replace with this set"
// (non-nil, possibly empty).
type UpdatePostParams struct {
	Title   *string   `json:"title,omitempty" validate:"omitnil,min=1,max=255"`
	Content *string   `json:"content,omitempty" validate:"omitnil,min=1"`
	Active  *bool     `json:"active,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

// HasFields reports whether any non-tag column is set.
func (p UpdatePostParams) HasFields() bool {
	return p.Title != nil || p.Content != nil || p.Active != nil
}
