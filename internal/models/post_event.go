package models

// Post event operations.
const (
	PostCreated = "create"
	PostUpdated = "update"
)

// PostEvent is published after a post mutation commits.
type PostEvent struct {
	EventID   string   `json:"event_id"`  // EventID is a unique identifier for the event.
	Timestamp int64    `json:"timestamp"` // Timestamp is the Unix time (seconds) of the commit.
	PostID    int64    `json:"post_id"`   // PostID is the mutated post.
	AuthorID  int64    `json:"author_id"` // AuthorID owns the post.
	Operation string   `json:"operation"` // Operation is PostCreated or PostUpdated.
	Tags      []string `json:"tags"`      // Tags is the tag set after the mutation.
}
