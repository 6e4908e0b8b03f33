package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/juicebox/internal/logger"
	"github.com/sbilibin2017/juicebox/internal/models"
	"github.com/segmentio/kafka-go"
)

// TxManager runs fn inside a single database transaction.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// PostWriter writes posts rows.
type PostWriter interface {
	Create(ctx context.Context, params models.CreatePostParams) (*models.Post, error)
	LockByID(ctx context.Context, id int64) (*models.Post, error)
	Update(ctx context.Context, id int64, params models.UpdatePostParams) (*models.Post, error)
}

// TagReconciler sets the tag set of a post.
type TagReconciler interface {
	Reconcile(ctx context.Context, postID int64, desired []string) error
}

// PostEnricher fills in the tag names of posts.
type PostEnricher interface {
	WithTags(ctx context.Context, posts []models.Post) ([]models.Post, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// PostService creates, updates and reads posts together with their tags.
// Every mutation runs in one transaction: the post row and its associations
// commit together or not at all.
type PostService struct {
	tx          TxManager
	reader      PostReader
	writer      PostWriter
	reconciler  TagReconciler
	enricher    PostEnricher
	kafkaWriter KafkaWriter
}

// NewPostService creates a new PostService. kafkaWriter may be nil.
func NewPostService(
	tx TxManager,
	reader PostReader,
	writer PostWriter,
	reconciler TagReconciler,
	enricher PostEnricher,
	kafkaWriter KafkaWriter,
) *PostService {
	return &PostService{
		tx:          tx,
		reader:      reader,
		writer:      writer,
		reconciler:  reconciler,
		enricher:    enricher,
		kafkaWriter: kafkaWriter,
	}
}

// Create inserts a post and, when params.Tags is set, associates exactly those tags.
func (s *PostService) Create(ctx context.Context, params models.CreatePostParams) (*models.Post, error) {
	if err := validateStruct(params); err != nil {
		return nil, err
	}
	if err := validateTagNames(params.Tags); err != nil {
		return nil, err
	}

	var post *models.Post
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		created, err := s.writer.Create(ctx, params)
		if err != nil {
			return err
		}

		if params.Tags != nil {
			if err := s.reconciler.Reconcile(ctx, created.ID, params.Tags); err != nil {
				return err
			}
		}

		post, err = s.withTags(ctx, created)
		return err
	})
	if err != nil {
		logger.Log.Errorw("failed to create post", "authorID", params.AuthorID, "error", err)
		return nil, err
	}

	s.publishPost(ctx, models.PostCreated, post)
	return post, nil
}

// Update applies a partial update to the post with the given id. When
// params.Tags is non-nil the associations are replaced by that set, otherwise
// they are left untouched.
func (s *PostService) Update(ctx context.Context, id int64, params models.UpdatePostParams) (*models.Post, error) {
	if err := validateStruct(params); err != nil {
		return nil, err
	}
	if params.Tags != nil {
		if err := validateTagNames(*params.Tags); err != nil {
			return nil, err
		}
	}

	var post *models.Post
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		current, err := s.writer.LockByID(ctx, id)
		if err != nil {
			return err
		}

		if params.HasFields() {
			if current, err = s.writer.Update(ctx, id, params); err != nil {
				return err
			}
		}

		if params.Tags != nil {
			if err := s.reconciler.Reconcile(ctx, id, *params.Tags); err != nil {
				return err
			}
		}

		post, err = s.withTags(ctx, current)
		return err
	})
	if err != nil {
		logger.Log.Errorw("failed to update post", "id", id, "error", err)
		return nil, err
	}

	s.publishPost(ctx, models.PostUpdated, post)
	return post, nil
}

// ListAll returns every post with its tag names.
func (s *PostService) ListAll(ctx context.Context) ([]models.Post, error) {
	posts, err := s.reader.ListAll(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list posts", "error", err)
		return nil, err
	}
	return s.enricher.WithTags(ctx, posts)
}

// GetByID returns a single post with its tag names.
func (s *PostService) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.reader.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withTags(ctx, post)
}

func (s *PostService) withTags(ctx context.Context, post *models.Post) (*models.Post, error) {
	posts, err := s.enricher.WithTags(ctx, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// publishPost publishes a post event to Kafka. Failures are logged only.
func (s *PostService) publishPost(ctx context.Context, operation string, post *models.Post) {
	if s.kafkaWriter == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "post_id", post.ID)
		return
	}

	event := models.PostEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().Unix(),
		PostID:    post.ID,
		AuthorID:  post.AuthorID,
		Operation: operation,
		Tags:      post.Tags,
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal post event for Kafka", "post_id", post.ID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(post.ID, 10)),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish post event to Kafka", "post_id", post.ID, "error", err)
	} else {
		logger.Log.Infow("Post event published to Kafka", "post_id", post.ID, "operation", operation)
	}
}
