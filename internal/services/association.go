package services

import (
	"context"

	"github.com/sbilibin2017/juicebox/internal/logger"
)

// PostTagReader reads post/tag associations.
type PostTagReader interface {
	ListTagIDs(ctx context.Context, postID int64) ([]int64, error)
	ListTagNames(ctx context.Context, postIDs []int64) (map[int64][]string, error)
}

// PostTagWriter inserts and deletes post/tag associations.
type PostTagWriter interface {
	Add(ctx context.Context, postID int64, tagIDs []int64) error
	Remove(ctx context.Context, postID int64, tagIDs []int64) error
}

// AssociationService keeps the tag set of a post equal to a desired list of names.
type AssociationService struct {
	tags   TagWriter
	reader PostTagReader
	writer PostTagWriter
}

// NewAssociationService creates a new AssociationService.
func NewAssociationService(tags TagWriter, reader PostTagReader, writer PostTagWriter) *AssociationService {
	return &AssociationService{tags: tags, reader: reader, writer: writer}
}

// Reconcile makes the tags of postID exactly the distinct names in desired.
// Missing tags are created, new associations are appended in desired order
// and stale ones are deleted. Tags themselves are never deleted.
//
// Calling it twice with the same names performs no writes the second time.
// It must run inside a transaction so a failure leaves the previous set intact.
func (s *AssociationService) Reconcile(ctx context.Context, postID int64, desired []string) error {
	desiredIDs := []int64{}
	if len(desired) > 0 {
		tags, err := s.tags.UpsertByNames(ctx, desired)
		if err != nil {
			logger.Log.Errorw("failed to resolve tags", "postID", postID, "tags", desired, "error", err)
			return err
		}
		for _, t := range tags {
			desiredIDs = append(desiredIDs, t.ID)
		}
	}

	currentIDs, err := s.reader.ListTagIDs(ctx, postID)
	if err != nil {
		logger.Log.Errorw("failed to list post tags", "postID", postID, "error", err)
		return err
	}

	toAdd := difference(desiredIDs, currentIDs)
	toRemove := difference(currentIDs, desiredIDs)

	if len(toRemove) > 0 {
		if err := s.writer.Remove(ctx, postID, toRemove); err != nil {
			logger.Log.Errorw("failed to remove post tags", "postID", postID, "tagIDs", toRemove, "error", err)
			return err
		}
	}
	if len(toAdd) > 0 {
		if err := s.writer.Add(ctx, postID, toAdd); err != nil {
			logger.Log.Errorw("failed to add post tags", "postID", postID, "tagIDs", toAdd, "error", err)
			return err
		}
	}

	logger.Log.Debugw("post tags reconciled", "postID", postID, "added", toAdd, "removed", toRemove)
	return nil
}

// difference returns the elements of a missing from b, in the order of a.
func difference(a, b []int64) []int64 {
	in := make(map[int64]struct{}, len(b))
	for _, id := range b {
		in[id] = struct{}{}
	}

	out := []int64{}
	for _, id := range a {
		if _, ok := in[id]; ok {
			continue
		}
		in[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
