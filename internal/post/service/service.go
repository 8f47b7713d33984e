package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/quillhq/quill/internal/post"
	"github.com/quillhq/quill/internal/post/repository"
	"github.com/quillhq/quill/pkg/metrics"
)

// Service is the resource-store surface consumed by the HTTP handler and the
// seed harness. Absent ids are not errors on reads and deletes; UpdateByID
// surfaces post.ErrNotFound, and any validation failure wraps post.ErrInvalid.
type Service interface {
	InsertMany(ctx context.Context, drafts []post.Draft) ([]post.Post, error)
	FindAll(ctx context.Context) ([]post.Post, error)
	FindByID(ctx context.Context, id string) (post.Post, bool, error)
	UpdateByID(ctx context.Context, id string, patch post.Patch) (post.Post, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	Clear(ctx context.Context) error
}

// New returns a Service over the given store backend.
func New(store repository.Store) Service {
	return &postService{store: store}
}

type postService struct {
	store repository.Store

	mu          sync.Mutex
	lastCreated time.Time
}

// nextCreated produces insertion timestamps that never decrease, even when
// the wall clock steps backwards between calls. Stamps are truncated to
// millisecond precision, the finest resolution all backends can round-trip,
// so a stored timestamp always reads back exactly as assigned.
func (s *postService) nextCreated() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC().Truncate(time.Millisecond)
	if now.Before(s.lastCreated) {
		now = s.lastCreated
	}
	s.lastCreated = now
	return now
}

func (s *postService) InsertMany(ctx context.Context, drafts []post.Draft) ([]post.Post, error) {
	// validate the whole batch up front so a bad draft inserts nothing
	for _, d := range drafts {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}
	posts := make([]post.Post, 0, len(drafts))
	for _, d := range drafts {
		posts = append(posts, post.Post{
			ID:      post.NewID(),
			Title:   d.Title,
			Author:  d.Author,
			Content: d.Content,
			Created: s.nextCreated(),
		})
	}
	if err := s.store.InsertMany(ctx, posts); err != nil {
		return nil, err
	}
	metrics.PostsCreated.Add(float64(len(posts)))
	return posts, nil
}

func (s *postService) FindAll(ctx context.Context) ([]post.Post, error) {
	return s.store.FindAll(ctx)
}

func (s *postService) FindByID(ctx context.Context, id string) (post.Post, bool, error) {
	p, err := s.store.FindByID(ctx, id)
	if errors.Is(err, post.ErrNotFound) {
		return post.Post{}, false, nil
	}
	if err != nil {
		return post.Post{}, false, err
	}
	return p, true, nil
}

func (s *postService) UpdateByID(ctx context.Context, id string, patch post.Patch) (post.Post, error) {
	if err := patch.Validate(); err != nil {
		return post.Post{}, err
	}
	updated, err := s.store.UpdateByID(ctx, id, patch)
	if err != nil {
		return post.Post{}, err
	}
	metrics.PostsUpdated.Inc()
	return updated, nil
}

func (s *postService) DeleteByID(ctx context.Context, id string) (bool, error) {
	err := s.store.DeleteByID(ctx, id)
	if errors.Is(err, post.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	metrics.PostsDeleted.Inc()
	return true, nil
}

func (s *postService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}
