package repository

import (
	"context"
	"sort"

	"github.com/quillhq/quill/internal/post"
)

// Store is the persistence surface shared by the memory, bolt and mongo
// backends. Callers assign IDs and Created timestamps before inserting;
// backends report a missing id with post.ErrNotFound.
type Store interface {
	InsertMany(ctx context.Context, posts []post.Post) error
	FindAll(ctx context.Context) ([]post.Post, error)
	FindByID(ctx context.Context, id string) (post.Post, error)
	UpdateByID(ctx context.Context, id string, patch post.Patch) (post.Post, error)
	DeleteByID(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// sortByCreated orders posts by insertion time, falling back to id so the
// order is stable when timestamps collide.
func sortByCreated(posts []post.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].Created.Equal(posts[j].Created) {
			return posts[i].ID < posts[j].ID
		}
		return posts[i].Created.Before(posts[j].Created)
	})
}
