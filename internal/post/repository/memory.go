package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/quillhq/quill/internal/post"
)

// MemoryRepo is a map-backed store used for local runs and unit tests. Posts
// are held by value, so callers never alias stored documents.
type MemoryRepo struct {
	mu    sync.RWMutex
	posts map[string]post.Post
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{posts: make(map[string]post.Post)}
}

func (m *MemoryRepo) InsertMany(_ context.Context, posts []post.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range posts {
		if _, ok := m.posts[p.ID]; ok {
			return fmt.Errorf("duplicate post id %q", p.ID)
		}
	}
	for _, p := range posts {
		m.posts[p.ID] = p
	}
	return nil
}

func (m *MemoryRepo) FindAll(_ context.Context) ([]post.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]post.Post, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, p)
	}
	sortByCreated(out)
	return out, nil
}

func (m *MemoryRepo) FindByID(_ context.Context, id string) (post.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.posts[id]
	if !ok {
		return post.Post{}, post.ErrNotFound
	}
	return p, nil
}

func (m *MemoryRepo) UpdateByID(_ context.Context, id string, patch post.Patch) (post.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return post.Post{}, post.ErrNotFound
	}
	p = patch.Apply(p)
	m.posts[id] = p
	return p, nil
}

func (m *MemoryRepo) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return post.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *MemoryRepo) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = make(map[string]post.Post)
	return nil
}

func (m *MemoryRepo) Ping(_ context.Context) error { return nil }

func (m *MemoryRepo) Close() error { return nil }
