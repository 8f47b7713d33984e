package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"

	"github.com/quillhq/quill/internal/post"
)

var postsBucket = []byte("posts")

// BoltRepo persists posts in a single-file bolt database, one JSON-encoded
// value per post keyed by id. Suitable when the service needs durable local
// storage without a MongoDB deployment.
type BoltRepo struct {
	db *bolt.DB
}

// NewBoltRepo opens (or creates) the database file at path and ensures the
// posts bucket exists. The returned repo holds the file lock until Close.
func NewBoltRepo(path string) (*BoltRepo, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open bolt store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(postsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create posts bucket: %w", err)
	}
	return &BoltRepo{db: db}, nil
}

func (b *BoltRepo) InsertMany(_ context.Context, posts []post.Post) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(postsBucket)
		for _, p := range posts {
			key := []byte(p.ID)
			if bucket.Get(key) != nil {
				return fmt.Errorf("duplicate post id %q", p.ID)
			}
			value, err := json.Marshal(p)
			if err != nil {
				return err
			}
			if err := bucket.Put(key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *BoltRepo) FindAll(_ context.Context) ([]post.Post, error) {
	out := []post.Post{}
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(postsBucket).ForEach(func(_, value []byte) error {
			var p post.Post
			if err := json.Unmarshal(value, &p); err != nil {
				return err
			}
			out = append(out, p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortByCreated(out)
	return out, nil
}

func (b *BoltRepo) FindByID(_ context.Context, id string) (post.Post, error) {
	var p post.Post
	err := b.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(postsBucket).Get([]byte(id))
		if value == nil {
			return post.ErrNotFound
		}
		return json.Unmarshal(value, &p)
	})
	if err != nil {
		return post.Post{}, err
	}
	return p, nil
}

func (b *BoltRepo) UpdateByID(_ context.Context, id string, patch post.Patch) (post.Post, error) {
	var p post.Post
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(postsBucket)
		key := []byte(id)
		value := bucket.Get(key)
		if value == nil {
			return post.ErrNotFound
		}
		if err := json.Unmarshal(value, &p); err != nil {
			return err
		}
		p = patch.Apply(p)
		updated, err := json.Marshal(p)
		if err != nil {
			return err
		}
		return bucket.Put(key, updated)
	})
	if err != nil {
		return post.Post{}, err
	}
	return p, nil
}

func (b *BoltRepo) DeleteByID(_ context.Context, id string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(postsBucket)
		key := []byte(id)
		if bucket.Get(key) == nil {
			return post.ErrNotFound
		}
		return bucket.Delete(key)
	})
}

func (b *BoltRepo) Clear(_ context.Context) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(postsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(postsBucket)
		return err
	})
}

func (b *BoltRepo) Ping(_ context.Context) error {
	return b.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(postsBucket) == nil {
			return fmt.Errorf("posts bucket missing")
		}
		return nil
	})
}

// Close releases the database file lock.
func (b *BoltRepo) Close() error {
	return b.db.Close()
}
