// Package seed fills a post store with randomized valid posts for
// integration runs and wipes it between runs.
package seed

import (
	"context"
	"fmt"

	"github.com/Pallinder/go-randomdata"

	"github.com/quillhq/quill/internal/post"
	"github.com/quillhq/quill/internal/post/service"
)

// Seeder generates random posts through a Service, so seeded posts carry
// store-assigned ids and timestamps exactly like user-created ones.
type Seeder struct {
	svc service.Service
}

func New(svc service.Service) *Seeder {
	return &Seeder{svc: svc}
}

// RandomDraft returns one valid draft with randomized fields.
func RandomDraft() post.Draft {
	return post.Draft{
		Title: randomdata.SillyName(),
		Author: post.Author{
			FirstName: randomdata.FirstName(randomdata.RandomGender),
			LastName:  randomdata.LastName(),
		},
		Content: randomdata.Paragraph(),
	}
}

// Seed inserts count random posts and returns them as stored.
func (s *Seeder) Seed(ctx context.Context, count int) ([]post.Post, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: seed count must be positive, got %d", post.ErrInvalid, count)
	}
	drafts := make([]post.Draft, count)
	for i := range drafts {
		drafts[i] = RandomDraft()
	}
	return s.svc.InsertMany(ctx, drafts)
}

// Reset removes every post from the store.
func (s *Seeder) Reset(ctx context.Context) error {
	return s.svc.Clear(ctx)
}
