package post

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a referenced post id is absent from the store.
	ErrNotFound = errors.New("post not found")
	// ErrInvalid is returned for malformed or incomplete post payloads.
	ErrInvalid = errors.New("invalid post data")
)

// Author is the structured byline of a post. It is stored as a pair and
// serialized for API reads as a single "First Last" string.
type Author struct {
	FirstName string `json:"firstName" bson:"firstName"`
	LastName  string `json:"lastName" bson:"lastName"`
}

// FullName renders the wire representation of the author.
func (a Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Post is the persistent blog-post model. ID and Created are assigned by the
// store at insertion and never change afterwards.
type Post struct {
	ID      string    `json:"id" bson:"_id"`
	Title   string    `json:"title" bson:"title"`
	Author  Author    `json:"author" bson:"author"`
	Content string    `json:"content" bson:"content"`
	Created time.Time `json:"created" bson:"created"`
}

// Draft is a post payload before the store has attached ID and Created.
type Draft struct {
	Title   string `json:"title"`
	Author  Author `json:"author"`
	Content string `json:"content"`
}

// Validate checks field presence only; content rules beyond non-emptiness are
// deliberately out of scope.
func (d Draft) Validate() error {
	switch {
	case d.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalid)
	case d.Author.FirstName == "":
		return fmt.Errorf("%w: author.firstName is required", ErrInvalid)
	case d.Author.LastName == "":
		return fmt.Errorf("%w: author.lastName is required", ErrInvalid)
	case d.Content == "":
		return fmt.Errorf("%w: content is required", ErrInvalid)
	}
	return nil
}

// AuthorPatch carries partial author changes; nil fields are left untouched.
type AuthorPatch struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

// Patch describes a partial update. Only non-nil fields are applied, and
// author sub-fields merge individually so the stored pair always keeps both
// name components.
type Patch struct {
	Title   *string      `json:"title,omitempty"`
	Content *string      `json:"content,omitempty"`
	Author  *AuthorPatch `json:"author,omitempty"`
}

// IsZero reports whether the patch would change nothing.
func (p Patch) IsZero() bool {
	return p.Title == nil && p.Content == nil &&
		(p.Author == nil || (p.Author.FirstName == nil && p.Author.LastName == nil))
}

// Validate rejects fields that are present but empty: a merge may replace
// title, content or a name component, never blank one out.
func (p Patch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalid)
	}
	if p.Content != nil && *p.Content == "" {
		return fmt.Errorf("%w: content must not be empty", ErrInvalid)
	}
	if p.Author != nil {
		if p.Author.FirstName != nil && *p.Author.FirstName == "" {
			return fmt.Errorf("%w: author.firstName must not be empty", ErrInvalid)
		}
		if p.Author.LastName != nil && *p.Author.LastName == "" {
			return fmt.Errorf("%w: author.lastName must not be empty", ErrInvalid)
		}
	}
	return nil
}

// Apply merges the patch into a copy of the given post and returns it.
func (p Patch) Apply(in Post) Post {
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Content != nil {
		in.Content = *p.Content
	}
	if p.Author != nil {
		if p.Author.FirstName != nil {
			in.Author.FirstName = *p.Author.FirstName
		}
		if p.Author.LastName != nil {
			in.Author.LastName = *p.Author.LastName
		}
	}
	return in
}
