package post

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh opaque post id. ObjectID hex keeps ids unique and
// roughly time-ordered under every backend, mongo included.
func NewID() string {
	return primitive.NewObjectID().Hex()
}
