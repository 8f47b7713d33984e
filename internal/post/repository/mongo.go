package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quillhq/quill/internal/post"
)

// MongoRepo stores posts in a MongoDB collection with the post id as _id, so
// uniqueness comes from the collection's primary index and every update or
// delete is a single-document atomic operation.
type MongoRepo struct {
	col *mongo.Collection
}

// NewMongoRepo wraps the given collection and ensures an index on "created"
// for ordered listings.
func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "created", Value: 1}}}
	col.Indexes().CreateOne(context.Background(), idxModel)
	return &MongoRepo{col: col}
}

func (m *MongoRepo) InsertMany(ctx context.Context, posts []post.Post) error {
	if len(posts) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(posts))
	for _, p := range posts {
		docs = append(docs, p)
	}
	_, err := m.col.InsertMany(ctx, docs)
	return err
}

func (m *MongoRepo) FindAll(ctx context.Context) ([]post.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []post.Post{}
	for cur.Next(ctx) {
		var p post.Post
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, cur.Err()
}

func (m *MongoRepo) FindByID(ctx context.Context, id string) (post.Post, error) {
	var p post.Post
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return post.Post{}, post.ErrNotFound
		}
		return post.Post{}, err
	}
	return p, nil
}

func (m *MongoRepo) UpdateByID(ctx context.Context, id string, patch post.Patch) (post.Post, error) {
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Author != nil {
		if patch.Author.FirstName != nil {
			set["author.firstName"] = *patch.Author.FirstName
		}
		if patch.Author.LastName != nil {
			set["author.lastName"] = *patch.Author.LastName
		}
	}
	if len(set) == 0 {
		return m.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated post.Post
	err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return post.Post{}, post.ErrNotFound
		}
		return post.Post{}, err
	}
	return updated, nil
}

func (m *MongoRepo) DeleteByID(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return post.ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Clear(ctx context.Context) error {
	_, err := m.col.DeleteMany(ctx, bson.M{})
	return err
}

func (m *MongoRepo) Ping(ctx context.Context) error {
	return m.col.Database().Client().Ping(ctx, nil)
}

// Close is a no-op; the mongo client's lifecycle belongs to whoever built the
// collection.
func (m *MongoRepo) Close() error { return nil }
