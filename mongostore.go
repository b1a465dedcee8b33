package portfolio

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	_ PostStore   = (*MongoStore)(nil)
	_ PostDeleter = (*MongoStore)(nil)
)

// MongoStore persists blog posts in a MongoDB collection. A unique index on
// slug is ensured at startup and is the authoritative uniqueness guarantee;
// the application-level slug pre-check only reduces how often the index has
// to reject a write. The store owns its client and must be closed.
type MongoStore struct {
	client *mongo.Client
	posts  *mongo.Collection
}

// NewMongoStore connects to uri, verifies the connection, and ensures the
// slug index on the blogposts collection of the named database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	s := &MongoStore{
		client: client,
		posts:  client.Database(database).Collection("blogposts"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure slug index: %w", err)
	}
	return nil
}

// ListPosts returns all posts sorted by creation time descending.
func (s *MongoStore) ListPosts(ctx context.Context) ([]BlogPost, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.posts.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	var posts []BlogPost
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

// ExistsBySlug reports whether a post with the slug exists.
func (s *MongoStore) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	opts := options.Count().SetLimit(1)
	n, err := s.posts.CountDocuments(ctx, bson.D{{Key: "slug", Value: slug}}, opts)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return n > 0, nil
}

// CreatePost inserts the record. A unique-index rejection (two requests
// racing to the same slug) is translated to ErrDuplicateSlug.
func (s *MongoStore) CreatePost(ctx context.Context, post BlogPost) (BlogPost, error) {
	if _, err := s.posts.InsertOne(ctx, post); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return BlogPost{}, ErrDuplicateSlug
		}
		return BlogPost{}, fmt.Errorf("insert post: %w", err)
	}
	return post, nil
}

// DeletePostBySlug removes the post with the slug and returns it, or
// ErrPostNotFound when no such post exists.
func (s *MongoStore) DeletePostBySlug(ctx context.Context, slug string) (BlogPost, error) {
	var post BlogPost
	err := s.posts.FindOneAndDelete(ctx, bson.D{{Key: "slug", Value: slug}}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return BlogPost{}, ErrPostNotFound
	}
	if err != nil {
		return BlogPost{}, fmt.Errorf("delete post: %w", err)
	}
	return post, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
