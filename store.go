package portfolio

import (
	"context"
	"errors"
)

// Storage errors the HTTP layer maps to distinct status codes. Duplicate
// slugs are reported by the store itself: the slug generator's pre-check is
// an optimization, the store's uniqueness constraint is authoritative.
var (
	ErrDuplicateSlug     = errors.New("duplicate slug")
	ErrPostNotFound      = errors.New("post not found")
	ErrAlreadySubscribed = errors.New("already subscribed")
)

// SlugChecker is the slice of the store the slug generator needs.
type SlugChecker interface {
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// PostStore is the persistence contract shared by both backends. ListPosts
// returns posts newest first and never reorders a post's content blocks.
// CreatePost returns ErrDuplicateSlug when the slug is already taken.
type PostStore interface {
	SlugChecker
	ListPosts(ctx context.Context) ([]BlogPost, error)
	CreatePost(ctx context.Context, post BlogPost) (BlogPost, error)
	Close(ctx context.Context) error
}

// PostDeleter is an optional store capability. The flat-file backend does
// not implement it; callers discover support with a type assertion.
type PostDeleter interface {
	DeletePostBySlug(ctx context.Context, slug string) (BlogPost, error)
}
