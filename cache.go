package portfolio

import (
	"context"
	"sync"
	"time"
)

// PostCache is an in-memory TTL cache over the configured store's post
// list, serving the public read path. Writes invalidate it explicitly.
type PostCache struct {
	mu      sync.RWMutex
	posts   []BlogPost
	fetched time.Time
	ttl     time.Duration
	store   PostStore
}

// NewPostCache creates a PostCache backed by store.
func NewPostCache(store PostStore, ttl time.Duration) *PostCache {
	return &PostCache{store: store, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// ListPosts returns the cached post list, newest first, reloading from the
// store when the cache is stale. It tries a read lock first and only takes
// the write lock when a reload is needed.
func (c *PostCache) ListPosts(ctx context.Context) ([]BlogPost, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.store.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []BlogPost{}
	}
	c.posts = posts
	c.fetched = time.Now()
	return posts, nil
}
