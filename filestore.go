package portfolio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var _ PostStore = (*FileStore)(nil)

// FileStore persists blog posts as line-delimited JSON in a single file,
// newest first, for environments without a database. Writes go to a temp
// file in the same directory and replace the artifact with a rename, so a
// crashed write never leaves a half-written file. A mutex serializes
// writers within the process; concurrent writers from other processes are
// not supported.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore opens (or creates) the post file at path, creating the data
// directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return nil, fmt.Errorf("create post file: %w", err)
		}
	} else if err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

// ListPosts re-reads the whole file and returns its records in file order,
// which is newest first because CreatePost prepends.
func (s *FileStore) ListPosts(ctx context.Context) ([]BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// ExistsBySlug reports whether a stored post has the given slug.
func (s *FileStore) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts, err := s.load()
	if err != nil {
		return false, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

// CreatePost prepends the record and rewrites the file. The duplicate check
// runs under the write lock, so within this process it is authoritative.
func (s *FileStore) CreatePost(ctx context.Context, post BlogPost) (BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.load()
	if err != nil {
		return BlogPost{}, err
	}
	for _, p := range posts {
		if p.Slug == post.Slug {
			return BlogPost{}, ErrDuplicateSlug
		}
	}
	if err := s.write(append([]BlogPost{post}, posts...)); err != nil {
		return BlogPost{}, err
	}
	return post, nil
}

// Close is a no-op; the file is not held open between calls.
func (s *FileStore) Close(ctx context.Context) error {
	return nil
}

func (s *FileStore) load() ([]BlogPost, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open post file: %w", err)
	}
	defer f.Close()

	var posts []BlogPost
	sc := bufio.NewScanner(f)
	// Posts hold whole article bodies; the default token limit is too small.
	sc.Buffer(make([]byte, 0, 64*1024), 8<<20)
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var p BlogPost
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("parse post record at line %d: %w", line, err)
		}
		posts = append(posts, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read post file: %w", err)
	}
	return posts, nil
}

func (s *FileStore) write(posts []BlogPost) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".posts-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	for i := range posts {
		if err := enc.Encode(posts[i]); err != nil {
			tmp.Close()
			return fmt.Errorf("encode post record: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace post file: %w", err)
	}
	return nil
}
