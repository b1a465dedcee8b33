package portfolio

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SiteStore wraps the local SQLite database holding site data that is not
// blog content: newsletter subscribers and uploaded-image metadata.
type SiteStore struct {
	db *sql.DB
}

// NewSiteStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and runs schema migrations.
func NewSiteStore(path string) (*SiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write access, busy timeout so writers wait
	// instead of failing with SQLITE_BUSY; synchronous=NORMAL is safe with
	// WAL and avoids an fsync per transaction.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &SiteStore{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SiteStore) Close() error {
	return s.db.Close()
}

func (s *SiteStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS subscribers (
    email TEXT PRIMARY KEY,
    subscribed_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

// Subscribe records a newsletter signup. A repeat signup for the same
// address returns ErrAlreadySubscribed.
func (s *SiteStore) Subscribe(email string) error {
	_, err := s.db.Exec(`INSERT INTO subscribers (email, subscribed_at) VALUES (?, ?)`,
		email, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
			return ErrAlreadySubscribed
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}

// ListSubscribers returns all subscribers, newest first.
func (s *SiteStore) ListSubscribers() ([]Subscriber, error) {
	rows, err := s.db.Query(`SELECT email, subscribed_at FROM subscribers ORDER BY subscribed_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Subscriber
	for rows.Next() {
		var email, at string
		if err := rows.Scan(&email, &at); err != nil {
			return nil, err
		}
		sub := Subscriber{Email: email}
		if t, err := time.Parse(time.RFC3339, at); err == nil {
			sub.SubscribedAt = t
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// SaveImage upserts uploaded-image metadata.
func (s *SiteStore) SaveImage(img Image) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO images (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// ListImages returns uploaded-image metadata, newest first.
func (s *SiteStore) ListImages() ([]Image, error) {
	rows, err := s.db.Query(`SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage removes an image metadata row by filename.
func (s *SiteStore) DeleteImage(filename string) error {
	_, err := s.db.Exec(`DELETE FROM images WHERE filename = ?`, filename)
	return err
}
