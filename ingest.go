package portfolio

import (
	"context"
	"fmt"
	"time"
)

// Ingestor turns raw post submissions into fully-populated, persisted blog
// posts: it derives a unique slug, computes the read time, fills defaults
// for absent fields, and writes through the configured store.
type Ingestor struct {
	store  PostStore
	author string
	now    func() time.Time
}

// NewIngestor creates an Ingestor writing through store. defaultAuthor is
// used for submissions that omit an author.
func NewIngestor(store PostStore, defaultAuthor string) *Ingestor {
	return &Ingestor{store: store, author: defaultAuthor, now: time.Now}
}

// CreatePost persists a new post built from sub and returns the stored
// record, including the server-assigned slug and read time, so the caller
// can display it without a follow-up read. Nothing is written until slug
// and read-time derivation have succeeded. A slug collision at the storage
// layer comes back as ErrDuplicateSlug.
func (ing *Ingestor) CreatePost(ctx context.Context, sub PostSubmission) (BlogPost, error) {
	slug, err := UniqueSlug(ctx, ing.store, sub.Title)
	if err != nil {
		return BlogPost{}, fmt.Errorf("resolve slug: %w", err)
	}

	now := ing.now().UTC()
	post := BlogPost{
		Slug:          slug,
		Title:         orDefault(sub.Title, "Untitled Post"),
		Excerpt:       sub.Excerpt,
		Date:          orDefault(sub.Date, now.Format("Jan 2, 2006")),
		ReadTime:      EstimateReadTime(sub.Content),
		FeaturedImage: sub.FeaturedImage,
		ImageAlt:      sub.ImageAlt,
		Author:        orDefault(sub.Author, ing.author),
		Tags:          sub.Tags,
		Content:       sub.Content,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	// Absent slices become empty, not null, in every encoded form.
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.Content == nil {
		post.Content = []ContentBlock{}
	}

	return ing.store.CreatePost(ctx, post)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
