package portfolio

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// Slugify derives the base slug for a title: lowercase, runs of whitespace
// collapsed to a single hyphen, every other character outside [a-z0-9-]
// dropped. Leading and trailing whitespace becomes a hyphen like any other
// run, so degenerate titles can produce leading or trailing hyphens, and a
// symbols-only title produces an empty base slug.
func Slugify(title string) string {
	title = strings.ToLower(title)
	var b strings.Builder
	inRun := false
	for _, r := range title {
		if unicode.IsSpace(r) {
			if !inRun {
				b.WriteByte('-')
				inRun = true
			}
			continue
		}
		inRun = false
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// UniqueSlug resolves a title to a slug unused by any stored post. An empty
// title falls back to "untitled-post". Starting from the base slug it
// appends -1, -2, ... until the store reports the candidate free.
//
// The loop is check-then-act and therefore racy across concurrent creates;
// the store's uniqueness constraint is the authoritative guard, and
// CreatePost surfaces the collision as ErrDuplicateSlug.
func UniqueSlug(ctx context.Context, store SlugChecker, title string) (string, error) {
	base := "untitled-post"
	if title != "" {
		base = Slugify(title)
	}
	slug := base
	for n := 1; ; n++ {
		taken, err := store.ExistsBySlug(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", slug, err)
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}
