package links

import "errors"

var (
	ErrNotFound      = errors.New("link not found")
	ErrDuplicateSlug = errors.New("slug already exists")

	// ErrSlugExhausted is the terminal failure after the generated-slug
	// retry budget is spent.
	ErrSlugExhausted = errors.New("failed to generate a unique slug")
)
