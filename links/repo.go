package links

import "context"

// Repo is the link store. Create must report a slug collision as
// ErrDuplicateSlug so the shortener can retry generated slugs.
type Repo interface {
	Create(ctx context.Context, link *Link) error
	GetBySlug(ctx context.Context, slug string) (*Link, error)
	GetByID(ctx context.Context, id string) (*Link, error)
	ListByUser(ctx context.Context, userID string) ([]*Link, error)

	// UpdateSlug renames a link owned by userID and returns the number of
	// rows updated. Zero rows means no such link for that owner.
	UpdateSlug(ctx context.Context, id, userID, newSlug string) (int64, error)
}
