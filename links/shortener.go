package links

import (
	"context"

	"github.com/google/uuid"
	"github.com/lynkr/lynkr-server/auth"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Shortener creates short links on top of a Repo. Generated slugs come from
// the same unambiguous alphabet as session identifiers.
type Shortener struct {
	repo        Repo
	slugLength  int
	maxAttempts int
}

// NewShortener initializes a Shortener. slugLength and maxAttempts bound
// generated slugs and the collision-retry loop.
func NewShortener(repo Repo, slugLength, maxAttempts int) (*Shortener, error) {
	if repo == nil {
		return nil, errors.New("[NewShortener] link repo is required")
	}
	if slugLength <= 0 || maxAttempts <= 0 {
		return nil, errors.New("[NewShortener] slugLength and maxAttempts must be positive")
	}
	return &Shortener{repo: repo, slugLength: slugLength, maxAttempts: maxAttempts}, nil
}

// CreateCustom inserts a link with the slug already set on it. A collision is
// the caller's problem (ErrDuplicateSlug); there is nothing to retry.
func (s *Shortener) CreateCustom(ctx context.Context, link *Link) error {
	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	return s.repo.Create(ctx, link)
}

// CreateGenerated fills in a generated slug and inserts the link, retrying on
// slug collisions up to the configured budget before giving up with
// ErrSlugExhausted.
func (s *Shortener) CreateGenerated(ctx context.Context, link *Link) error {
	if link.ID == "" {
		link.ID = uuid.New().String()
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		slug, err := auth.GenerateSecureRandomString(s.slugLength)
		if err != nil {
			return errors.Wrap(err, "[Shortener.CreateGenerated] generate slug")
		}

		link.Slug = slug
		err = s.repo.Create(ctx, link)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrDuplicateSlug) {
			return err
		}
		log.Warn().Int("attempt", attempt).Str("slug", slug).Msg("slug collision, retrying")
	}

	return ErrSlugExhausted
}
