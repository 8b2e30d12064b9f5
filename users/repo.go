package users

import "context"

// Repo is the user store. Create must report duplicate email and duplicate
// username as the distinct sentinel errors below so callers can conflict on
// the former and retry the latter.
type Repo interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)

	// SetVerifiedByID marks a not-yet-verified user as verified and
	// returns the number of rows updated. Zero rows means the user was
	// already verified (or gone) and is not an error.
	SetVerifiedByID(ctx context.Context, id string) (int64, error)
}
