// Package repogorm implements the user repository over a gorm-managed
// relational database.
package repogorm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	ierrors "github.com/lynkr/lynkr-server/internal/errors"
	"github.com/lynkr/lynkr-server/internal/utils"
	"github.com/lynkr/lynkr-server/users"
	"gorm.io/gorm"
)

var _ users.Repo = (*Repo)(nil)

type Repo struct {
	db *gorm.DB
}

// New creates the repository and migrates the users table.
func New(db *gorm.DB) (*Repo, error) {
	if db == nil {
		return nil, errors.New("[users repogorm.New] db is required")
	}
	if err := db.AutoMigrate(&users.User{}); err != nil {
		return nil, ierrors.Wrapf(err, "[users repogorm.New] auto migrate")
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Create(ctx context.Context, user *users.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	err := r.db.WithContext(ctx).Create(user).Error
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		switch {
		case strings.Contains(err.Error(), "email"):
			return users.ErrDuplicateEmail
		case strings.Contains(err.Error(), "username"):
			return users.ErrDuplicateUsername
		}
	}
	return ierrors.Wrapf(err, "[users repogorm.Create] insert")
}

func (r *Repo) GetByID(ctx context.Context, id string) (*users.User, error) {
	var user users.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, users.ErrNotFound
	}
	if err != nil {
		return nil, ierrors.Wrapf(err, "[users repogorm.GetByID] select")
	}
	return &user, nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	var user users.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, users.ErrNotFound
	}
	if err != nil {
		return nil, ierrors.Wrapf(err, "[users repogorm.GetByEmail] select")
	}
	return &user, nil
}

func (r *Repo) SetVerifiedByID(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&users.User{}).
		Where("id = ? AND verified = ?", id, false).
		Updates(map[string]any{
			"verified":    true,
			"verified_at": utils.Ptr(time.Now().UTC()),
		})
	if res.Error != nil {
		return 0, ierrors.Wrapf(res.Error, "[users repogorm.SetVerifiedByID] update")
	}
	return res.RowsAffected, nil
}

// isUniqueViolation matches unique-constraint errors across sqlite and
// postgres drivers without depending on driver-specific error types.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
