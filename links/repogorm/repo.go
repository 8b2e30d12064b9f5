// Package repogorm implements the link repository over a gorm-managed
// relational database.
package repogorm

import (
	"context"
	"errors"
	"strings"

	ierrors "github.com/lynkr/lynkr-server/internal/errors"
	"github.com/lynkr/lynkr-server/links"
	"gorm.io/gorm"
)

var _ links.Repo = (*Repo)(nil)

type Repo struct {
	db *gorm.DB
}

// New creates the repository and migrates the links table.
func New(db *gorm.DB) (*Repo, error) {
	if db == nil {
		return nil, errors.New("[links repogorm.New] db is required")
	}
	if err := db.AutoMigrate(&links.Link{}); err != nil {
		return nil, ierrors.Wrapf(err, "[links repogorm.New] auto migrate")
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Create(ctx context.Context, link *links.Link) error {
	err := r.db.WithContext(ctx).Create(link).Error
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return links.ErrDuplicateSlug
	}
	return ierrors.Wrapf(err, "[links repogorm.Create] insert")
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (*links.Link, error) {
	var link links.Link
	err := r.db.WithContext(ctx).First(&link, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, links.ErrNotFound
	}
	if err != nil {
		return nil, ierrors.Wrapf(err, "[links repogorm.GetBySlug] select")
	}
	return &link, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*links.Link, error) {
	var link links.Link
	err := r.db.WithContext(ctx).First(&link, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, links.ErrNotFound
	}
	if err != nil {
		return nil, ierrors.Wrapf(err, "[links repogorm.GetByID] select")
	}
	return &link, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]*links.Link, error) {
	var list []*links.Link
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, ierrors.Wrapf(err, "[links repogorm.ListByUser] select")
	}
	return list, nil
}

func (r *Repo) UpdateSlug(ctx context.Context, id, userID, newSlug string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&links.Link{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("slug", newSlug)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return 0, links.ErrDuplicateSlug
		}
		return 0, ierrors.Wrapf(res.Error, "[links repogorm.UpdateSlug] update")
	}
	return res.RowsAffected, nil
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
