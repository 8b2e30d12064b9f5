// Package links holds the short-link entity and the slug lifecycle: creation
// with a caller-chosen slug, creation with a generated slug under a bounded
// collision-retry budget, and slug renames.
package links

import "time"

type Link struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	Slug              string    `gorm:"size:64;uniqueIndex;not null" json:"slug"`
	TargetURL         string    `gorm:"not null" json:"targetUrl"`
	UserID            string    `gorm:"size:36;index" json:"userId,omitempty"`
	PasswordProtected bool      `json:"passwordProtected"`
	PasswordHash      string    `gorm:"size:255" json:"-"` // never serialize
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
