package users

import "time"

// RoleType represents a user role.
type RoleType string

const (
	RoleAdmin RoleType = "admin"
	RoleUser  RoleType = "user"
)

type User struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id,omitempty"`
	Name         string     `gorm:"size:255;not null" json:"name,omitempty"`
	Username     string     `gorm:"size:64;uniqueIndex;not null" json:"username,omitempty"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email,omitempty"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"` // never serialize
	Role         RoleType   `gorm:"size:32;not null;default:user" json:"role,omitempty"`
	Verified     bool       `json:"verified,omitempty"`
	VerifiedAt   *time.Time `json:"verifiedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt,omitempty"`
}

// SafeUser is the wire representation of a user: everything a client may see,
// nothing it may not.
type SafeUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Verified bool   `json:"isVerified"`
}

// Safe strips a User down to its client-visible fields.
func (u *User) Safe() SafeUser {
	return SafeUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Name:     u.Name,
		Verified: u.Verified,
	}
}
