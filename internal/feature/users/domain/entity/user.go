// Package entity defines the domain entities for the users feature.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account and the phones it owns.
// Timestamps are assigned explicitly by the usecase layer; the field names
// deliberately avoid GORM's CreatedAt/UpdatedAt auto-tracking convention.
type User struct {
	// ID is the unique identifier for the user, generated at creation.
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	// Name is the user's display name.
	Name string `gorm:"size:255;not null"`

	// Email is the user's email address.
	// It must be unique across all users; the unique index is the actual
	// enforcement mechanism under concurrent requests.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash of the user's password.
	// This never stores plaintext passwords.
	Password string `gorm:"size:255;not null"`

	// Phones is the list of phone records owned exclusively by this user.
	// The collection is replaced wholesale on update, never merged.
	Phones []Phone `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	// Created is the timestamp when the user was created. Set once.
	Created time.Time `gorm:"not null"`

	// Modified is the timestamp of the most recent mutating operation.
	Modified time.Time `gorm:"not null"`

	// LastLogin is set at creation and refreshed on explicit login.
	LastLogin time.Time `gorm:"not null"`

	// Token is the most recently issued signed JWT for this user.
	Token string `gorm:"size:1024;not null"`

	// Active is set to true at creation. No deactivation path exists.
	Active bool `gorm:"not null"`
}

// EmailChanged reports whether the given candidate email differs from the
// stored one. Comparison is exact-match; no case folding is performed.
func (u *User) EmailChanged(email string) bool {
	return u.Email != email
}
