package entity

import "github.com/google/uuid"

// Phone represents one contact number belonging to exactly one user.
// It has no identity or meaning outside that relationship; the UserID
// foreign key exists only for the persistence mapping.
type Phone struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Number      string    `gorm:"size:32;not null"`
	CityCode    string    `gorm:"size:8;not null"`
	CountryCode string    `gorm:"size:8;not null"`
}
