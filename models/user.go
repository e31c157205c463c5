package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered platform user
type User struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username       string    `json:"username" gorm:"size:64;uniqueIndex;not null"`
	Email          string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	HashedPassword string    `json:"-" gorm:"not null"` // Never serialize password hash
	FullName       string    `json:"full_name"`
	Phone          *string   `json:"phone,omitempty"`
	Location       *string   `json:"location,omitempty"`
	IsActive       bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DefaultLocation returns the user's location or "" when unset
func (u *User) DefaultLocation() string {
	if u == nil || u.Location == nil {
		return ""
	}
	return *u.Location
}
