package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback is a user's rating of the generated output for a case
type Feedback struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CaseID    uuid.UUID `json:"case_id" gorm:"type:uuid;index;not null"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comments  *string   `json:"comments,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
