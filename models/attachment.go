package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attachment is an evidence document uploaded against a case
type Attachment struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CaseID      uuid.UUID `json:"case_id" gorm:"type:uuid;index;not null"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	Filename    string    `json:"filename" gorm:"not null"`
	MimeType    string    `json:"mime_type" gorm:"size:128"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"-" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
