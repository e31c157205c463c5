package repository

import (
	"context"

	"legalaid-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttachmentRepository handles database operations for case attachments
type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, a *models.Attachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// GetForUser retrieves an attachment uploaded by userID
func (r *AttachmentRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Attachment, error) {
	var a models.Attachment
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&a).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *AttachmentRepository) ListByCaseID(ctx context.Context, caseID uuid.UUID) ([]*models.Attachment, error) {
	out := []*models.Attachment{}
	err := r.db.WithContext(ctx).Where("case_id = ?", caseID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *AttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Attachment{}, "id = ?", id).Error
}
