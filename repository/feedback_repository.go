package repository

import (
	"context"

	"legalaid-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedbackRepository handles database operations for case feedback
type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(ctx context.Context, f *models.Feedback) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FeedbackRepository) ListByCaseID(ctx context.Context, caseID uuid.UUID) ([]*models.Feedback, error) {
	out := []*models.Feedback{}
	err := r.db.WithContext(ctx).Where("case_id = ?", caseID).Order("created_at ASC").Find(&out).Error
	return out, err
}
