package repository

import (
	"context"

	"legalaid-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseRepository handles database operations for cases
type CaseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

func (r *CaseRepository) Create(ctx context.Context, c *models.Case) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// GetForUser loads a case owned by userID together with its feedback
func (r *CaseRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Case, error) {
	var c models.Case
	err := r.db.WithContext(ctx).
		Preload("Feedback", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ListByUserID returns the user's cases newest first
func (r *CaseRepository) ListByUserID(ctx context.Context, userID uuid.UUID, status *models.CaseStatus, limit, offset int) ([]*models.Case, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	q = q.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	cases := []*models.Case{}
	if err := q.Find(&cases).Error; err != nil {
		return nil, err
	}
	return cases, nil
}

func (r *CaseRepository) UpdateStatus(ctx context.Context, id, userID uuid.UUID, status models.CaseStatus) error {
	return r.update(ctx, id, userID, "status", status)
}

func (r *CaseRepository) UpdateNextSteps(ctx context.Context, id, userID uuid.UUID, steps models.NextSteps) error {
	return r.update(ctx, id, userID, "next_steps", steps)
}

func (r *CaseRepository) UpdateDraftPath(ctx context.Context, id, userID uuid.UUID, path string) error {
	return r.update(ctx, id, userID, "draft_path", path)
}

func (r *CaseRepository) update(ctx context.Context, id, userID uuid.UUID, column string, value interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&models.Case{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
