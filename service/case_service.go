package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"legalaid-backend/logger"
	"legalaid-backend/models"
	"legalaid-backend/repository"
	"legalaid-backend/storage"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	ErrCaseNotFound  = errors.New("case not found")
	ErrInvalidStatus = errors.New("invalid case status")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrDraftMissing  = errors.New("case has no generated draft")
	ErrNoStorage     = errors.New("file storage not configured")
)

// CasePipeline produces the generated content for a case request
type CasePipeline interface {
	Process(ctx context.Context, req models.CaseRequest) models.CaseResult
}

// CaseRecorder counts persisted cases
type CaseRecorder interface {
	CaseCreated()
}

// CaseService handles business logic for legal cases
type CaseService struct {
	caseRepo     *repository.CaseRepository
	feedbackRepo *repository.FeedbackRepository
	pipeline     CasePipeline
	storage      storage.Storage
	recorder     CaseRecorder
	log          *logger.Logger
}

// CaseServiceOption is a functional option for CaseService
type CaseServiceOption func(*CaseService)

func CaseWithRepository(repo *repository.CaseRepository) CaseServiceOption {
	return func(s *CaseService) {
		s.caseRepo = repo
	}
}

func CaseWithFeedbackRepository(repo *repository.FeedbackRepository) CaseServiceOption {
	return func(s *CaseService) {
		s.feedbackRepo = repo
	}
}

func CaseWithPipeline(p CasePipeline) CaseServiceOption {
	return func(s *CaseService) {
		s.pipeline = p
	}
}

func CaseWithStorage(st storage.Storage) CaseServiceOption {
	return func(s *CaseService) {
		s.storage = st
	}
}

func CaseWithRecorder(r CaseRecorder) CaseServiceOption {
	return func(s *CaseService) {
		s.recorder = r
	}
}

func CaseWithLogger(log *logger.Logger) CaseServiceOption {
	return func(s *CaseService) {
		s.log = log
	}
}

func NewCaseService(opts ...CaseServiceOption) *CaseService {
	s := &CaseService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	s.log = s.log.With("service", "CaseService")
	return s
}

// CreateCaseRequest represents a request to file a new case
type CreateCaseRequest struct {
	Title       string
	Description string
	Category    string
	Priority    models.CasePriority
	Location    string
}

// CreateCase runs the pipeline for the request and persists the result
func (s *CaseService) CreateCase(ctx context.Context, user *models.User, req CreateCaseRequest) (*models.Case, error) {
	if req.Priority != "" && !req.Priority.Valid() {
		return nil, fmt.Errorf("invalid priority: %s", req.Priority)
	}
	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = user.DefaultLocation()
	}

	result := s.pipeline.Process(ctx, models.CaseRequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    location,
	})

	c := &models.Case{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    location,
		Priority:    req.Priority,
		Status:      models.CaseStatusPending,
		Metadata:    caseMetadata(req),
	}
	c.Apply(result)

	if err := s.caseRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save case: %w", err)
	}
	if s.recorder != nil {
		s.recorder.CaseCreated()
	}
	s.log.Info("Case created", "case_id", c.ID, "user_id", user.ID, "category", c.Category)
	return c, nil
}

func caseMetadata(req CreateCaseRequest) datatypes.JSON {
	meta := map[string]interface{}{
		"submitted_category": req.Category,
		"location_provided":  strings.TrimSpace(req.Location) != "",
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

// GenerateResult is the unsaved output of a one-off pipeline run
type GenerateResult struct {
	CaseID         uuid.UUID            `json:"case_id"`
	Title          string               `json:"title"`
	Category       string               `json:"category"`
	Draft          string               `json:"draft"`
	ApplicableLaws models.LawReferences `json:"applicable_laws"`
	SuggestedNGOs  models.NGORecords    `json:"suggested_ngos"`
	NextSteps      models.NextSteps     `json:"next_steps"`
	AIAnalysis     models.AIAnalysis    `json:"ai_analysis"`
}

// GenerateCase runs the pipeline without persisting anything
func (s *CaseService) GenerateCase(ctx context.Context, user *models.User, req models.CaseRequest) *GenerateResult {
	if strings.TrimSpace(req.Location) == "" {
		req.Location = user.DefaultLocation()
	}
	res := s.pipeline.Process(ctx, req)
	return &GenerateResult{
		CaseID:         uuid.New(),
		Title:          req.Title,
		Category:       req.Category,
		Draft:          res.Draft,
		ApplicableLaws: res.ApplicableLaws,
		SuggestedNGOs:  res.SuggestedNGOs,
		NextSteps:      res.NextSteps,
		AIAnalysis:     res.AIAnalysis,
	}
}

// ListCasesRequest filters and pages a user's cases
type ListCasesRequest struct {
	Status string
	Skip   int
	Limit  int
}

func (s *CaseService) ListCases(ctx context.Context, userID uuid.UUID, req ListCasesRequest) ([]*models.Case, error) {
	var status *models.CaseStatus
	if req.Status != "" {
		st := models.CaseStatus(req.Status)
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
		status = &st
	}
	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.caseRepo.ListByUserID(ctx, userID, status, limit, req.Skip)
}

func (s *CaseService) GetCase(ctx context.Context, userID, caseID uuid.UUID) (*models.Case, error) {
	c, err := s.caseRepo.GetForUser(ctx, caseID, userID)
	if err != nil {
		return nil, caseErr(err)
	}
	return c, nil
}

// UpdateStatus moves a case to one of the known statuses
func (s *CaseService) UpdateStatus(ctx context.Context, userID, caseID uuid.UUID, status string) (*models.Case, error) {
	st := models.CaseStatus(status)
	if !st.Valid() {
		return nil, ErrInvalidStatus
	}
	if err := s.caseRepo.UpdateStatus(ctx, caseID, userID, st); err != nil {
		return nil, caseErr(err)
	}
	s.log.Info("Case status updated", "case_id", caseID, "status", st)
	return s.GetCase(ctx, userID, caseID)
}

// AddFeedback records a 1..5 rating for a case the user owns
func (s *CaseService) AddFeedback(ctx context.Context, userID, caseID uuid.UUID, rating int, comments *string) (*models.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if _, err := s.GetCase(ctx, userID, caseID); err != nil {
		return nil, err
	}
	f := &models.Feedback{CaseID: caseID, UserID: userID, Rating: rating, Comments: comments}
	if err := s.feedbackRepo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}
	return f, nil
}

func (s *CaseService) GetNextSteps(ctx context.Context, userID, caseID uuid.UUID) (models.NextSteps, error) {
	c, err := s.GetCase(ctx, userID, caseID)
	if err != nil {
		return nil, err
	}
	if c.NextSteps == nil {
		return models.NextSteps{}, nil
	}
	return c.NextSteps, nil
}

// ReplaceNextSteps overwrites the stored checklist
func (s *CaseService) ReplaceNextSteps(ctx context.Context, userID, caseID uuid.UUID, steps []string) (models.NextSteps, error) {
	clean := models.NextSteps{}
	for _, step := range steps {
		if t := strings.TrimSpace(step); t != "" {
			clean = append(clean, t)
		}
	}
	if err := s.caseRepo.UpdateNextSteps(ctx, caseID, userID, clean); err != nil {
		return nil, caseErr(err)
	}
	return clean, nil
}

// ExportDraft writes the stored draft to file storage as <title>.txt
func (s *CaseService) ExportDraft(ctx context.Context, userID, caseID uuid.UUID) (*models.Case, error) {
	if s.storage == nil {
		return nil, ErrNoStorage
	}
	c, err := s.GetCase(ctx, userID, caseID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.GeneratedDraft) == "" {
		return nil, ErrDraftMissing
	}

	obj := storage.Object{Kind: storage.KindDraft, ID: c.ID, Filename: DraftFilename(c)}
	path, err := s.storage.Upload(ctx, obj, strings.NewReader(c.GeneratedDraft))
	if err != nil {
		return nil, fmt.Errorf("failed to store draft: %w", err)
	}
	if c.DraftPath != nil && *c.DraftPath != path {
		if err := s.storage.Delete(ctx, *c.DraftPath); err != nil {
			s.log.Warn("Failed to remove previous draft export", "path", *c.DraftPath, "error", err)
		}
	}
	if err := s.caseRepo.UpdateDraftPath(ctx, c.ID, userID, path); err != nil {
		return nil, caseErr(err)
	}
	c.DraftPath = &path
	s.log.Info("Draft exported", "case_id", c.ID, "path", path)
	return c, nil
}

// DownloadDraft opens the last exported draft
func (s *CaseService) DownloadDraft(ctx context.Context, userID, caseID uuid.UUID) (io.ReadCloser, string, error) {
	if s.storage == nil {
		return nil, "", ErrNoStorage
	}
	c, err := s.GetCase(ctx, userID, caseID)
	if err != nil {
		return nil, "", err
	}
	if c.DraftPath == nil || *c.DraftPath == "" {
		return nil, "", ErrDraftMissing
	}
	rc, err := s.storage.Download(ctx, *c.DraftPath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", ErrDraftMissing
		}
		return nil, "", fmt.Errorf("failed to read draft: %w", err)
	}
	return rc, DraftFilename(c), nil
}

// DraftFilename is the download name for a case's draft
func DraftFilename(c *models.Case) string {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		title = "draft"
	}
	return title + ".txt"
}

func caseErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCaseNotFound
	}
	return err
}
