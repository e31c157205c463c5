package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"legalaid-backend/logger"
	"legalaid-backend/models"
	"legalaid-backend/repository"
	"legalaid-backend/storage"

	"github.com/google/uuid"
)

var (
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrFileTooLarge       = errors.New("file exceeds the maximum upload size")
	ErrFileType           = errors.New("file type not allowed")
)

// MaxAttachmentSize is the largest accepted upload
const MaxAttachmentSize = 10 * 1024 * 1024

var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"text/plain":         true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/png":  true,
	"image/jpeg": true,
}

// AttachmentService stores evidence documents against cases
type AttachmentService struct {
	attachments *repository.AttachmentRepository
	cases       *repository.CaseRepository
	storage     storage.Storage
	log         *logger.Logger
}

func NewAttachmentService(attachments *repository.AttachmentRepository, cases *repository.CaseRepository, st storage.Storage, log *logger.Logger) *AttachmentService {
	if log == nil {
		log = logger.Nop()
	}
	return &AttachmentService{
		attachments: attachments,
		cases:       cases,
		storage:     st,
		log:         log.With("service", "AttachmentService"),
	}
}

// UploadRequest describes one uploaded file
type UploadRequest struct {
	CaseID   uuid.UUID
	Filename string
	MimeType string
	Size     int64
	Data     io.Reader
}

// Upload validates and stores a file for a case the user owns
func (s *AttachmentService) Upload(ctx context.Context, userID uuid.UUID, req UploadRequest) (*models.Attachment, error) {
	if s.storage == nil {
		return nil, ErrNoStorage
	}
	if req.Size > MaxAttachmentSize {
		return nil, ErrFileTooLarge
	}
	mimeType := NormalizeMimeType(req.MimeType, req.Filename)
	if !allowedMimeTypes[mimeType] {
		return nil, fmt.Errorf("%w: %s", ErrFileType, mimeType)
	}
	if _, err := s.cases.GetForUser(ctx, req.CaseID, userID); err != nil {
		return nil, caseErr(err)
	}

	a := &models.Attachment{
		ID:       uuid.New(),
		CaseID:   req.CaseID,
		UserID:   userID,
		Filename: req.Filename,
		MimeType: mimeType,
		Size:     req.Size,
	}
	path, err := s.storage.Upload(ctx, storage.Object{Kind: storage.KindAttachment, ID: a.ID, Filename: req.Filename}, req.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}
	a.StoragePath = path

	if err := s.attachments.Create(ctx, a); err != nil {
		if derr := s.storage.Delete(ctx, path); derr != nil {
			s.log.Warn("Failed to clean up uploaded file", "path", path, "error", derr)
		}
		return nil, fmt.Errorf("failed to save file record: %w", err)
	}
	s.log.Info("Attachment uploaded", "attachment_id", a.ID, "case_id", a.CaseID, "size", a.Size)
	return a, nil
}

func (s *AttachmentService) List(ctx context.Context, userID, caseID uuid.UUID) ([]*models.Attachment, error) {
	if _, err := s.cases.GetForUser(ctx, caseID, userID); err != nil {
		return nil, caseErr(err)
	}
	return s.attachments.ListByCaseID(ctx, caseID)
}

// Open returns the attachment record and a reader over its content
func (s *AttachmentService) Open(ctx context.Context, userID, id uuid.UUID) (*models.Attachment, io.ReadCloser, error) {
	if s.storage == nil {
		return nil, nil, ErrNoStorage
	}
	a, err := s.attachments.GetForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrAttachmentNotFound
		}
		return nil, nil, err
	}
	rc, err := s.storage.Download(ctx, a.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrAttachmentNotFound
		}
		return nil, nil, fmt.Errorf("failed to download file: %w", err)
	}
	return a, rc, nil
}

// NormalizeMimeType strips parameters and falls back to the file extension
func NormalizeMimeType(declared, filename string) string {
	mt := strings.ToLower(strings.TrimSpace(declared))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if mt == "" || mt == "application/octet-stream" {
		mt = storage.ContentType(filename)
	}
	return mt
}
