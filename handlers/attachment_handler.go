package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"legalaid-backend/logger"
	"legalaid-backend/middleware"
	"legalaid-backend/service"

	"github.com/gin-gonic/gin"
)

// AttachmentHandler handles HTTP requests for case attachments
type AttachmentHandler struct {
	attachments *service.AttachmentService
	log         *logger.Logger
}

func NewAttachmentHandler(attachments *service.AttachmentService, log *logger.Logger) *AttachmentHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AttachmentHandler{attachments: attachments, log: log.With("handler", "AttachmentHandler")}
}

// Upload handles POST /api/cases/:id/attachments
func (h *AttachmentHandler) Upload(c *gin.Context) {
	caseID, ok := parseID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "File is required")
		return
	}
	if fileHeader.Size > service.MaxAttachmentSize {
		respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE",
			fmt.Sprintf("File size exceeds maximum of %d bytes", service.MaxAttachmentSize))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_OPEN_ERROR", err.Error())
		return
	}
	defer file.Close()

	a, err := h.attachments.Upload(c.Request.Context(), middleware.CurrentUser(c).ID, service.UploadRequest{
		CaseID:   caseID,
		Filename: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Size:     fileHeader.Size,
		Data:     file,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCaseNotFound):
			respondError(c, http.StatusNotFound, "NOT_FOUND", "Case not found")
		case errors.Is(err, service.ErrFileTooLarge):
			respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE", err.Error())
		case errors.Is(err, service.ErrFileType):
			respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "File type not allowed. Allowed types: PDF, TXT, DOC, DOCX, PNG, JPEG")
		case errors.Is(err, service.ErrNoStorage):
			respondError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", err.Error())
		default:
			h.log.Error("Attachment upload failed", "error", err)
			respondError(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to upload file")
		}
		return
	}
	respondOK(c, http.StatusCreated, a)
}

// List handles GET /api/cases/:id/attachments
func (h *AttachmentHandler) List(c *gin.Context) {
	caseID, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.attachments.List(c.Request.Context(), middleware.CurrentUser(c).ID, caseID)
	if err != nil {
		if errors.Is(err, service.ErrCaseNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "Case not found")
			return
		}
		h.log.Error("Attachment list failed", "error", err)
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list attachments")
		return
	}
	respondOK(c, http.StatusOK, list)
}

// Download handles GET /api/attachments/:id
func (h *AttachmentHandler) Download(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	a, reader, err := h.attachments.Open(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAttachmentNotFound):
			respondError(c, http.StatusNotFound, "NOT_FOUND", "File not found")
		case errors.Is(err, service.ErrNoStorage):
			respondError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", err.Error())
		default:
			h.log.Error("Attachment download failed", "attachment_id", id, "error", err)
			respondError(c, http.StatusInternalServerError, "DOWNLOAD_FAILED", "Failed to download file")
		}
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, a.Size, a.MimeType, reader, map[string]string{
		"Content-Disposition": attachmentDisposition(a.Filename),
	})
}
