package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"legalaid-backend/logger"
	"legalaid-backend/middleware"
	"legalaid-backend/models"
	"legalaid-backend/service"

	"github.com/gin-gonic/gin"
)

// CaseHandler handles HTTP requests for cases
type CaseHandler struct {
	cases *service.CaseService
	chat  *service.ChatService
	log   *logger.Logger
}

func NewCaseHandler(cases *service.CaseService, chat *service.ChatService, log *logger.Logger) *CaseHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &CaseHandler{cases: cases, chat: chat, log: log.With("handler", "CaseHandler")}
}

// CreateCaseRequest represents the request body for filing a case
type CreateCaseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
	Location    string `json:"location"`
}

// CreateCase handles POST /api/cases
func (h *CaseHandler) CreateCase(c *gin.Context) {
	var req CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	created, err := h.cases.CreateCase(c.Request.Context(), middleware.CurrentUser(c), service.CreateCaseRequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    models.CasePriority(req.Priority),
		Location:    req.Location,
	})
	if err != nil {
		h.log.Error("Failed to create case", "error", err)
		respondError(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create case")
		return
	}
	respondOK(c, http.StatusCreated, created)
}

// GenerateCaseRequest represents the request body for a one-off generation
type GenerateCaseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Location    string `json:"location"`
}

// GenerateCase handles POST /api/cases/generate
func (h *CaseHandler) GenerateCase(c *gin.Context) {
	var req GenerateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	res := h.cases.GenerateCase(c.Request.Context(), middleware.CurrentUser(c), models.CaseRequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
	})
	respondOK(c, http.StatusOK, res)
}

// ListCases handles GET /api/cases
func (h *CaseHandler) ListCases(c *gin.Context) {
	skip, err1 := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, err2 := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err1 != nil || err2 != nil || skip < 0 || limit < 0 {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "skip and limit must be non-negative integers")
		return
	}

	cases, err := h.cases.ListCases(c.Request.Context(), middleware.CurrentUser(c).ID, service.ListCasesRequest{
		Status: c.Query("status"),
		Skip:   skip,
		Limit:  limit,
	})
	if err != nil {
		h.caseError(c, err)
		return
	}
	respondOK(c, http.StatusOK, cases)
}

// GetCase handles GET /api/cases/:id
func (h *CaseHandler) GetCase(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	found, err := h.cases.GetCase(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		h.caseError(c, err)
		return
	}
	respondOK(c, http.StatusOK, found)
}

// UpdateStatusRequest represents the request body for a status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/cases/:id
func (h *CaseHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	updated, err := h.cases.UpdateStatus(c.Request.Context(), middleware.CurrentUser(c).ID, id, req.Status)
	if err != nil {
		h.caseError(c, err)
		return
	}
	respondOK(c, http.StatusOK, updated)
}

// FeedbackRequest represents the request body for rating a case
type FeedbackRequest struct {
	Rating   int     `json:"rating" binding:"required"`
	Comments *string `json:"comments"`
}

// AddFeedback handles POST /api/cases/:id/feedback
func (h *CaseHandler) AddFeedback(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	fb, err := h.cases.AddFeedback(c.Request.Context(), middleware.CurrentUser(c).ID, id, req.Rating, req.Comments)
	if err != nil {
		h.caseError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, fb)
}

// GetNextSteps handles GET /api/cases/:id/next-steps
func (h *CaseHandler) GetNextSteps(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	steps, err := h.cases.GetNextSteps(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		h.caseError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"steps": steps})
}

// NextStepsRequest represents the request body for replacing next steps
type NextStepsRequest struct {
	Steps []string `json:"steps" binding:"required"`
}

// ReplaceNextSteps handles POST /api/cases/:id/next-steps
func (h *CaseHandler) ReplaceNextSteps(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req NextStepsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	steps, err := h.cases.ReplaceNextSteps(c.Request.Context(), middleware.CurrentUser(c).ID, id, req.Steps)
	if err != nil {
		h.caseError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"steps": steps})
}

// ExportDraft handles POST /api/cases/:id/draft/export
func (h *CaseHandler) ExportDraft(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	exported, err := h.cases.ExportDraft(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		h.caseError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"case_id":    exported.ID,
		"draft_path": exported.DraftPath,
		"filename":   service.DraftFilename(exported),
	})
}

// DownloadDraft handles GET /api/cases/:id/draft/download
func (h *CaseHandler) DownloadDraft(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rc, filename, err := h.cases.DownloadDraft(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		h.caseError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", attachmentDisposition(filename))
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.log.Warn("Draft download interrupted", "case_id", id, "error", err)
	}
}

// ChatRequest represents the request body for a chat message
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Chat handles POST /api/cases/chat
func (h *CaseHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	reply := h.chat.Chat(c.Request.Context(), middleware.CurrentUser(c).ID, req.Message)
	respondOK(c, http.StatusOK, gin.H{"response": reply})
}

func (h *CaseHandler) caseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCaseNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Case not found")
	case errors.Is(err, service.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, "INVALID_STATUS", "Status must be one of pending, in_progress, resolved, closed")
	case errors.Is(err, service.ErrInvalidRating):
		respondError(c, http.StatusBadRequest, "INVALID_RATING", err.Error())
	case errors.Is(err, service.ErrDraftMissing):
		respondError(c, http.StatusConflict, "DRAFT_MISSING", "Case has no generated draft")
	case errors.Is(err, service.ErrNoStorage):
		respondError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", err.Error())
	default:
		h.log.Error("Case request failed", "path", c.FullPath(), "error", err)
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Request failed")
	}
}
