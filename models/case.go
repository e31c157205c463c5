package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CaseStatus represents the lifecycle state of a case
type CaseStatus string

const (
	CaseStatusPending    CaseStatus = "pending"
	CaseStatusInProgress CaseStatus = "in_progress"
	CaseStatusResolved   CaseStatus = "resolved"
	CaseStatusClosed     CaseStatus = "closed"
)

// Valid reports whether s is a known status
func (s CaseStatus) Valid() bool {
	switch s {
	case CaseStatusPending, CaseStatusInProgress, CaseStatusResolved, CaseStatusClosed:
		return true
	}
	return false
}

// CasePriority is the user-declared urgency of a case
type CasePriority string

const (
	PriorityLow    CasePriority = "low"
	PriorityMedium CasePriority = "medium"
	PriorityHigh   CasePriority = "high"
)

func (p CasePriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Case is a persisted legal case together with its generated pipeline output
type Case struct {
	ID          uuid.UUID    `json:"case_id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID    `json:"user_id" gorm:"type:uuid;index;not null"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description" gorm:"type:text;not null"`
	Category    string       `json:"category" gorm:"index"`
	Location    string       `json:"location"`
	Priority    CasePriority `json:"priority" gorm:"size:16;not null;default:medium"`
	Status      CaseStatus   `json:"status" gorm:"size:32;index;not null;default:pending"`

	GeneratedDraft string        `json:"generated_draft" gorm:"type:text"`
	AIAnalysis     string        `json:"ai_analysis" gorm:"type:text"`
	AnalysisSource string        `json:"analysis_source" gorm:"size:16"`
	ApplicableLaws LawReferences `json:"applicable_laws"`
	SuggestedNGOs  NGORecords    `json:"suggested_ngos"`
	NextSteps      NextSteps     `json:"next_steps"`

	// Storage path of the last exported draft
	DraftPath *string        `json:"draft_path,omitempty"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`

	Feedback []Feedback `json:"feedback,omitempty" gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = CaseStatusPending
	}
	if c.Priority == "" {
		c.Priority = PriorityMedium
	}
	return nil
}

// Apply copies a pipeline result onto the case
func (c *Case) Apply(res CaseResult) {
	c.GeneratedDraft = res.Draft
	c.ApplicableLaws = res.ApplicableLaws
	c.SuggestedNGOs = res.SuggestedNGOs
	c.NextSteps = res.NextSteps
	c.AIAnalysis = res.AIAnalysis.Analysis
	c.AnalysisSource = res.AIAnalysis.Source
}
