package models

import (
	"database/sql/driver"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// CaseRequest is the input of the case-generation pipeline
type CaseRequest struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
	Location    string `json:"location,omitempty" yaml:"location,omitempty"`
}

// LawReference is a statute reference from the static law table
type LawReference struct {
	Act         string `json:"act" yaml:"act"`
	Section     string `json:"section" yaml:"section"`
	Description string `json:"description" yaml:"description"`
	Penalty     string `json:"penalty" yaml:"penalty"`
}

// NGORecord is an organisation from the static NGO directory
type NGORecord struct {
	Name     string   `json:"name" yaml:"name"`
	Contact  string   `json:"contact" yaml:"contact"`
	Email    string   `json:"email" yaml:"email"`
	Address  string   `json:"address" yaml:"address"`
	Services []string `json:"services" yaml:"services"`
	Website  string   `json:"website" yaml:"website"`
}

// Analysis sources
const (
	AnalysisSourceGemini = "gemini"
	AnalysisSourceError  = "error"
)

// AIAnalysis is the collaborator's free-text analysis of a case
type AIAnalysis struct {
	Analysis string `json:"analysis"`
	Source   string `json:"source"`
}

// CaseResult is the complete output of one pipeline run
type CaseResult struct {
	Draft          string        `json:"draft"`
	ApplicableLaws LawReferences `json:"applicable_laws"`
	SuggestedNGOs  NGORecords    `json:"suggested_ngos"`
	NextSteps      NextSteps     `json:"next_steps"`
	AIAnalysis     AIAnalysis    `json:"ai_analysis"`
}

// LawReferences is stored as a JSON array column
type LawReferences []LawReference

// NGORecords is stored as a JSON array column
type NGORecords []NGORecord

// NextSteps is stored as a JSON array of strings
type NextSteps []string

func (l LawReferences) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return jsonValue(l)
}

func (n NGORecords) Value() (driver.Value, error) {
	if n == nil {
		return "[]", nil
	}
	return jsonValue(n)
}

func (s NextSteps) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return jsonValue(s)
}

func (LawReferences) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return jsonColumnType(db)
}

func (NGORecords) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return jsonColumnType(db)
}

func (NextSteps) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return jsonColumnType(db)
}

// Scan implements sql.Scanner; malformed JSON yields an empty list
func (l *LawReferences) Scan(value interface{}) error {
	out := make(LawReferences, 0)
	if b := scanBytes(value); len(b) > 0 {
		if err := json.Unmarshal(b, &out); err != nil {
			warnMalformed("applicable_laws", err)
			out = nil
		}
	}
	if out == nil {
		out = make(LawReferences, 0)
	}
	*l = out
	return nil
}

// Scan implements sql.Scanner; malformed JSON yields an empty list
func (n *NGORecords) Scan(value interface{}) error {
	out := make(NGORecords, 0)
	if b := scanBytes(value); len(b) > 0 {
		if err := json.Unmarshal(b, &out); err != nil {
			warnMalformed("suggested_ngos", err)
			out = nil
		}
	}
	if out == nil {
		out = make(NGORecords, 0)
	}
	*n = out
	return nil
}

// Scan implements sql.Scanner. Besides a plain string array it accepts the
// older [{"step": "...", "actions": ["..."]}] shape, flattened step first.
func (s *NextSteps) Scan(value interface{}) error {
	b := scanBytes(value)
	if len(b) == 0 {
		*s = make(NextSteps, 0)
		return nil
	}
	steps, err := ParseNextSteps(b)
	if err != nil {
		warnMalformed("next_steps", err)
	}
	*s = steps
	return nil
}

// ParseNextSteps decodes a stored next-steps array, never returning a nil slice
func ParseNextSteps(b []byte) (NextSteps, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return make(NextSteps, 0), err
	}

	out := make(NextSteps, 0, len(raw))
	for _, item := range raw {
		var str string
		if err := json.Unmarshal(item, &str); err == nil {
			out = append(out, str)
			continue
		}
		var legacy struct {
			Step    *string  `json:"step"`
			Actions []string `json:"actions"`
		}
		if err := json.Unmarshal(item, &legacy); err != nil {
			continue
		}
		if legacy.Step != nil {
			out = append(out, *legacy.Step)
		}
		out = append(out, legacy.Actions...)
	}
	return out, nil
}

func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonColumnType(db *gorm.DB) string {
	if db != nil && db.Dialector != nil && db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "JSON"
}

func scanBytes(value interface{}) []byte {
	switch v := value.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return nil
	}
}

func warnMalformed(field string, err error) {
	zap.S().Warnw("Malformed persisted field, using empty list", "field", field, "error", err)
}
