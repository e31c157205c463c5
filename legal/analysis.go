package legal

import (
	"context"
	"fmt"
	"time"

	"legalaid-backend/logger"
	"legalaid-backend/models"
)

const analysisUnavailable = "Unable to generate analysis at this time."

// Analyzer asks the collaborator for a free-text analysis of a case
type Analyzer struct {
	gen     TextGenerator
	timeout time.Duration
	log     *logger.Logger
}

func NewAnalyzer(gen TextGenerator, timeout time.Duration, log *logger.Logger) *Analyzer {
	if log == nil {
		log = logger.Nop()
	}
	return &Analyzer{gen: gen, timeout: timeout, log: log.With("component", "Analyzer")}
}

// Analyze never fails: an unavailable collaborator yields source "error"
func (a *Analyzer) Analyze(ctx context.Context, req models.CaseRequest) models.AIAnalysis {
	text, err := generate(ctx, a.gen, a.timeout, AnalysisPrompt(req))
	if err != nil {
		a.log.Warn("Analysis unavailable", "title", req.Title, "error", err)
		return models.AIAnalysis{Analysis: analysisUnavailable, Source: models.AnalysisSourceError}
	}
	return models.AIAnalysis{Analysis: text, Source: models.AnalysisSourceGemini}
}

// AnalysisPrompt builds the legal-analysis prompt for a case
func AnalysisPrompt(req models.CaseRequest) string {
	location := req.Location
	if location == "" {
		location = "Not specified"
	}
	return fmt.Sprintf(`Legal Case Analysis:
Title: %s
Description: %s
Category: %s
Location: %s

Provide a concise analysis covering:
1. Applicable laws and sections
2. Legal grounds
3. Next steps
4. Timeline
5. Potential challenges

Keep the response clear and structured with bullet points.`, req.Title, req.Description, req.Category, location)
}
