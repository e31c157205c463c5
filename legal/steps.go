package legal

import (
	"context"
	"strings"

	"legalaid-backend/models"
)

// StepName tags one member of the closed set of pipeline steps
type StepName string

const (
	StepAnalysis  StepName = "analysis"
	StepLawLookup StepName = "law_lookup"
	StepDraft     StepName = "draft_generator"
	StepNGOFinder StepName = "ngo_finder"
	StepNextSteps StepName = "next_steps"
)

// caseState is shared by the steps of one pipeline run. Steps running in
// the same stage write disjoint fields of result.
type caseState struct {
	req    models.CaseRequest
	result models.CaseResult
}

// Step is one capability of the pipeline. Run fills its part of the result
// and reports whether it had to substitute a degraded value.
type Step interface {
	Name() StepName
	Run(ctx context.Context, st *caseState) (degraded bool)
}

type analysisStep struct{ analyzer *Analyzer }

func (analysisStep) Name() StepName { return StepAnalysis }

func (s analysisStep) Run(ctx context.Context, st *caseState) bool {
	st.result.AIAnalysis = s.analyzer.Analyze(ctx, st.req)
	return st.result.AIAnalysis.Source != models.AnalysisSourceGemini
}

type lawStep struct{ laws *LawLookup }

func (lawStep) Name() StepName { return StepLawLookup }

func (s lawStep) Run(ctx context.Context, st *caseState) bool {
	st.result.ApplicableLaws = s.laws.Lookup(st.req.Description, st.req.Category, st.req.Location)
	return false
}

// draftStep reuses the analysis produced earlier in the run
type draftStep struct{ drafts *DraftGenerator }

func (draftStep) Name() StepName { return StepDraft }

func (s draftStep) Run(ctx context.Context, st *caseState) bool {
	analysis := st.result.AIAnalysis
	st.result.Draft = s.drafts.Render(st.req, st.result.ApplicableLaws, &analysis)
	return strings.HasPrefix(st.result.Draft, "Error generating draft:")
}

type ngoStep struct{ ngos *NGOFinder }

func (ngoStep) Name() StepName { return StepNGOFinder }

func (s ngoStep) Run(ctx context.Context, st *caseState) bool {
	st.result.SuggestedNGOs = s.ngos.Find(st.req.Category, st.req.Location)
	return false
}

type nextStepsStep struct{ next *NextStepsGenerator }

func (nextStepsStep) Name() StepName { return StepNextSteps }

func (s nextStepsStep) Run(ctx context.Context, st *caseState) bool {
	steps, degraded := s.next.Steps(ctx, st.req)
	st.result.NextSteps = steps
	return degraded
}
