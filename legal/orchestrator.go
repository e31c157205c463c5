package legal

import (
	"context"
	"sync"
	"time"

	"legalaid-backend/logger"
	"legalaid-backend/models"

	"golang.org/x/sync/errgroup"
)

// DegradationRecorder counts pipeline steps that returned a placeholder
type DegradationRecorder interface {
	StepDegraded(step string)
}

// Orchestrator runs the case-generation pipeline
type Orchestrator struct {
	analyzer *Analyzer
	laws     *LawLookup
	drafts   *DraftGenerator
	ngos     *NGOFinder
	next     *NextStepsGenerator

	stages   [][]Step
	recorder DegradationRecorder
	log      *logger.Logger
}

// PipelineConfig carries what the pipeline needs from the process configuration
type PipelineConfig struct {
	Generator     TextGenerator
	StepsMode     StepsMode
	Timeout       time.Duration
	DraftAnalysis bool
	Recorder      DegradationRecorder
	Logger        *logger.Logger
	Clock         func() time.Time
}

// NewPipeline wires every component over the given tables
func NewPipeline(tables *Tables, cfg PipelineConfig) *Orchestrator {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	analyzer := NewAnalyzer(cfg.Generator, cfg.Timeout, log)

	draftOpts := []DraftOption{DraftWithAnalyzer(analyzer), DraftWithAnalysis(cfg.DraftAnalysis), DraftWithLogger(log)}
	if cfg.Clock != nil {
		draftOpts = append(draftOpts, DraftWithClock(cfg.Clock))
	}
	mode := cfg.StepsMode
	if mode == "" {
		mode = StepsGenerative
	}

	return NewOrchestrator(
		analyzer,
		NewLawLookup(tables),
		NewDraftGenerator(tables, draftOpts...),
		NewNGOFinder(tables),
		NewNextStepsGenerator(tables,
			StepsWithGenerator(cfg.Generator),
			StepsWithMode(mode),
			StepsWithTimeout(cfg.Timeout),
			StepsWithLogger(log),
		),
		OrchestratorWithRecorder(cfg.Recorder),
		OrchestratorWithLogger(log),
	)
}

// OrchestratorOption is a functional option for Orchestrator
type OrchestratorOption func(*Orchestrator)

func OrchestratorWithRecorder(r DegradationRecorder) OrchestratorOption {
	return func(o *Orchestrator) {
		o.recorder = r
	}
}

func OrchestratorWithLogger(log *logger.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.log = log
	}
}

func NewOrchestrator(
	analyzer *Analyzer,
	laws *LawLookup,
	drafts *DraftGenerator,
	ngos *NGOFinder,
	next *NextStepsGenerator,
	opts ...OrchestratorOption,
) *Orchestrator {
	o := &Orchestrator{
		analyzer: analyzer,
		laws:     laws,
		drafts:   drafts,
		ngos:     ngos,
		next:     next,
	}
	// The draft needs the laws and the analysis; everything else is independent.
	o.stages = [][]Step{
		{analysisStep{analyzer}, lawStep{laws}},
		{draftStep{drafts}, ngoStep{ngos}, nextStepsStep{next}},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Nop()
	}
	o.log = o.log.With("component", "CaseOrchestrator")
	return o
}

func (o *Orchestrator) Laws() *LawLookup {
	return o.laws
}

func (o *Orchestrator) NGOs() *NGOFinder {
	return o.ngos
}

func (o *Orchestrator) Drafts() *DraftGenerator {
	return o.drafts
}

func (o *Orchestrator) NextSteps() *NextStepsGenerator {
	return o.next
}

func (o *Orchestrator) Analyzer() *Analyzer {
	return o.analyzer
}

// Process runs every step for req and always returns a complete result.
// Steps that could not reach the collaborator carry placeholder values.
func (o *Orchestrator) Process(ctx context.Context, req models.CaseRequest) models.CaseResult {
	start := time.Now()
	st := &caseState{req: req}

	var (
		mu       sync.Mutex
		degraded []StepName
	)
	for _, stage := range o.stages {
		var g errgroup.Group
		for _, step := range stage {
			step := step
			g.Go(func() error {
				if step.Run(ctx, st) {
					mu.Lock()
					degraded = append(degraded, step.Name())
					mu.Unlock()
				}
				return nil
			})
		}
		// Steps degrade instead of failing, so the group never carries an error.
		_ = g.Wait()
	}

	for _, name := range degraded {
		if o.recorder != nil {
			o.recorder.StepDegraded(string(name))
		}
	}
	o.log.Info("Case processed",
		"title", req.Title,
		"category", req.Category,
		"laws", len(st.result.ApplicableLaws),
		"ngos", len(st.result.SuggestedNGOs),
		"degraded", degraded,
		"duration", time.Since(start),
	)
	return complete(st.result)
}

// complete replaces nil lists so every field of the result is populated
func complete(r models.CaseResult) models.CaseResult {
	if r.ApplicableLaws == nil {
		r.ApplicableLaws = models.LawReferences{}
	}
	if r.SuggestedNGOs == nil {
		r.SuggestedNGOs = models.NGORecords{}
	}
	if r.NextSteps == nil {
		r.NextSteps = models.NextSteps{}
	}
	return r
}
