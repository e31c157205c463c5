package legal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"legalaid-backend/logger"
	"legalaid-backend/models"
)

// StepsMode selects how next steps are produced
type StepsMode string

const (
	StepsGenerative StepsMode = "generative"
	StepsStatic     StepsMode = "static"
)

// NextStepsGenerator builds the post-filing checklist for a case
type NextStepsGenerator struct {
	tables  *Tables
	gen     TextGenerator
	mode    StepsMode
	timeout time.Duration
	log     *logger.Logger
}

// NextStepsOption is a functional option for NextStepsGenerator
type NextStepsOption func(*NextStepsGenerator)

func StepsWithGenerator(gen TextGenerator) NextStepsOption {
	return func(g *NextStepsGenerator) {
		g.gen = gen
	}
}

func StepsWithMode(mode StepsMode) NextStepsOption {
	return func(g *NextStepsGenerator) {
		g.mode = mode
	}
}

func StepsWithTimeout(d time.Duration) NextStepsOption {
	return func(g *NextStepsGenerator) {
		g.timeout = d
	}
}

func StepsWithLogger(log *logger.Logger) NextStepsOption {
	return func(g *NextStepsGenerator) {
		g.log = log
	}
}

func NewNextStepsGenerator(tables *Tables, opts ...NextStepsOption) *NextStepsGenerator {
	g := &NextStepsGenerator{tables: tables, mode: StepsGenerative, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = logger.Nop()
	}
	g.log = g.log.With("component", "NextStepsGenerator")
	return g
}

// Mode reports the configured mode
func (g *NextStepsGenerator) Mode() StepsMode { return g.mode }

// Steps produces next steps in the configured mode. The second result
// reports whether the output is a degraded placeholder.
func (g *NextStepsGenerator) Steps(ctx context.Context, req models.CaseRequest) (models.NextSteps, bool) {
	if g.mode == StepsStatic {
		return g.Static(req.Category, req.Title), false
	}
	return g.Generate(ctx, req)
}

// Static returns the fixed checklist of the first bucket whose name appears
// in category, or the default bucket's checklist.
func (g *NextStepsGenerator) Static(category, caseTitle string) models.NextSteps {
	bucket := g.tables.DefaultSteps
	for _, c := range containedBuckets(category, g.tables.StepsOrder) {
		if _, ok := g.tables.Steps[c]; ok {
			bucket = c
			break
		}
	}
	return append(models.NextSteps(nil), g.tables.Steps[bucket]...)
}

// Generate asks the collaborator for a checklist and returns its non-blank
// lines. On failure it returns a single explanatory line and true.
func (g *NextStepsGenerator) Generate(ctx context.Context, req models.CaseRequest) (models.NextSteps, bool) {
	text, err := generate(ctx, g.gen, g.timeout, NextStepsPrompt(req))
	if err == nil {
		if steps := SplitLines(text); len(steps) > 0 {
			return steps, false
		}
		err = ErrNoText
	}
	g.log.Warn("Next steps unavailable", "title", req.Title, "error", err)
	return models.NextSteps{fmt.Sprintf("Unable to generate next steps at this time: %v", err)}, true
}

// NextStepsPrompt builds the next-steps prompt for a case
func NextStepsPrompt(req models.CaseRequest) string {
	location := req.Location
	if location == "" {
		location = "Not specified"
	}
	return fmt.Sprintf(`Based on the following legal case, provide specific next steps the person should take.

Case Title: %s
Description: %s
Category: %s
Location: %s

Structure the steps around:
1. Immediate safety measures
2. Documentation and evidence to collect
3. Legal protection options available
4. Support services to contact
5. Measures for ongoing safety and follow-up
6. Expected timeline

Write one actionable step per line.`, req.Title, req.Description, req.Category, location)
}

// SplitLines splits text into trimmed, non-blank lines in order
func SplitLines(text string) models.NextSteps {
	out := make(models.NextSteps, 0)
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
