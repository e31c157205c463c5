package legal

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"legalaid-backend/logger"
	"legalaid-backend/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// DraftTemplate identifies which document a draft is rendered from
type DraftTemplate string

const (
	TemplateStandard DraftTemplate = "standard.tmpl"
	TemplateFIR      DraftTemplate = "fir.tmpl"
)

// DraftGenerator renders complaint and FIR documents for a case
type DraftGenerator struct {
	tables          *Tables
	templates       *template.Template
	analyzer        *Analyzer
	analysisEnabled bool
	now             func() time.Time
	log             *logger.Logger
}

// DraftOption is a functional option for DraftGenerator
type DraftOption func(*DraftGenerator)

// DraftWithAnalyzer appends a legal analysis section to standalone drafts
func DraftWithAnalyzer(a *Analyzer) DraftOption {
	return func(d *DraftGenerator) {
		d.analyzer = a
		d.analysisEnabled = a != nil
	}
}

// DraftWithAnalysis toggles the legal analysis section
func DraftWithAnalysis(enabled bool) DraftOption {
	return func(d *DraftGenerator) {
		d.analysisEnabled = enabled
	}
}

func DraftWithClock(now func() time.Time) DraftOption {
	return func(d *DraftGenerator) {
		d.now = now
	}
}

func DraftWithLogger(log *logger.Logger) DraftOption {
	return func(d *DraftGenerator) {
		d.log = log
	}
}

// DraftWithTemplates replaces the embedded templates; the set must define
// standard.tmpl and fir.tmpl.
func DraftWithTemplates(t *template.Template) DraftOption {
	return func(d *DraftGenerator) {
		d.templates = t
	}
}

func NewDraftGenerator(tables *Tables, opts ...DraftOption) *DraftGenerator {
	d := &DraftGenerator{
		tables:    tables,
		templates: template.Must(template.ParseFS(templateFS, "templates/*.tmpl")),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = logger.Nop()
	}
	d.log = d.log.With("component", "DraftGenerator")
	return d
}

// Draft renders a standalone draft. When analysis is enabled it makes one
// collaborator call first; a failed call only drops the analysis section.
func (d *DraftGenerator) Draft(ctx context.Context, req models.CaseRequest, laws models.LawReferences) string {
	var analysis *models.AIAnalysis
	if d.analysisEnabled && d.analyzer != nil {
		a := d.analyzer.Analyze(ctx, req)
		analysis = &a
	}
	return d.Render(req, laws, analysis)
}

// Render fills the selected template. It never fails: a rendering error is
// returned as the draft text.
func (d *DraftGenerator) Render(req models.CaseRequest, laws models.LawReferences, analysis *models.AIAnalysis) string {
	tmpl := SelectTemplate(d.tables, req.Title, req.Description)
	data := d.data(req, laws, analysis)

	var buf bytes.Buffer
	if err := d.templates.ExecuteTemplate(&buf, string(tmpl), data); err != nil {
		d.log.Error("Draft rendering failed", "template", tmpl, "error", err)
		return fmt.Sprintf("Error generating draft: %v", err)
	}
	return buf.String()
}

// SelectTemplate picks the FIR template when the title or description
// mentions any FIR keyword, and the standard complaint otherwise.
func SelectTemplate(tables *Tables, title, description string) DraftTemplate {
	text := strings.ToLower(title) + "\n" + strings.ToLower(description)
	for _, kw := range tables.FIRKeywords {
		if strings.Contains(text, kw) {
			return TemplateFIR
		}
	}
	return TemplateStandard
}

// Jurisdiction maps a category to the forum that hears it
func (d *DraftGenerator) Jurisdiction(category string) string {
	if court, ok := d.tables.Jurisdictions[normalize(category)]; ok {
		return court
	}
	return d.tables.DefaultJurisdiction
}

type draftData struct {
	Title        string
	TitleLower   string
	Jurisdiction string
	Court        string
	At           string
	Place        string
	Facts        []string
	Laws         models.LawReferences
	Date         string
	VerifiedOn   string
	Analysis     string
}

func (d *DraftGenerator) data(req models.CaseRequest, laws models.LawReferences, analysis *models.AIAnalysis) draftData {
	now := d.now()
	jurisdiction := d.Jurisdiction(req.Category)
	location := strings.TrimSpace(req.Location)

	data := draftData{
		Title:        req.Title,
		TitleLower:   strings.ToLower(req.Title),
		Jurisdiction: jurisdiction,
		Court:        strings.ToUpper(jurisdiction),
		At:           "[PLACE]",
		Place:        "[Place]",
		Facts:        formatFacts(req.Description),
		Laws:         laws,
		Date:         now.Format("02-01-2006"),
		VerifiedOn:   now.Format("02 day of January, 2006"),
	}
	if location != "" {
		data.At = strings.ToUpper(location)
		data.Place = location
	}
	if d.analysisEnabled && analysis != nil && analysis.Source == models.AnalysisSourceGemini {
		data.Analysis = strings.TrimSpace(analysis.Analysis)
	}
	return data
}

// formatFacts turns a description into one terminated sentence per line
func formatFacts(description string) []string {
	var facts []string
	for _, sentence := range strings.Split(description, ".") {
		if s := strings.TrimSpace(sentence); s != "" {
			facts = append(facts, s+".")
		}
	}
	return facts
}
