package legal

import (
	"context"
	"errors"
	"fmt"

	"legalaid-backend/models"
)

// ErrUnknownTool is returned for a tool name outside the closed step set
var ErrUnknownTool = errors.New("unknown tool")

// ToolSteps are the steps a conversational agent may call
var ToolSteps = []StepName{StepLawLookup, StepNGOFinder, StepNextSteps, StepDraft}

// ToolArgs are the arguments a tool call may carry
type ToolArgs struct {
	Query       string
	Title       string
	Description string
	Category    string
	Location    string
}

func (a ToolArgs) request() models.CaseRequest {
	return models.CaseRequest{Title: a.Title, Description: a.Description, Category: a.Category, Location: a.Location}
}

// RunTool executes one step on behalf of an agent and returns a JSON-friendly result
func (o *Orchestrator) RunTool(ctx context.Context, name StepName, args ToolArgs) (map[string]interface{}, error) {
	switch name {
	case StepLawLookup:
		query := args.Query
		if query == "" {
			query = args.Description
		}
		return map[string]interface{}{"laws": o.laws.Lookup(query, args.Category, args.Location)}, nil
	case StepNGOFinder:
		return map[string]interface{}{"ngos": o.ngos.Find(args.Category, args.Location)}, nil
	case StepNextSteps:
		steps, _ := o.next.Steps(ctx, args.request())
		return map[string]interface{}{"steps": steps}, nil
	case StepDraft:
		req := args.request()
		laws := o.laws.Lookup(req.Description, req.Category, req.Location)
		return map[string]interface{}{"draft": o.drafts.Render(req, laws, nil)}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
}
