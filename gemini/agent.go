package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"legalaid-backend/legal"
	"legalaid-backend/logger"
	"legalaid-backend/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const agentSystemPrompt = `You are a legal aid assistant for people in India.
Explain legal options in plain language, cite the relevant Acts and sections, and point people to free legal aid.
Use the available tools to look up laws, NGOs, next steps, or to draft a complaint instead of guessing.
You are not a lawyer; recommend consulting one for decisions with legal consequences.`

// ToolRunner executes one of the closed set of pipeline steps for the agent
type ToolRunner interface {
	RunTool(ctx context.Context, name legal.StepName, args legal.ToolArgs) (map[string]interface{}, error)
}

// Agent is a tool-augmented conversational model built on the genai SDK
type Agent struct {
	client   *genai.Client
	model    string
	tools    ToolRunner
	maxTurns int
	log      *logger.Logger
}

func NewAgent(ctx context.Context, apiKey, model string, tools ToolRunner, log *logger.Logger) (*Agent, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoAPIKey
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Agent{
		client:   client,
		model:    model,
		tools:    tools,
		maxTurns: 4,
		log:      log.With("component", "ChatAgent"),
	}, nil
}

func (a *Agent) Close() error {
	return a.client.Close()
}

// Chat answers message in the context of history, calling tools as the model requests
func (a *Agent) Chat(ctx context.Context, history []models.ChatTurn, message string) (string, error) {
	model := a.client.GenerativeModel(a.model)
	model.SetTemperature(0)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(agentSystemPrompt)}}
	model.Tools = []*genai.Tool{{FunctionDeclarations: toolDeclarations()}}

	cs := model.StartChat()
	cs.History = historyContents(history)

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("agent message failed: %w", err)
	}

	for turn := 0; turn < a.maxTurns; turn++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			return responseText(resp), nil
		}

		parts := make([]genai.Part, 0, len(calls))
		for _, fc := range calls {
			a.log.Debug("Tool call", "tool", fc.Name)
			out, err := a.tools.RunTool(ctx, legal.StepName(fc.Name), toolArgs(fc.Args))
			if err != nil {
				a.log.Warn("Tool call failed", "tool", fc.Name, "error", err)
				out = map[string]interface{}{"error": err.Error()}
			}
			parts = append(parts, genai.FunctionResponse{Name: fc.Name, Response: jsonMap(out)})
		}

		resp, err = cs.SendMessage(ctx, parts...)
		if err != nil {
			return "", fmt.Errorf("agent tool response failed: %w", err)
		}
	}
	return "", errors.New("agent exceeded tool call limit")
}

func toolDeclarations() []*genai.FunctionDeclaration {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	return []*genai.FunctionDeclaration{
		{
			Name:        string(legal.StepLawLookup),
			Description: "Find applicable Indian laws for a legal issue",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query":    str("Description of the legal issue"),
					"category": str("Legal category, e.g. consumer protection, labour law"),
					"location": str("City or state"),
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        string(legal.StepNGOFinder),
			Description: "Find relevant NGOs and legal aid organizations",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"category": str("Legal category of the case"),
					"location": str("City or state"),
				},
				Required: []string{"category"},
			},
		},
		{
			Name:        string(legal.StepNextSteps),
			Description: "Provide next steps and timeline for legal proceedings",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"category":    str("Legal category of the case"),
					"title":       str("Short case title"),
					"description": str("What happened"),
					"location":    str("City or state"),
				},
				Required: []string{"category"},
			},
		},
		{
			Name:        string(legal.StepDraft),
			Description: "Generate a legal complaint or FIR draft",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":       str("Short case title"),
					"description": str("Facts of the case"),
					"category":    str("Legal category of the case"),
					"location":    str("City where the complaint is filed"),
				},
				Required: []string{"title", "description", "category"},
			},
		},
	}
}

func historyContents(history []models.ChatTurn) []*genai.Content {
	out := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		role := models.ChatRoleUser
		if turn.Role == models.ChatRoleModel {
			role = models.ChatRoleModel
		}
		out = append(out, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(turn.Content)}})
	}
	return out
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	var calls []genai.FunctionCall
	for _, part := range firstParts(resp) {
		if fc, ok := part.(genai.FunctionCall); ok {
			calls = append(calls, fc)
		}
	}
	return calls
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, part := range firstParts(resp) {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}

func firstParts(resp *genai.GenerateContentResponse) []genai.Part {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	return resp.Candidates[0].Content.Parts
}

func toolArgs(args map[string]any) legal.ToolArgs {
	get := func(k string) string {
		if v, ok := args[k].(string); ok {
			return v
		}
		return ""
	}
	return legal.ToolArgs{
		Query:       get("query"),
		Title:       get("title"),
		Description: get("description"),
		Category:    get("category"),
		Location:    get("location"),
	}
}

// jsonMap reduces a tool result to the plain JSON types the SDK can encode
func jsonMap(v map[string]interface{}) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{"error": err.Error()}
	}
	return out
}
