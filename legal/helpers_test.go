package legal

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var errUnreachable = errors.New("collaborator unreachable")

// scriptedGenerator answers prompts with a caller-supplied function and records them
type scriptedGenerator struct {
	mu      sync.Mutex
	respond func(prompt string) (string, error)
	prompts []string
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	return g.respond(prompt)
}

func (g *scriptedGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

// byPrompt answers analysis and next-steps prompts differently
func byPrompt(analysis, steps string) *scriptedGenerator {
	return &scriptedGenerator{respond: func(prompt string) (string, error) {
		if strings.HasPrefix(prompt, "Legal Case Analysis:") {
			return analysis, nil
		}
		return steps, nil
	}}
}

func failing() *scriptedGenerator {
	return &scriptedGenerator{respond: func(string) (string, error) { return "", errUnreachable }}
}

func testTables(t *testing.T) *Tables {
	t.Helper()
	tables, err := LoadTables()
	require.NoError(t, err)
	return tables
}
