package service

import (
	"context"
	"errors"
	"testing"

	"legalaid-backend/legal"
	"legalaid-backend/models"
	"legalaid-backend/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAgent struct {
	seen  []models.ChatTurn
	reply string
	err   error
}

func (a *stubAgent) Chat(ctx context.Context, history []models.ChatTurn, message string) (string, error) {
	a.seen = history
	return a.reply, a.err
}

func TestChatUsesAgentWithHistory(t *testing.T) {
	ctx := context.Background()
	history := repository.NewMemoryChatHistory(10)
	agent := &stubAgent{reply: "File with the District Commission."}
	svc := NewChatService(history, ChatWithAgent(agent))
	user := uuid.New()

	assert.Equal(t, "File with the District Commission.", svc.Chat(ctx, user, "Where do I complain?"))
	assert.Empty(t, agent.seen)

	svc.Chat(ctx, user, "And the fee?")
	require.Len(t, agent.seen, 2)
	assert.Equal(t, "Where do I complain?", agent.seen[0].Content)
	assert.Equal(t, models.ChatRoleModel, agent.seen[1].Role)

	stored, err := history.Load(ctx, user)
	require.NoError(t, err)
	assert.Len(t, stored, 4)
}

func TestChatFallsBackToGenerator(t *testing.T) {
	gen := legal.TextGeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "echo: " + prompt, nil
	})
	svc := NewChatService(repository.NewMemoryChatHistory(10), ChatWithGenerator(gen))
	assert.Equal(t, "echo: hi", svc.Chat(context.Background(), uuid.New(), "hi"))
}

func TestChatApology(t *testing.T) {
	tests := []struct {
		name string
		opts []ChatServiceOption
	}{
		{name: "no backend"},
		{name: "agent error", opts: []ChatServiceOption{ChatWithAgent(&stubAgent{err: errors.New("down")})}},
		{name: "blank agent reply", opts: []ChatServiceOption{ChatWithAgent(&stubAgent{reply: "  "})}},
		{name: "generator error", opts: []ChatServiceOption{ChatWithGenerator(legal.TextGeneratorFunc(func(context.Context, string) (string, error) {
			return "", errors.New("down")
		}))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewChatService(repository.NewMemoryChatHistory(10), tt.opts...)
			assert.Equal(t, ChatApology, svc.Chat(context.Background(), uuid.New(), "hello"))
		})
	}
}
