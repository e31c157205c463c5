package service

import (
	"context"
	"strings"
	"time"

	"legalaid-backend/legal"
	"legalaid-backend/logger"
	"legalaid-backend/models"
	"legalaid-backend/repository"

	"github.com/google/uuid"
)

// ChatApology is the reply when no backend produced text
const ChatApology = "I apologize, but I'm unable to process your request at this time."

// ChatAgent answers a message in the context of prior turns
type ChatAgent interface {
	Chat(ctx context.Context, history []models.ChatTurn, message string) (string, error)
}

// ChatService routes user messages to the agent or the text collaborator
type ChatService struct {
	history repository.ChatHistory
	agent   ChatAgent
	gen     legal.TextGenerator
	timeout time.Duration
	now     func() time.Time
	log     *logger.Logger
}

// ChatServiceOption is a functional option for ChatService
type ChatServiceOption func(*ChatService)

func ChatWithAgent(agent ChatAgent) ChatServiceOption {
	return func(s *ChatService) {
		s.agent = agent
	}
}

func ChatWithGenerator(gen legal.TextGenerator) ChatServiceOption {
	return func(s *ChatService) {
		s.gen = gen
	}
}

func ChatWithTimeout(d time.Duration) ChatServiceOption {
	return func(s *ChatService) {
		s.timeout = d
	}
}

func ChatWithLogger(log *logger.Logger) ChatServiceOption {
	return func(s *ChatService) {
		s.log = log
	}
}

func NewChatService(history repository.ChatHistory, opts ...ChatServiceOption) *ChatService {
	s := &ChatService{
		history: history,
		timeout: legal.DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	s.log = s.log.With("service", "ChatService")
	return s
}

// Chat answers message and appends both turns to the user's history.
// It always returns a reply.
func (s *ChatService) Chat(ctx context.Context, userID uuid.UUID, message string) string {
	history, err := s.history.Load(ctx, userID)
	if err != nil {
		s.log.Warn("Failed to load chat history", "user_id", userID, "error", err)
		history = nil
	}

	reply := s.reply(ctx, history, message)

	now := s.now()
	err = s.history.Append(ctx, userID,
		models.ChatTurn{Role: models.ChatRoleUser, Content: message, CreatedAt: now},
		models.ChatTurn{Role: models.ChatRoleModel, Content: reply, CreatedAt: now},
	)
	if err != nil {
		s.log.Warn("Failed to save chat history", "user_id", userID, "error", err)
	}
	return reply
}

func (s *ChatService) reply(ctx context.Context, history []models.ChatTurn, message string) string {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		text string
		err  error
	)
	switch {
	case s.agent != nil:
		text, err = s.agent.Chat(ctx, history, message)
	case s.gen != nil:
		text, err = s.gen.Generate(ctx, message)
	default:
		return ChatApology
	}
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			s.log.Warn("Chat backend failed", "error", err)
		}
		return ChatApology
	}
	return text
}
