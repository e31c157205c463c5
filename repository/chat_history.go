package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"legalaid-backend/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ChatHistory holds each user's recent conversation turns, oldest first
type ChatHistory interface {
	Load(ctx context.Context, userID uuid.UUID) ([]models.ChatTurn, error)
	Append(ctx context.Context, userID uuid.UUID, turns ...models.ChatTurn) error
}

// MemoryChatHistory keeps history in process memory
type MemoryChatHistory struct {
	mu    sync.Mutex
	limit int
	turns map[uuid.UUID][]models.ChatTurn
}

func NewMemoryChatHistory(limit int) *MemoryChatHistory {
	return &MemoryChatHistory{limit: limit, turns: make(map[uuid.UUID][]models.ChatTurn)}
}

func (h *MemoryChatHistory) Load(ctx context.Context, userID uuid.UUID) ([]models.ChatTurn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]models.ChatTurn, len(h.turns[userID]))
	copy(out, h.turns[userID])
	return out, nil
}

func (h *MemoryChatHistory) Append(ctx context.Context, userID uuid.UUID, turns ...models.ChatTurn) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	all := append(h.turns[userID], turns...)
	if h.limit > 0 && len(all) > h.limit {
		all = append([]models.ChatTurn(nil), all[len(all)-h.limit:]...)
	}
	h.turns[userID] = all
	return nil
}

// RedisChatHistory stores each user's turns as a capped Redis list
type RedisChatHistory struct {
	rdb   *redis.Client
	limit int
}

func NewRedisChatHistory(ctx context.Context, addr string, limit int) (*RedisChatHistory, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisChatHistory{rdb: rdb, limit: limit}, nil
}

func chatKey(userID uuid.UUID) string {
	return "chat:history:" + userID.String()
}

func (h *RedisChatHistory) Load(ctx context.Context, userID uuid.UUID) ([]models.ChatTurn, error) {
	raw, err := h.rdb.LRange(ctx, chatKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]models.ChatTurn, 0, len(raw))
	for _, item := range raw {
		var turn models.ChatTurn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			continue
		}
		out = append(out, turn)
	}
	return out, nil
}

func (h *RedisChatHistory) Append(ctx context.Context, userID uuid.UUID, turns ...models.ChatTurn) error {
	if len(turns) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(turns))
	for _, turn := range turns {
		b, err := json.Marshal(turn)
		if err != nil {
			return err
		}
		values = append(values, b)
	}

	key := chatKey(userID)
	pipe := h.rdb.TxPipeline()
	pipe.RPush(ctx, key, values...)
	if h.limit > 0 {
		pipe.LTrim(ctx, key, int64(-h.limit), -1)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (h *RedisChatHistory) Close() error {
	return h.rdb.Close()
}
