package models

import "time"

// Chat roles as the model API names them
const (
	ChatRoleUser  = "user"
	ChatRoleModel = "model"
)

// ChatTurn is one message of a user's conversation with the assistant
type ChatTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
