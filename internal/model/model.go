package model

import "time"

// Role is the author of a conversation message. The set is closed.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// ConversationMessage is a single turn in a conversation.
type ConversationMessage struct {
	Role    Role   `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required"`
}

// ChatRequest is the body sent to the chat completions endpoint. It is built
// fresh for every call and never persisted.
type ChatRequest struct {
	Model       string                `json:"model" validate:"required"`
	Messages    []ConversationMessage `json:"messages" validate:"required,min=1,dive"`
	MaxTokens   int                   `json:"max_tokens" validate:"gt=0"`
	Temperature float64               `json:"temperature" validate:"gte=0,lte=1"`
}

// ChatResponse is the decoded 2xx body of a chat completion.
type ChatResponse struct {
	ID      string    `json:"id"`
	Object  string    `json:"object"`
	Created time.Time `json:"created"`
	Model   string    `json:"model"`
	Choices []Choice  `json:"choices"`
	Usage   Usage     `json:"usage"`
}

type Choice struct {
	Index        int                 `json:"index"`
	Message      ConversationMessage `json:"message"`
	FinishReason string              `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Reply returns the content of the first choice, or "" when there is none.
func (r *ChatResponse) Reply() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// KeyStatus is the UI-safe view of the stored provider key.
type KeyStatus struct {
	Configured bool   `json:"configured"`
	MaskedKey  string `json:"masked_key,omitempty"`
}
