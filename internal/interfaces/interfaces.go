package interfaces

import (
	"context"

	"coach-ai/backend/internal/model"
	"coach-ai/backend/internal/service"
)

// This file defines the contracts the API layer depends on. Handlers take these
// interfaces rather than the concrete services so they can be tested with mocks.

// ChatService defines the contract for the conversation with the chat provider.
type ChatService interface {
	SendMessage(ctx context.Context, text string) <-chan service.Result
	TestConnection(ctx context.Context) <-chan service.Result
	UpdateAPIKey(ctx context.Context, key string)
	ClearAPIKey(ctx context.Context)
	HasAPIKey(ctx context.Context) bool
	KeyStatus(ctx context.Context) model.KeyStatus
	History() []model.ConversationMessage
	ClearConversation()
	Events(ctx context.Context) <-chan service.Event
}

// CredentialService defines the contract for keys of the other providers.
type CredentialService interface {
	SaveFor(ctx context.Context, p service.Provider, key string)
	ClearFor(ctx context.Context, p service.Provider)
	StatusFor(ctx context.Context, p service.Provider) model.KeyStatus
}

var (
	_ ChatService       = (*service.ChatService)(nil)
	_ CredentialService = (*service.CredentialService)(nil)
)
