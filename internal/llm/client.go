// Package llm builds authenticated clients for an OpenAI-compatible chat
// completions endpoint and classifies the failures they return.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sashabaranov/go-openai"

	app_errors "coach-ai/backend/internal/errors"
	"coach-ai/backend/internal/model"
)

// Client sends chat completion requests on behalf of one API key.
type Client interface {
	CreateChatCompletion(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error)
}

// ClientProvider hands out clients bound to a key and can discard them.
type ClientProvider interface {
	GetClient(apiKey string) Client
	ResetClient()
}

var (
	requestValidator *validator.Validate
	validatorOnce    sync.Once
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		requestValidator = validator.New()
	})
	return requestValidator
}

type openAIClient struct {
	api         *openai.Client
	apiKey      string
	fingerprint string
	version     uint64
}

func (c *openAIClient) CreateChatCompletion(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil chat request", app_errors.ErrValidation)
	}
	if err := getValidator().Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", app_errors.ErrValidation, err.Error())
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}

	slog.Debug("Sending chat completion", "model", req.Model, "messages", len(messages), "key", c.fingerprint, "client_version", c.version)
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		classified := Classify(err)
		slog.Warn("Chat completion failed", "model", req.Model, "key", c.fingerprint, "error", err)
		return nil, classified
	}

	return toChatResponse(resp), nil
}

func toChatResponse(resp openai.ChatCompletionResponse) *model.ChatResponse {
	out := &model.ChatResponse{
		ID:      resp.ID,
		Object:  resp.Object,
		Created: time.Unix(resp.Created, 0).UTC(),
		Model:   resp.Model,
		Choices: make([]model.Choice, 0, len(resp.Choices)),
		Usage: model.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	for _, ch := range resp.Choices {
		out.Choices = append(out.Choices, model.Choice{
			Index:        ch.Index,
			Message:      model.ConversationMessage{Role: model.Role(ch.Message.Role), Content: ch.Message.Content},
			FinishReason: string(ch.FinishReason),
		})
	}
	return out
}
