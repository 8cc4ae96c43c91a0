package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	app_errors "coach-ai/backend/internal/errors"
	"coach-ai/backend/internal/llm"
	"coach-ai/backend/internal/model"
	"coach-ai/backend/internal/observable"
	"coach-ai/backend/internal/secure"
)

const (
	defaultHistoryLimit = 10

	// ConnectionTestPrompt is sent by TestConnection.
	ConnectionTestPrompt = "Hello, can you respond with a brief greeting?"
)

// Names of the observable channels.
const (
	ChannelResponse = "response"
	ChannelLoading  = "loading"
	ChannelError    = "error"
)

// CredentialStore is the part of CredentialService the chat needs.
type CredentialStore interface {
	Save(ctx context.Context, key string)
	Get(ctx context.Context) string
	Clear(ctx context.Context)
	HasValidKey(ctx context.Context) bool
	Status(ctx context.Context) model.KeyStatus
}

type ChatConfig struct {
	Model        string
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
	HistoryLimit int
}

// Result is the outcome of one SendMessage call. Exactly one of Reply or Err is set.
type Result struct {
	RequestID string
	Reply     string
	Usage     model.Usage
	Err       error
}

// Event is one value published on an observable channel. An error value of
// nil means the error was cleared.
type Event struct {
	Channel string `json:"channel"`
	Value   any    `json:"value"`
}

// ChatState exposes the observable cells of a conversation.
type ChatState struct {
	Response *observable.Value[string]
	Loading  *observable.Value[bool]
	// Error holds "" once cleared.
	Error *observable.Value[string]
}

// ChatService owns a single conversation with the chat provider.
//
// At most one message is in flight at a time. History is capped to the most
// recent HistoryLimit messages after every successful exchange; the system
// prompt is never stored and is prepended to every request instead.
type ChatService struct {
	store    CredentialStore
	provider llm.ClientProvider
	cfg      ChatConfig

	state ChatState

	mu       sync.Mutex
	client   llm.Client
	history  []model.ConversationMessage
	epoch    uint64
	inFlight bool
}

// NewChatService builds the service and picks up a key stored by an earlier run.
func NewChatService(store CredentialStore, provider llm.ClientProvider, cfg ChatConfig) *ChatService {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	s := &ChatService{
		store:    store,
		provider: provider,
		cfg:      cfg,
		state: ChatState{
			Response: new(observable.Value[string]),
			Loading:  observable.NewValue(false),
			Error:    new(observable.Value[string]),
		},
	}
	s.reloadClient(context.Background())
	return s
}

func (s *ChatService) reloadClient(ctx context.Context) {
	key := s.store.Get(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if key == "" {
		s.client = nil
		return
	}
	s.client = s.provider.GetClient(key)
}

// UpdateAPIKey stores key and rebuilds the client from scratch. Calls already
// issued keep the key they started with.
func (s *ChatService) UpdateAPIKey(ctx context.Context, key string) {
	s.store.Save(ctx, key)
	s.provider.ResetClient()
	s.reloadClient(ctx)
	slog.Info("API key updated", "key", secure.Fingerprint(key))
}

// ClearAPIKey removes the stored key. Later sends fail with ErrNotConfigured.
func (s *ChatService) ClearAPIKey(ctx context.Context) {
	s.store.Clear(ctx)
	s.provider.ResetClient()
	s.reloadClient(ctx)
	slog.Info("API key cleared")
}

func (s *ChatService) HasAPIKey(ctx context.Context) bool {
	return s.store.HasValidKey(ctx)
}

func (s *ChatService) KeyStatus(ctx context.Context) model.KeyStatus {
	return s.store.Status(ctx)
}

// SendMessage appends text to the conversation and asks the provider for a reply.
//
// It returns immediately. The returned channel receives exactly one Result and
// is then closed. The call is detached from ctx cancellation and is bounded
// only by the transport timeouts.
func (s *ChatService) SendMessage(ctx context.Context, text string) <-chan Result {
	out := make(chan Result, 1)
	requestID := uuid.NewString()
	log := slog.With("request_id", requestID)

	s.mu.Lock()
	if s.client == nil {
		s.mu.Unlock()
		log.Warn("Message rejected: API key not configured")
		s.reject(out, requestID, app_errors.ErrNotConfigured)
		return out
	}
	if s.inFlight {
		s.mu.Unlock()
		log.Warn("Message rejected: another message is in flight")
		s.reject(out, requestID, app_errors.ErrBusy)
		return out
	}

	s.inFlight = true
	s.state.Loading.Set(true)
	s.state.Error.Set("")
	s.history = append(s.history, model.ConversationMessage{Role: model.RoleUser, Content: text})
	req := s.buildRequest()
	client := s.client
	epoch := s.epoch
	s.mu.Unlock()

	log.Info("Sending message", "history", len(req.Messages)-1)
	go s.complete(llm.WithRequestID(context.WithoutCancel(ctx), requestID), client, req, epoch, requestID, out)
	return out
}

// TestConnection sends a short greeting to check that the stored key works.
func (s *ChatService) TestConnection(ctx context.Context) <-chan Result {
	return s.SendMessage(ctx, ConnectionTestPrompt)
}

// reject fails a call that never reached the provider. Loading and history are left alone.
func (s *ChatService) reject(out chan<- Result, requestID string, err error) {
	s.state.Error.Set(app_errors.UserMessage(err))
	out <- Result{RequestID: requestID, Err: err}
	close(out)
}

// buildRequest must be called with s.mu held.
func (s *ChatService) buildRequest() *model.ChatRequest {
	messages := make([]model.ConversationMessage, 0, len(s.history)+1)
	messages = append(messages, model.ConversationMessage{Role: model.RoleSystem, Content: s.cfg.SystemPrompt})
	messages = append(messages, s.history...)
	return &model.ChatRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}
}

func (s *ChatService) complete(ctx context.Context, client llm.Client, req *model.ChatRequest, epoch uint64, requestID string, out chan<- Result) {
	defer close(out)
	log := slog.With("request_id", requestID)

	start := time.Now()
	resp, err := client.CreateChatCompletion(ctx, req)
	result := Result{RequestID: requestID}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	switch {
	case err != nil:
		result.Err = err
	case resp.Reply() == "":
		result.Err = app_errors.ErrEmptyReply
	default:
		result.Reply = resp.Reply()
		result.Usage = resp.Usage
	}

	if result.Err != nil {
		log.Warn("Message failed", "error", result.Err, "duration", time.Since(start))
		s.state.Error.Set(app_errors.UserMessage(result.Err))
		s.state.Loading.Set(false)
		out <- result
		return
	}

	current := epoch == s.epoch
	if current {
		s.history = append(s.history, model.ConversationMessage{Role: model.RoleAssistant, Content: result.Reply})
	} else {
		log.Info("Conversation was cleared while waiting; reply not added to history")
	}
	// A send rejected while this one was in flight may have published an error.
	if msg, _ := s.state.Error.Get(); msg != "" {
		s.state.Error.Set("")
	}
	s.state.Response.Set(result.Reply)
	s.state.Loading.Set(false)
	if current && len(s.history) > s.cfg.HistoryLimit {
		s.history = append([]model.ConversationMessage(nil), s.history[len(s.history)-s.cfg.HistoryLimit:]...)
	}

	log.Info("Reply received", "duration", time.Since(start), "total_tokens", result.Usage.TotalTokens, "history", len(s.history))
	out <- result
}

// ClearConversation empties the history. Calls in flight finish normally but
// their replies are not added to the new conversation.
func (s *ChatService) ClearConversation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.epoch++
	slog.Info("Conversation cleared")
}

// History returns a copy of the conversation so far.
func (s *ChatService) History() []model.ConversationMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ConversationMessage{}, s.history...)
}

func (s *ChatService) State() ChatState {
	return s.state
}

// Events merges the three observable channels into one stream of tagged
// values. Each channel first replays its current value. The stream is closed
// once ctx is done.
func (s *ChatService) Events(ctx context.Context) <-chan Event {
	out := make(chan Event)
	responses := s.state.Response.Subscribe(ctx)
	loading := s.state.Loading.Subscribe(ctx)
	errs := s.state.Error.Subscribe(ctx)

	go func() {
		defer close(out)
		for responses != nil || loading != nil || errs != nil {
			var ev Event
			select {
			case v, ok := <-responses:
				if !ok {
					responses = nil
					continue
				}
				ev = Event{Channel: ChannelResponse, Value: v}
			case v, ok := <-loading:
				if !ok {
					loading = nil
					continue
				}
				ev = Event{Channel: ChannelLoading, Value: v}
			case v, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				ev = Event{Channel: ChannelError, Value: errorValue(v)}
			}

			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func errorValue(msg string) any {
	if msg == "" {
		return nil
	}
	return msg
}
