package api

import (
	"fmt"
	"log/slog"
	"net/http"

	app_errors "coach-ai/backend/internal/errors"
	"coach-ai/backend/internal/interfaces"
	"coach-ai/backend/internal/service"
)

// ChatHandler serves the conversation endpoints.
type ChatHandler struct {
	chat interfaces.ChatService
}

func NewChatHandler(chat interfaces.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// HandleSendMessage godoc
// @Summary      Send a message
// @Description  Appends the message to the conversation and waits for the coach's reply.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        message  body      SendMessageRequest  true  "User message"
// @Success      200      {object}  MessageResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Failure      412      {object}  ErrorResponse
// @Failure      429      {object}  ErrorResponse
// @Failure      502      {object}  ErrorResponse
// @Failure      503      {object}  ErrorResponse
// @Router       /v1/chat/messages [post]
func (h *ChatHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		respondWithError(w, err)
		return
	}
	awaitResult(w, r, h.chat.SendMessage(r.Context(), req.Content))
}

// GetHistory godoc
// @Summary      Get conversation history
// @Tags         Chat
// @Produce      json
// @Success      200  {object}  HistoryResponse
// @Router       /v1/chat/history [get]
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, HistoryResponse{Messages: h.chat.History()})
}

// HandleClearHistory godoc
// @Summary      Clear conversation history
// @Description  Starts a new conversation. A reply still in flight is not added to it.
// @Tags         Chat
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /v1/chat/history [delete]
func (h *ChatHandler) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	h.chat.ClearConversation()
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleEvents godoc
// @Summary      Subscribe to chat state
// @Description  Server-Sent Events stream of {"channel": "response"|"loading"|"error", "value": ...}. Current values are sent first.
// @Tags         Chat
// @Produce      text/event-stream
// @Success      200  {object}  service.Event
// @Router       /v1/chat/events [get]
func (h *ChatHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		respondWithError(w, fmt.Errorf("%w: streaming unsupported", app_errors.ErrInternal))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	events := h.chat.Events(r.Context())
	if events == nil {
		sendStreamError(w, "Event stream unavailable")
		return
	}
	for ev := range events {
		if err := writeStreamEvent(w, ev); err != nil {
			slog.Info("Event stream client disconnected", "error", err)
			return
		}
	}
	slog.Debug("Event stream closed")
}

// awaitResult writes the outcome of a send once the service delivers it.
// If the client leaves first nothing is written; the call still completes and
// its outcome reaches the event stream.
func awaitResult(w http.ResponseWriter, r *http.Request, results <-chan service.Result) {
	select {
	case res, ok := <-results:
		if !ok {
			respondWithError(w, app_errors.ErrInternal)
			return
		}
		if res.Err != nil {
			respondWithError(w, res.Err)
			return
		}
		respondWithJSON(w, http.StatusOK, MessageResponse{RequestID: res.RequestID, Reply: res.Reply, Usage: res.Usage})
	case <-r.Context().Done():
		slog.Info("Client went away before the reply arrived", "error", r.Context().Err())
	}
}
