package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	app_errors "coach-ai/backend/internal/errors"
	"coach-ai/backend/internal/interfaces"
	"coach-ai/backend/internal/service"
)

// CredentialHandler serves API key management. The chat provider key goes
// through the chat service so its client is rebuilt on every change.
type CredentialHandler struct {
	chat  interfaces.ChatService
	creds interfaces.CredentialService
}

func NewCredentialHandler(chat interfaces.ChatService, creds interfaces.CredentialService) *CredentialHandler {
	return &CredentialHandler{chat: chat, creds: creds}
}

// GetKeyStatus godoc
// @Summary      Chat key status
// @Description  Reports whether a chat provider key is stored, with its masked form.
// @Tags         Credentials
// @Produce      json
// @Success      200  {object}  model.KeyStatus
// @Router       /v1/credentials [get]
func (h *CredentialHandler) GetKeyStatus(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.chat.KeyStatus(r.Context()))
}

// UpdateKey godoc
// @Summary      Store the chat key
// @Tags         Credentials
// @Accept       json
// @Produce      json
// @Param        key  body      UpdateKeyRequest  true  "API key"
// @Success      200  {object}  model.KeyStatus
// @Failure      400  {object}  ErrorResponse
// @Router       /v1/credentials [put]
func (h *CredentialHandler) UpdateKey(w http.ResponseWriter, r *http.Request) {
	var req UpdateKeyRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		respondWithError(w, err)
		return
	}
	h.chat.UpdateAPIKey(r.Context(), req.APIKey)
	respondWithJSON(w, http.StatusOK, h.chat.KeyStatus(r.Context()))
}

// HandleClearKey godoc
// @Summary      Remove the chat key
// @Tags         Credentials
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /v1/credentials [delete]
func (h *CredentialHandler) HandleClearKey(w http.ResponseWriter, r *http.Request) {
	h.chat.ClearAPIKey(r.Context())
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleTestConnection godoc
// @Summary      Test the chat key
// @Description  Sends a short greeting with the stored key and returns the reply.
// @Tags         Credentials
// @Produce      json
// @Success      200  {object}  MessageResponse
// @Failure      412  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /v1/credentials/test [post]
func (h *CredentialHandler) HandleTestConnection(w http.ResponseWriter, r *http.Request) {
	awaitResult(w, r, h.chat.TestConnection(r.Context()))
}

// GetProviderStatus godoc
// @Summary      Provider key status
// @Tags         Credentials
// @Produce      json
// @Param        provider  path      string  true  "openai, google or youtube"
// @Success      200       {object}  model.KeyStatus
// @Failure      404       {object}  ErrorResponse
// @Router       /v1/credentials/{provider} [get]
func (h *CredentialHandler) GetProviderStatus(w http.ResponseWriter, r *http.Request) {
	p, err := providerParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if p == service.ProviderOpenAI {
		h.GetKeyStatus(w, r)
		return
	}
	respondWithJSON(w, http.StatusOK, h.creds.StatusFor(r.Context(), p))
}

// UpdateProviderKey godoc
// @Summary      Store a provider key
// @Tags         Credentials
// @Accept       json
// @Produce      json
// @Param        provider  path      string            true  "openai, google or youtube"
// @Param        key       body      UpdateKeyRequest  true  "API key"
// @Success      200       {object}  model.KeyStatus
// @Failure      400       {object}  ErrorResponse
// @Failure      404       {object}  ErrorResponse
// @Router       /v1/credentials/{provider} [put]
func (h *CredentialHandler) UpdateProviderKey(w http.ResponseWriter, r *http.Request) {
	p, err := providerParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if p == service.ProviderOpenAI {
		h.UpdateKey(w, r)
		return
	}

	var req UpdateKeyRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		respondWithError(w, err)
		return
	}
	h.creds.SaveFor(r.Context(), p, req.APIKey)
	respondWithJSON(w, http.StatusOK, h.creds.StatusFor(r.Context(), p))
}

// HandleClearProviderKey godoc
// @Summary      Remove a provider key
// @Tags         Credentials
// @Produce      json
// @Param        provider  path      string  true  "openai, google or youtube"
// @Success      200       {object}  StatusResponse
// @Failure      404       {object}  ErrorResponse
// @Router       /v1/credentials/{provider} [delete]
func (h *CredentialHandler) HandleClearProviderKey(w http.ResponseWriter, r *http.Request) {
	p, err := providerParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if p == service.ProviderOpenAI {
		h.HandleClearKey(w, r)
		return
	}
	h.creds.ClearFor(r.Context(), p)
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func providerParam(r *http.Request) (service.Provider, error) {
	p := service.Provider(chi.URLParam(r, "provider"))
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown provider %q", app_errors.ErrNotFound, p)
	}
	return p, nil
}
