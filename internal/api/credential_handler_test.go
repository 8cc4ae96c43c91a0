package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	app_errors "coach-ai/backend/internal/errors"
	"coach-ai/backend/internal/model"
	"coach-ai/backend/internal/service"
)

func TestCredentialHandler_ChatKey(t *testing.T) {
	t.Run("Get status", func(t *testing.T) {
		router, mockChat, _ := setupRouter(t)
		mockChat.On("KeyStatus", mock.Anything).Return(model.KeyStatus{Configured: true, MaskedKey: "sk-a...1234"}).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/credentials", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"configured":true,"masked_key":"sk-a...1234"}`, rr.Body.String())
	})

	t.Run("Get status without a key", func(t *testing.T) {
		router, mockChat, _ := setupRouter(t)
		mockChat.On("KeyStatus", mock.Anything).Return(model.KeyStatus{}).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/credentials", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.JSONEq(t, `{"configured":false}`, rr.Body.String())
	})

	t.Run("Update", func(t *testing.T) {
		router, mockChat, _ := setupRouter(t)
		mockChat.On("UpdateAPIKey", mock.Anything, "sk-aaaaaaaaaaaa1234").Return().Once()
		mockChat.On("KeyStatus", mock.Anything).Return(model.KeyStatus{Configured: true, MaskedKey: "sk-a...1234"}).Once()

		req := httptest.NewRequest(http.MethodPut, "/api/v1/credentials", strings.NewReader(`{"api_key":"sk-aaaaaaaaaaaa1234"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"configured":true,"masked_key":"sk-a...1234"}`, rr.Body.String())
	})

	t.Run("Update rejects a masked key", func(t *testing.T) {
		router, _, _ := setupRouter(t)

		req := httptest.NewRequest(http.MethodPut, "/api/v1/credentials", strings.NewReader(`{"api_key":"sk-a...1234"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr), "notmasked")
	})

	t.Run("Update rejects an empty key", func(t *testing.T) {
		router, _, _ := setupRouter(t)

		req := httptest.NewRequest(http.MethodPut, "/api/v1/credentials", strings.NewReader(`{"api_key":""}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Clear", func(t *testing.T) {
		router, mockChat, _ := setupRouter(t)
		mockChat.On("ClearAPIKey", mock.Anything).Return().Once()

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/credentials", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestCredentialHandler_TestConnection(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, mockChat, _ := setupRouter(t)
		mockChat.On("TestConnection", mock.Anything).Return(resultOf(service.Result{RequestID: "req-9", Reply: "Hello!"})).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/credentials/test", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"reply":"Hello!"`)
	})

	t.Run("Invalid key", func(t *testing.T) {
		router, mockChat, _ := setupRouter(t)
		mockChat.On("TestConnection", mock.Anything).Return(resultOf(service.Result{Err: &app_errors.StatusError{Code: 401, Message: "Unauthorized"}})).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/credentials/test", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Equal(t, "Invalid API key. Please check your OpenAI API key.", decodeError(t, rr))
	})
}

func TestCredentialHandler_Providers(t *testing.T) {
	t.Run("Store a YouTube key", func(t *testing.T) {
		router, _, mockCreds := setupRouter(t)
		mockCreds.On("SaveFor", mock.Anything, service.ProviderYouTube, "AIza-youtube-cccc").Return().Once()
		mockCreds.On("StatusFor", mock.Anything, service.ProviderYouTube).Return(model.KeyStatus{Configured: true, MaskedKey: "AIza...cccc"}).Once()

		req := httptest.NewRequest(http.MethodPut, "/api/v1/credentials/youtube", strings.NewReader(`{"api_key":"AIza-youtube-cccc"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"configured":true,"masked_key":"AIza...cccc"}`, rr.Body.String())
	})

	t.Run("Google status", func(t *testing.T) {
		router, _, mockCreds := setupRouter(t)
		mockCreds.On("StatusFor", mock.Anything, service.ProviderGoogle).Return(model.KeyStatus{}).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/credentials/google", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"configured":false}`, rr.Body.String())
	})

	t.Run("Clear a Google key", func(t *testing.T) {
		router, _, mockCreds := setupRouter(t)
		mockCreds.On("ClearFor", mock.Anything, service.ProviderGoogle).Return().Once()

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/credentials/google", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("OpenAI goes through the chat service", func(t *testing.T) {
		router, mockChat, _ := setupRouter(t)
		mockChat.On("UpdateAPIKey", mock.Anything, "sk-test-12345678").Return().Once()
		mockChat.On("KeyStatus", mock.Anything).Return(model.KeyStatus{Configured: true, MaskedKey: "sk-t...5678"}).Once()

		req := httptest.NewRequest(http.MethodPut, "/api/v1/credentials/openai", strings.NewReader(`{"api_key":"sk-test-12345678"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Unknown provider", func(t *testing.T) {
		router, _, _ := setupRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/credentials/dropbox", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
