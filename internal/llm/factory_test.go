package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_errors "coach-ai/backend/internal/errors"
	"coach-ai/backend/internal/model"
)

const completionBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "gpt-3.5-turbo",
	"choices": [{"index": 0, "message": {"role": "assistant", "content": "Keep your eye on the ball"}, "finish_reason": "stop"}],
	"usage": {"prompt_tokens": 12, "completion_tokens": 6, "total_tokens": 18}
}`

func newTestFactory(url string) *ClientFactory {
	return NewClientFactory(TransportConfig{
		BaseURL:        url,
		ConnectTimeout: time.Second,
		ReadTimeout:    time.Second,
		WriteTimeout:   time.Second,
	})
}

func testRequest() *model.ChatRequest {
	return &model.ChatRequest{
		Model: "gpt-3.5-turbo",
		Messages: []model.ConversationMessage{
			{Role: model.RoleSystem, Content: "You are a coach."},
			{Role: model.RoleUser, Content: "How do I improve my serve?"},
		},
		MaxTokens:   500,
		Temperature: 0.7,
	}
}

func TestClientFactory_GetClient(t *testing.T) {
	t.Run("Same key returns the cached client", func(t *testing.T) {
		f := newTestFactory("http://unused")

		first := f.GetClient("sk-one-aaaaaaaa")
		second := f.GetClient("sk-one-aaaaaaaa")

		assert.Same(t, first, second)
		assert.Equal(t, uint64(1), f.Version())
	})

	t.Run("New key builds a new client and keeps the old one intact", func(t *testing.T) {
		f := newTestFactory("http://unused")

		first := f.GetClient("sk-one-aaaaaaaa").(*openAIClient)
		second := f.GetClient("sk-two-bbbbbbbb").(*openAIClient)

		assert.NotSame(t, first, second)
		assert.Equal(t, "sk-one-aaaaaaaa", first.apiKey)
		assert.Equal(t, "sk-two-bbbbbbbb", second.apiKey)
		assert.Equal(t, uint64(2), second.version)
	})

	t.Run("Reset forces a rebuild for the same key", func(t *testing.T) {
		f := newTestFactory("http://unused")

		first := f.GetClient("sk-one-aaaaaaaa")
		f.ResetClient()
		second := f.GetClient("sk-one-aaaaaaaa")

		assert.NotSame(t, first, second)
		assert.Equal(t, uint64(2), f.Version())
	})

	t.Run("Reset without a client is a no-op", func(t *testing.T) {
		f := newTestFactory("http://unused")
		assert.NotPanics(t, f.ResetClient)
		assert.Equal(t, uint64(0), f.Version())
	})
}

func TestClient_CreateChatCompletion(t *testing.T) {
	t.Run("Success decorates the request and decodes the reply", func(t *testing.T) {
		// ARRANGE
		var gotAuth, gotContentType, gotRequestID, gotPath string
		var gotBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotContentType = r.Header.Get("Content-Type")
			gotRequestID = r.Header.Get(RequestIDHeader)
			gotPath = r.URL.Path
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(completionBody))
		}))
		defer server.Close()

		client := newTestFactory(server.URL + "/v1").GetClient("sk-test-12345678")
		ctx := WithRequestID(context.Background(), "req-42")

		// ACT
		resp, err := client.CreateChatCompletion(ctx, testRequest())

		// ASSERT
		require.NoError(t, err)
		assert.Equal(t, "Bearer sk-test-12345678", gotAuth)
		assert.Equal(t, "application/json", gotContentType)
		assert.Equal(t, "req-42", gotRequestID)
		assert.Equal(t, "/v1/chat/completions", gotPath)
		assert.Equal(t, "gpt-3.5-turbo", gotBody["model"])
		assert.EqualValues(t, 500, gotBody["max_tokens"])
		assert.Len(t, gotBody["messages"], 2)

		assert.Equal(t, "Keep your eye on the ball", resp.Reply())
		assert.Equal(t, "chatcmpl-1", resp.ID)
		assert.Equal(t, time.Unix(1700000000, 0).UTC(), resp.Created)
		assert.Equal(t, 18, resp.Usage.TotalTokens)
		assert.Equal(t, "stop", resp.Choices[0].FinishReason)
	})

	t.Run("Key swap applies to the next request only", func(t *testing.T) {
		var auths []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auths = append(auths, r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(completionBody))
		}))
		defer server.Close()

		f := newTestFactory(server.URL)
		old := f.GetClient("sk-old-aaaaaaaa")
		_, err := old.CreateChatCompletion(context.Background(), testRequest())
		require.NoError(t, err)

		fresh := f.GetClient("sk-new-bbbbbbbb")
		_, err = fresh.CreateChatCompletion(context.Background(), testRequest())
		require.NoError(t, err)
		_, err = old.CreateChatCompletion(context.Background(), testRequest())
		require.NoError(t, err)

		assert.Equal(t, []string{"Bearer sk-old-aaaaaaaa", "Bearer sk-new-bbbbbbbb", "Bearer sk-old-aaaaaaaa"}, auths)
	})

	t.Run("Invalid request is rejected before sending", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))
		defer server.Close()

		req := testRequest()
		req.Messages = nil
		_, err := newTestFactory(server.URL).GetClient("sk-test-12345678").CreateChatCompletion(context.Background(), req)

		assert.ErrorIs(t, err, app_errors.ErrValidation)
		assert.Zero(t, calls.Load())
	})
}

func TestClient_ErrorClassification(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		body        string
		wantErr     error
		wantMessage string
	}{
		{"Unauthorized", http.StatusUnauthorized, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`, app_errors.ErrInvalidKey, "Invalid API key. Please check your OpenAI API key."},
		{"Rate limited", http.StatusTooManyRequests, `{"error":{"message":"Rate limit reached","type":"requests"}}`, app_errors.ErrRateLimited, "Rate limit exceeded. Please try again later."},
		{"Internal server error", http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`, app_errors.ErrUnavailable, "OpenAI service is temporarily unavailable."},
		{"Service unavailable without JSON body", http.StatusServiceUnavailable, `upstream down`, app_errors.ErrUnavailable, "OpenAI service is temporarily unavailable."},
		{"Other status", http.StatusTeapot, `{"error":{"message":"short and stout","type":"teapot"}}`, app_errors.ErrHTTPStatus, "Error: 418 I'm a teapot"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := newTestFactory(server.URL).GetClient("sk-test-12345678").CreateChatCompletion(context.Background(), testRequest())

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.wantMessage, app_errors.UserMessage(err))
		})
	}

	t.Run("Connection refused is a transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		_, err := newTestFactory(url).GetClient("sk-test-12345678").CreateChatCompletion(context.Background(), testRequest())

		assert.ErrorIs(t, err, app_errors.ErrTransport)
		assert.Contains(t, app_errors.UserMessage(err), "Network error: ")
	})

	t.Run("Slow response hits the read timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer server.Close()
		defer close(release)

		f := NewClientFactory(TransportConfig{
			BaseURL:        server.URL,
			ConnectTimeout: time.Second,
			ReadTimeout:    50 * time.Millisecond,
			WriteTimeout:   time.Second,
		})
		_, err := f.GetClient("sk-test-12345678").CreateChatCompletion(context.Background(), testRequest())

		assert.ErrorIs(t, err, app_errors.ErrTransport)
	})

	t.Run("Malformed success body is a transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		}))
		defer server.Close()

		_, err := newTestFactory(server.URL).GetClient("sk-test-12345678").CreateChatCompletion(context.Background(), testRequest())

		assert.ErrorIs(t, err, app_errors.ErrTransport)
	})
}

func TestClassify(t *testing.T) {
	assert.NoError(t, Classify(nil))

	validation := app_errors.ErrValidation
	assert.Same(t, validation, Classify(validation))

	assert.ErrorIs(t, Classify(context.DeadlineExceeded), app_errors.ErrTransport)
	assert.ErrorIs(t, Classify(context.DeadlineExceeded), context.DeadlineExceeded)
}

func TestRequestIDFromContext(t *testing.T) {
	_, ok := RequestIDFromContext(context.Background())
	assert.False(t, ok)

	id, ok := RequestIDFromContext(WithRequestID(context.Background(), "abc"))
	assert.True(t, ok)
	assert.Equal(t, "abc", id)
}

func TestLimiter(t *testing.T) {
	assert.Nil(t, newLimiter(0))
	l := newLimiter(120)
	require.NotNil(t, l)
	assert.InDelta(t, 2.0, float64(l.Limit()), 1e-9)
}

func TestTransportConfig_Timeout(t *testing.T) {
	cfg := TransportConfig{ConnectTimeout: 30 * time.Second, ReadTimeout: 30 * time.Second, WriteTimeout: 30 * time.Second}
	assert.Equal(t, 90*time.Second, cfg.Timeout())

	transport := newHTTPTransport(cfg)
	assert.Equal(t, 30*time.Second, transport.TLSHandshakeTimeout)
	assert.Equal(t, 30*time.Second, transport.ResponseHeaderTimeout)
}
