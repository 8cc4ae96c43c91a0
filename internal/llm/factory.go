package llm

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"coach-ai/backend/internal/secure"
)

// ClientFactory builds clients bound to an API key.
//
// Clients are immutable: asking for a different key returns a new client and
// leaves earlier ones untouched, so a request already in flight keeps the key
// it started with. All clients share one connection pool until ResetClient.
type ClientFactory struct {
	cfg     TransportConfig
	limiter *rate.Limiter

	mu        sync.Mutex
	transport *http.Transport
	current   *openAIClient
	version   uint64
}

func NewClientFactory(cfg TransportConfig) *ClientFactory {
	return &ClientFactory{
		cfg:     cfg,
		limiter: newLimiter(cfg.RequestsPerMinute),
	}
}

// GetClient returns the cached client when apiKey matches it, or builds a new one.
func (f *ClientFactory) GetClient(apiKey string) Client {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.current != nil && f.current.apiKey == apiKey {
		return f.current
	}

	if f.transport == nil {
		f.transport = newHTTPTransport(f.cfg)
		slog.Debug("Built HTTP transport", "base_url", f.cfg.BaseURL, "timeout", f.cfg.Timeout())
	}

	f.version++
	clientConfig := openai.DefaultConfig(apiKey)
	if f.cfg.BaseURL != "" {
		clientConfig.BaseURL = f.cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: &authTransport{base: f.transport, apiKey: apiKey, limiter: f.limiter},
		Timeout:   f.cfg.Timeout(),
	}

	f.current = &openAIClient{
		api:         openai.NewClientWithConfig(clientConfig),
		apiKey:      apiKey,
		fingerprint: secure.Fingerprint(apiKey),
		version:     f.version,
	}
	slog.Info("Built API client", "key", f.current.fingerprint, "client_version", f.version)
	return f.current
}

// ResetClient drops the cached client and its connection pool. The next
// GetClient starts from scratch.
func (f *ClientFactory) ResetClient() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.transport != nil {
		f.transport.CloseIdleConnections()
	}
	f.transport = nil
	f.current = nil
	slog.Debug("API client reset")
}

// Version counts the clients built so far.
func (f *ClientFactory) Version() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.version
}
