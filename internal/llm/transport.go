package llm

import (
	"context"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// RequestIDHeader carries the per-send correlation ID to the provider.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// WithRequestID attaches a correlation ID that outgoing requests will carry.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the ID set by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// authTransport decorates every outgoing request with the key it was built for.
// Requests are cloned, so the caller's request is never mutated.
type authTransport struct {
	base    http.RoundTripper
	apiKey  string
	limiter *rate.Limiter
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(req.Context()); err != nil {
			if req.Body != nil {
				_ = req.Body.Close()
			}
			return nil, err
		}
	}

	r := req.Clone(req.Context())
	r.Header.Set("Content-Type", "application/json")
	if t.apiKey != "" {
		r.Header.Set("Authorization", "Bearer "+t.apiKey)
	} else {
		r.Header.Del("Authorization")
	}
	if id, ok := RequestIDFromContext(req.Context()); ok {
		r.Header.Set(RequestIDHeader, id)
	}
	return t.base.RoundTrip(r)
}

// TransportConfig holds the connection settings shared by every client.
type TransportConfig struct {
	BaseURL           string
	ConnectTimeout    time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	RequestsPerMinute int
}

// Timeout is the overall deadline of one call.
func (c TransportConfig) Timeout() time.Duration {
	return c.ConnectTimeout + c.WriteTimeout + c.ReadTimeout
}

func newHTTPTransport(cfg TransportConfig) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

func newLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), 1)
}
