package adapter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cryptem/internal/domain"
)

// FlaskBridge talks to the Python/Flask signal service
type FlaskBridge struct {
	baseURL    string
	httpClient *http.Client
}

// NewFlaskBridge creates a new Flask service bridge
func NewFlaskBridge(baseURL string, timeout time.Duration) *FlaskBridge {
	return &FlaskBridge{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchSignals returns the raw body of GET /signals
func (fb *FlaskBridge) FetchSignals(ctx context.Context) ([]byte, error) {
	reply, err := doJSON(ctx, fb.httpClient, "Flask signal service", http.MethodGet, fb.baseURL+"/signals", nil, nil)
	if err != nil {
		return nil, err
	}
	return reply.Body, nil
}

// Send forwards a chat message to POST /api/chat with the caller's Authorization header
func (fb *FlaskBridge) Send(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error) {
	if fb.baseURL == "" {
		return nil, fmt.Errorf("%w: Flask URL is empty", ErrNotConfigured)
	}

	headers := map[string]string{
		"Authorization": req.Authorization,
	}

	return doJSON(ctx, fb.httpClient, "Flask chat service", http.MethodPost, fb.baseURL+"/api/chat", headers, map[string]string{
		"message": req.Message,
	})
}

// HealthCheck checks if the Flask service is healthy
func (fb *FlaskBridge) HealthCheck(ctx context.Context) error {
	_, err := doJSON(ctx, fb.httpClient, "Flask service", http.MethodGet, fb.baseURL+"/health", nil, nil)
	if err != nil {
		return fmt.Errorf("flask service is unhealthy: %w", err)
	}
	return nil
}
