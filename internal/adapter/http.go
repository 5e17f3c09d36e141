package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"cryptem/internal/domain"
)

// maxBodyBytes bounds how much of an upstream reply is read
const maxBodyBytes = 4 << 20

// doJSON sends payload (if non-nil) and returns the reply.
// Transport failures wrap ErrUpstreamUnavailable; non-2xx replies are *UpstreamError.
func doJSON(ctx context.Context, client *http.Client, service, method, url string, headers map[string]string, payload any) (*domain.ChatReply, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s request: %w", service, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", service, err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to call %s: %v", ErrUpstreamUnavailable, service, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s response: %v", ErrUpstreamUnavailable, service, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Body:       respBody,
		}
	}

	return &domain.ChatReply{
		StatusCode: resp.StatusCode,
		Body:       respBody,
	}, nil
}
