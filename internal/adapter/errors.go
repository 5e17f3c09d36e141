package adapter

import (
	"errors"
	"fmt"
)

// Upstream failure classes. Handlers map them to 503 and 500.
var (
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrNotConfigured       = errors.New("upstream not configured")
)

// UpstreamError is a non-2xx response from an upstream service
type UpstreamError struct {
	Service    string
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned error: status=%d, body=%s", e.Service, e.StatusCode, string(e.Body))
}
