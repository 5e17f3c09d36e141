package domain

import "context"

// ChatService forwards a chat message to the AI agent and returns the raw upstream reply
type ChatService interface {
	Send(ctx context.Context, req ChatRequest) (*ChatReply, error)
}

// ChatRequest is one user message plus the caller's bearer header
type ChatRequest struct {
	Message       string
	Authorization string
}

// ChatReply is the upstream status and JSON body, relayed verbatim
type ChatReply struct {
	StatusCode int
	Body       []byte
}

// SignalSource fetches the raw signal list from the signal service
type SignalSource interface {
	FetchSignals(ctx context.Context) ([]byte, error)
}

// Notifier delivers out-of-band notifications
type Notifier interface {
	NotifyRegistration(ctx context.Context, user PublicUser) error
}
