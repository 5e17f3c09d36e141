package adapter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"cryptem/internal/domain"
)

// EvoAgent sends chat messages to an Evo AI agent over JSON-RPC 2.0
type EvoAgent struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewEvoAgent creates a new Evo AI agent client
func NewEvoAgent(baseURL, apiKey string, timeout time.Duration, log logrus.FieldLogger) *EvoAgent {
	return &EvoAgent{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.WithField("component", "evo_agent"),
	}
}

// Configured reports whether an agent URL is set
func (a *EvoAgent) Configured() bool {
	return a.baseURL != ""
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      string    `json:"id"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
}

type rpcParams struct {
	Message rpcMessage `json:"message"`
}

type rpcMessage struct {
	Role      string    `json:"role"`
	MessageID string    `json:"messageId"`
	Parts     []rpcPart `json:"parts"`
}

type rpcPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Send calls message/send and returns the JSON-RPC reply unchanged
func (a *EvoAgent) Send(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error) {
	if !a.Configured() {
		return nil, fmt.Errorf("%w: EVO_AI_AGENT_BASE_URL is empty", ErrNotConfigured)
	}

	payload := rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  "message/send",
		Params: rpcParams{
			Message: rpcMessage{
				Role:      "user",
				MessageID: uuid.NewString(),
				Parts:     []rpcPart{{Type: "text", Text: req.Message}},
			},
		},
	}

	headers := map[string]string{
		"x-api-key": a.apiKey,
	}

	reply, err := doJSON(ctx, a.httpClient, "Evo AI agent", http.MethodPost, a.baseURL, headers, payload)
	if err != nil {
		return nil, err
	}

	// JSON-RPC errors arrive with HTTP 200; they are relayed as-is
	if rpcErr := gjson.GetBytes(reply.Body, "error.message"); rpcErr.Exists() {
		a.log.WithFields(logrus.Fields{
			"rpc_id":    payload.ID,
			"rpc_code":  gjson.GetBytes(reply.Body, "error.code").Int(),
			"rpc_error": rpcErr.String(),
		}).Warn("Agent returned a JSON-RPC error")
	}

	return reply, nil
}

// ChatRouter sends chat to the Evo agent when configured, otherwise to Flask
type ChatRouter struct {
	agent    *EvoAgent
	fallback domain.ChatService
}

// NewChatRouter creates the chat service used by the chat proxy
func NewChatRouter(agent *EvoAgent, fallback domain.ChatService) *ChatRouter {
	return &ChatRouter{agent: agent, fallback: fallback}
}

// Send implements domain.ChatService
func (r *ChatRouter) Send(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error) {
	if r.agent != nil && r.agent.Configured() {
		return r.agent.Send(ctx, req)
	}
	if r.fallback == nil {
		return nil, fmt.Errorf("%w: no chat upstream", ErrNotConfigured)
	}
	return r.fallback.Send(ctx, req)
}
