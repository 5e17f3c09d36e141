package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptem/internal/domain"
	"cryptem/internal/logging"
)

func TestEvoAgent_SendBuildsJSONRPC(t *testing.T) {
	var got rpcRequest
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("x-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":{"status":{"state":"completed"}}}`))
	}))
	defer srv.Close()

	agent := NewEvoAgent(srv.URL, "key-123", time.Second, logging.Discard())
	reply, err := agent.Send(context.Background(), domain.ChatRequest{Message: "qual o melhor sinal?"})
	require.NoError(t, err)

	assert.Equal(t, "key-123", apiKey)
	assert.Equal(t, "2.0", got.JSONRPC)
	assert.Equal(t, "message/send", got.Method)
	_, err = uuid.Parse(got.ID)
	assert.NoError(t, err)
	assert.Equal(t, "user", got.Params.Message.Role)
	require.Len(t, got.Params.Message.Parts, 1)
	assert.Equal(t, "text", got.Params.Message.Parts[0].Type)
	assert.Equal(t, "qual o melhor sinal?", got.Params.Message.Parts[0].Text)

	assert.Contains(t, string(reply.Body), `"completed"`)
}

func TestEvoAgent_RPCErrorIsRelayed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":"1","error":{"code":-32600,"message":"bad"}}`))
	}))
	defer srv.Close()

	reply, err := NewEvoAgent(srv.URL, "k", time.Second, logging.Discard()).
		Send(context.Background(), domain.ChatRequest{Message: "x"})
	require.NoError(t, err)
	assert.Contains(t, string(reply.Body), `"bad"`)
}

func TestEvoAgent_UpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"invalid api key"}`))
	}))
	defer srv.Close()

	_, err := NewEvoAgent(srv.URL, "wrong", time.Second, logging.Discard()).
		Send(context.Background(), domain.ChatRequest{Message: "x"})

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
}

type stubChat struct {
	calls int
}

func (s *stubChat) Send(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error) {
	s.calls++
	return &domain.ChatReply{StatusCode: http.StatusOK, Body: []byte(`{}`)}, nil
}

func TestChatRouter(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	fallback := &stubChat{}

	unconfigured := NewChatRouter(NewEvoAgent("", "", time.Second, logging.Discard()), fallback)
	_, err := unconfigured.Send(context.Background(), domain.ChatRequest{Message: "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, fallback.calls)
	assert.Zero(t, hits)

	configured := NewChatRouter(NewEvoAgent(srv.URL, "k", time.Second, logging.Discard()), fallback)
	_, err = configured.Send(context.Background(), domain.ChatRequest{Message: "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, fallback.calls)
	assert.Equal(t, 1, hits)

	_, err = NewChatRouter(nil, nil).Send(context.Background(), domain.ChatRequest{Message: "x"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
