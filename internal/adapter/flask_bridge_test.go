package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptem/internal/domain"
)

func TestFlaskBridge_SendForwardsAuthorization(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"reply":"oi"}`))
	}))
	defer srv.Close()

	fb := NewFlaskBridge(srv.URL+"/", time.Second)
	reply, err := fb.Send(context.Background(), domain.ChatRequest{Message: "hello", Authorization: "Bearer abc"})
	require.NoError(t, err)

	assert.Equal(t, "/api/chat", gotPath)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "hello", gotBody["message"])
	assert.Equal(t, http.StatusOK, reply.StatusCode)
	assert.JSONEq(t, `{"reply":"oi"}`, string(reply.Body))
}

func TestFlaskBridge_UpstreamErrorIsRelayed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"slow down"}`))
	}))
	defer srv.Close()

	_, err := NewFlaskBridge(srv.URL, time.Second).Send(context.Background(), domain.ChatRequest{Message: "x"})

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
	assert.JSONEq(t, `{"error":"slow down"}`, string(upstream.Body))
	assert.NotErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestFlaskBridge_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewFlaskBridge(url, time.Second).Send(context.Background(), domain.ChatRequest{Message: "x"})
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)

	_, err = NewFlaskBridge(url, time.Second).FetchSignals(context.Background())
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestFlaskBridge_NotConfigured(t *testing.T) {
	_, err := NewFlaskBridge("", time.Second).Send(context.Background(), domain.ChatRequest{Message: "x"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestFlaskBridge_FetchSignals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/signals", r.URL.Path)
		w.Write([]byte(`[{"symbol":"BTCUSDT"}]`))
	}))
	defer srv.Close()

	body, err := NewFlaskBridge(srv.URL, time.Second).FetchSignals(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"symbol":"BTCUSDT"}]`, string(body))
}

func TestFlaskBridge_HealthCheck(t *testing.T) {
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	defer srv.Close()

	fb := NewFlaskBridge(srv.URL, time.Second)
	require.NoError(t, fb.HealthCheck(context.Background()))

	status = http.StatusInternalServerError
	assert.Error(t, fb.HealthCheck(context.Background()))
}
