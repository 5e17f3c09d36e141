package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptem/internal/domain"
)

func TestNotifyRegistration_Disabled(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	s := NewNotificationService("", "chat", nil).WithAPIURL(srv.URL)
	assert.False(t, s.Enabled())
	require.NoError(t, s.NotifyRegistration(context.Background(), domain.PublicUser{ID: 1}))
	assert.Zero(t, hits)
}

func TestNotifyRegistration_SendsMessage(t *testing.T) {
	var got telegramMessage
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewNotificationService("tok", "42", time.UTC).WithAPIURL(srv.URL)
	s.now = func() time.Time { return time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC) }

	err := s.NotifyRegistration(context.Background(), domain.PublicUser{ID: 7, Email: "new_user@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "/bottok/sendMessage", path)
	assert.Equal(t, "42", got.ChatID)
	assert.Equal(t, "Markdown", got.ParseMode)
	assert.Contains(t, got.Text, "`new_user@example.com`")
	assert.Contains(t, got.Text, "`7`")
	assert.Contains(t, got.Text, "2025-03-04 10:30:00")
}

func TestNotifyRegistration_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	s := NewNotificationService("tok", "42", nil).WithAPIURL(srv.URL)
	err := s.NotifyRegistration(context.Background(), domain.PublicUser{ID: 1, Email: "a@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}
