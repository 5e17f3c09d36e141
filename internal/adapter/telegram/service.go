package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cryptem/internal/domain"
)

const defaultAPIURL = "https://api.telegram.org"

type NotificationService struct {
	botToken   string
	chatID     string
	enabled    bool
	apiURL     string
	location   *time.Location
	now        func() time.Time
	httpClient *http.Client
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

func NewNotificationService(botToken, chatID string, location *time.Location) *NotificationService {
	if location == nil {
		location = time.UTC
	}

	return &NotificationService{
		botToken: botToken,
		chatID:   chatID,
		enabled:  botToken != "" && chatID != "",
		apiURL:   defaultAPIURL,
		location: location,
		now:      time.Now,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithAPIURL points the service at another Bot API host
func (s *NotificationService) WithAPIURL(url string) *NotificationService {
	s.apiURL = strings.TrimRight(url, "/")
	return s
}

// Enabled reports whether both bot token and chat id are set
func (s *NotificationService) Enabled() bool {
	return s.enabled
}

// NotifyRegistration reports a new account to the admin chat
func (s *NotificationService) NotifyRegistration(ctx context.Context, user domain.PublicUser) error {
	if !s.enabled {
		return nil
	}

	message := fmt.Sprintf(
		"🆕 *NOVO USUÁRIO*\n\n"+
			"👤 Email: `%s`\n"+
			"🔢 ID: `%d`\n"+
			"🕒 Data: `%s`",
		codeSpan(user.Email),
		user.ID,
		s.now().In(s.location).Format("2006-01-02 15:04:05"),
	)

	return s.sendMessage(ctx, message)
}

// sendMessage sends a message to Telegram using the Bot API
func (s *NotificationService) sendMessage(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiURL, s.botToken)

	payload := telegramMessage{
		ChatID:    s.chatID,
		Text:      text,
		ParseMode: "Markdown",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal telegram message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}

// codeSpan makes s safe inside a legacy Markdown code entity, which has no escapes
func codeSpan(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}
