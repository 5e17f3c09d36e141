package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"cryptem/internal/adapter"
	"cryptem/internal/delivery/http/dto"
	"cryptem/internal/domain"
	"cryptem/internal/metrics"
)

// ChatHandler proxies chat messages to the AI upstream
type ChatHandler struct {
	chat domain.ChatService
	log  logrus.FieldLogger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chat domain.ChatService, log logrus.FieldLogger) *ChatHandler {
	return &ChatHandler{
		chat: chat,
		log:  log.WithField("handler", "chat"),
	}
}

// Chat forwards the message and relays the upstream reply
// POST /api/chat
func (h *ChatHandler) Chat(c echo.Context) error {
	var req dto.ChatRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if strings.TrimSpace(req.Message) == "" {
		return BadRequestResponse(c, "Message is required")
	}

	reply, err := h.chat.Send(c.Request().Context(), domain.ChatRequest{
		Message:       req.Message,
		Authorization: c.Request().Header.Get(echo.HeaderAuthorization),
	})
	if err != nil {
		return h.handleError(c, err)
	}

	metrics.RecordChat(metrics.ChatRelayed)
	return relay(c, reply.StatusCode, reply.Body)
}

func (h *ChatHandler) handleError(c echo.Context, err error) error {
	var upstream *adapter.UpstreamError
	switch {
	case errors.As(err, &upstream):
		metrics.RecordChat(metrics.ChatUpstreamErr)
		h.log.WithFields(logrus.Fields{
			"service": upstream.Service,
			"status":  upstream.StatusCode,
		}).Warn("Chat upstream returned an error")
		return relay(c, upstream.StatusCode, upstream.Body)

	case errors.Is(err, adapter.ErrUpstreamUnavailable):
		metrics.RecordChat(metrics.ChatUnavailable)
		h.log.WithError(err).Error("Chat upstream unreachable")
		return MessageResponse(c, http.StatusServiceUnavailable, "chat service unavailable")

	default:
		metrics.RecordChat(metrics.ChatFailed)
		h.log.WithError(err).Error("Chat request failed")
		return MessageResponse(c, http.StatusInternalServerError, "Internal error while processing chat request")
	}
}

// relay writes an upstream body as-is when it is JSON, otherwise wraps it
func relay(c echo.Context, status int, body []byte) error {
	if len(body) > 0 && gjson.ValidBytes(body) {
		return c.JSONBlob(status, body)
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return MessageResponse(c, status, msg)
}
