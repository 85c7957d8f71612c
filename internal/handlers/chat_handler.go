package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/horacerta/internal/domain/chat"
	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/whatsapp"
	"github.com/BruksfildServices01/horacerta/pkg/logging"
)

type ChatEngine interface {
	Handle(ctx context.Context, ev chat.Event) error
}

// ChatHandler receives the WhatsApp provider webhook.
type ChatHandler struct {
	engine ChatEngine
	logger *logging.Logger
}

func NewChatHandler(engine ChatEngine, logger *logging.Logger) *ChatHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{engine: engine, logger: logger}
}

func (h *ChatHandler) Receive(c *gin.Context) {
	var in whatsapp.Inbound
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if in.Ignored() {
		c.JSON(http.StatusOK, gin.H{"ignored": true})
		return
	}

	if err := h.engine.Handle(c.Request.Context(), in.Event()); err != nil {
		h.logger.Error("chat: event failed", "phone", in.Phone, "error", err)
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
