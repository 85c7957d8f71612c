package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/usecase/payment"
)

type WebhookProcessor interface {
	Execute(ctx context.Context, in payment.WebhookInput) (payment.WebhookResult, error)
}

type PaymentHandler struct {
	webhook WebhookProcessor
}

func NewPaymentHandler(webhook WebhookProcessor) *PaymentHandler {
	return &PaymentHandler{webhook: webhook}
}

// WebhookRequest is the gateway notification. Some notifications carry the
// id only in the query string.
type WebhookRequest struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (h *PaymentHandler) Webhook(c *gin.Context) {
	var req WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Query("data.id") == "" {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	in := payment.WebhookInput{Type: req.Type, GatewayID: req.Data.ID}
	if in.GatewayID == "" {
		in.GatewayID = c.Query("data.id")
	}
	if in.Type == "" {
		in.Type = c.Query("type")
	}

	res, err := h.webhook.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
