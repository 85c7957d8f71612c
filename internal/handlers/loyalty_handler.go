package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/httpresp"
	"github.com/BruksfildServices01/horacerta/internal/middleware"
	ucLoyalty "github.com/BruksfildServices01/horacerta/internal/usecase/loyalty"
)

type LoyaltyHandler struct {
	count  *ucLoyalty.CountStamps
	redeem *ucLoyalty.RedeemReward
}

func NewLoyaltyHandler(count *ucLoyalty.CountStamps, redeem *ucLoyalty.RedeemReward) *LoyaltyHandler {
	return &LoyaltyHandler{count: count, redeem: redeem}
}

type RedeemRequest struct {
	BarbershopID string `json:"barbershop_id" binding:"required"`
}

func (h *LoyaltyHandler) Stamps(c *gin.Context) {
	shopID := c.Query("barbershop_id")
	if shopID == "" {
		httperr.BadRequest(c, "missing_barbershop_id", "Informe a barbearia.")
		return
	}

	card, err := h.count.Execute(c.Request.Context(), middleware.CustomerID(c), shopID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, card)
}

func (h *LoyaltyHandler) Redeem(c *gin.Context) {
	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	entry, err := h.redeem.Execute(c.Request.Context(), middleware.CustomerID(c), req.BarbershopID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, entry)
}
