package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/httpresp"
	"github.com/BruksfildServices01/horacerta/internal/middleware"
	ucSubscription "github.com/BruksfildServices01/horacerta/internal/usecase/subscription"
)

type SubscriptionHandler struct {
	create *ucSubscription.Create
	cancel *ucSubscription.Cancel
}

func NewSubscriptionHandler(create *ucSubscription.Create, cancel *ucSubscription.Cancel) *SubscriptionHandler {
	return &SubscriptionHandler{create: create, cancel: cancel}
}

type CreateSubscriptionRequest struct {
	PlanID     string `json:"plan_id" binding:"required"`
	BarberID   string `json:"barber_id" binding:"required"`
	ScheduleID string `json:"schedule_id" binding:"required"`
}

func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	out, err := h.create.Execute(c.Request.Context(), ucSubscription.CreateInput{
		CustomerID: middleware.CustomerID(c),
		PlanID:     req.PlanID,
		BarberID:   req.BarberID,
		ScheduleID: req.ScheduleID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, out)
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	sub, err := h.cancel.Execute(c.Request.Context(), c.Param("id"), middleware.CustomerID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, sub)
}
