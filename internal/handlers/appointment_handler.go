package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/horacerta/internal/dto"
	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/httpresp"
	"github.com/BruksfildServices01/horacerta/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/horacerta/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	listUpcoming *ucAppointment.ListUpcoming
	cancel       *ucAppointment.CancelAppointment
	location     *time.Location
}

func NewAppointmentHandler(
	listUpcoming *ucAppointment.ListUpcoming,
	cancel *ucAppointment.CancelAppointment,
	location *time.Location,
) *AppointmentHandler {
	return &AppointmentHandler{
		listUpcoming: listUpcoming,
		cancel:       cancel,
		location:     location,
	}
}

// ======================================================
// LIST (próximos agendamentos do cliente)
// ======================================================

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	apps, err := h.listUpcoming.Execute(c.Request.Context(), middleware.CustomerID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, dto.NewAppointmentList(apps, h.location))
}

// ======================================================
// CANCEL (estorna o valor para o saldo)
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	ap, err := h.cancel.Execute(c.Request.Context(), ucAppointment.CancelAppointmentInput{
		AppointmentID: c.Param("id"),
		CustomerID:    middleware.CustomerID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var refunded int64
	if ap.Service != nil {
		refunded = ap.Service.Amount
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       ap.ID,
		"refunded": refunded,
	})
}
