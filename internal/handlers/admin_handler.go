package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/horacerta/internal/usecase/appointment"
	ucSchedule "github.com/BruksfildServices01/horacerta/internal/usecase/schedule"
)

// AdminHandler serves operator endpoints behind the admin token.
type AdminHandler struct {
	schedules   *ucSchedule.CreateSchedules
	materialize *ucAppointment.MaterializeSubscriptions
}

func NewAdminHandler(
	schedules *ucSchedule.CreateSchedules,
	materialize *ucAppointment.MaterializeSubscriptions,
) *AdminHandler {
	return &AdminHandler{schedules: schedules, materialize: materialize}
}

type CreateSchedulesRequest struct {
	Items []ucSchedule.Item `json:"items" binding:"required,min=1,dive"`
}

func (h *AdminHandler) CreateSchedules(c *gin.Context) {
	var req CreateSchedulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	created, err := h.schedules.Execute(c.Request.Context(), req.Items)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.CreatedList(c, created)
}

// MaterializeSubscriptions runs the weekly job on demand.
func (h *AdminHandler) MaterializeSubscriptions(c *gin.Context) {
	report, err := h.materialize.Execute(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, report)
}
