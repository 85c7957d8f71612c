package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/httpresp"
	"github.com/BruksfildServices01/horacerta/internal/models"
	"github.com/BruksfildServices01/horacerta/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/horacerta/internal/usecase/appointment"
	"github.com/BruksfildServices01/horacerta/internal/validators"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db           *gorm.DB
	availability *ucAppointment.GetAvailability
}

func NewPublicHandler(db *gorm.DB, availability *ucAppointment.GetAvailability) *PublicHandler {
	return &PublicHandler{db: db, availability: availability}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type publicDate struct {
	Date       string `json:"date"`
	Label      string `json:"label"`
	ScheduleID string `json:"schedule_id"`
}

type publicTime struct {
	ScheduleID string `json:"schedule_id"`
	Time       string `json:"time"`
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) ListShops(c *gin.Context) {
	var shops []models.Barbershop
	if err := h.db.WithContext(c.Request.Context()).
		Where("hidden = ?", false).
		Order("name ASC").
		Find(&shops).Error; err != nil {
		httperr.Internal(c, "failed_to_list_barbershops", "Erro ao listar barbearias.")
		return
	}

	httpresp.List(c, shops)
}

func (h *PublicHandler) ListServices(c *gin.Context) {
	var services []models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("barbershop_id = ?", c.Param("shopId")).
		Order("name ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	httpresp.List(c, services)
}

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	var barbers []models.Barber
	if err := h.db.WithContext(c.Request.Context()).
		Where("barbershop_id = ?", c.Param("shopId")).
		Order("name ASC").
		Find(&barbers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Erro ao listar profissionais.")
		return
	}

	httpresp.List(c, barbers)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Dates(c *gin.Context) {
	barberID := c.Query("barber_id")
	if barberID == "" {
		httperr.BadRequest(c, "missing_barber_id", "Informe o profissional.")
		return
	}

	dates, err := h.availability.Dates(c.Request.Context(), c.Param("shopId"), barberID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]publicDate, 0, len(dates))
	for _, d := range dates {
		out = append(out, publicDate{
			Date:       timezone.FormatDate(d.Date),
			Label:      validators.FormatBRDate(d.Date),
			ScheduleID: d.ScheduleID,
		})
	}
	httpresp.List(c, out)
}

func (h *PublicHandler) Times(c *gin.Context) {
	barberID := c.Query("barber_id")
	date := c.Query("date")
	if barberID == "" || date == "" {
		httperr.BadRequest(c, "missing_parameters", "Informe o profissional e a data.")
		return
	}

	schedules, err := h.availability.Times(c.Request.Context(), c.Param("shopId"), barberID, date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]publicTime, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, publicTime{ScheduleID: s.ID, Time: s.Time})
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"data":  out,
		"total": len(out),
	})
}
