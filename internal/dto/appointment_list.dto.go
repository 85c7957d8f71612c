package dto

import (
	"time"

	"github.com/BruksfildServices01/horacerta/internal/models"
	"github.com/BruksfildServices01/horacerta/internal/timezone"
)

type AppointmentListDTO struct {
	ID             string    `json:"id"`
	Date           time.Time `json:"date"`
	Day            string    `json:"day"`
	Time           string    `json:"time"`
	BarbershopID   string    `json:"barbershop_id"`
	BarbershopName string    `json:"barbershop_name"`
	BarberName     string    `json:"barber_name"`
	ServiceName    string    `json:"service_name"`
	Amount         int64     `json:"amount"`
}

// NewAppointmentList renders appointments in each shop's own timezone.
func NewAppointmentList(apps []models.Appointment, fallback *time.Location) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		loc := timezone.Resolve("", fallback)
		item := AppointmentListDTO{
			ID:           ap.ID,
			Date:         ap.Date,
			BarbershopID: ap.BarbershopID,
		}
		if ap.Barbershop != nil {
			loc = timezone.Resolve(ap.Barbershop.Timezone, fallback)
			item.BarbershopName = ap.Barbershop.Name
		}
		if ap.Barber != nil {
			item.BarberName = ap.Barber.Name
		}
		if ap.Service != nil {
			item.ServiceName = ap.Service.Name
			item.Amount = ap.Service.Amount
		}

		local := ap.Date.In(loc)
		item.Day = timezone.FormatDate(local)
		item.Time = local.Format("15:04")

		out = append(out, item)
	}
	return out
}
