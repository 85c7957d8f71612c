package chat

import "github.com/BruksfildServices01/horacerta/internal/models"

type State string

const (
	StateNew                     State = "NEW"
	StateAwaitingCancelSelection State = "AWAITING_CANCEL_SELECTION"
	StateAwaitingEmail           State = "AWAITING_EMAIL"
	StateAwaitingCPF             State = "AWAITING_CPF"
	StateAwaitingShop            State = "AWAITING_SHOP"
	StateAwaitingStaff           State = "AWAITING_STAFF"
	StateAwaitingService         State = "AWAITING_SERVICE"
	StateAwaitingDate            State = "AWAITING_DATE"
	StateAwaitingTime            State = "AWAITING_TIME"
	StateAwaitingConfirmation    State = "AWAITING_CONFIRMATION_OR_PAYMENT"
	StateFinished                State = "FINISHED"
)

// Derive computes the conversation step from which slots are filled. The
// order is fixed: identity, shop, staff, service, date, time, then payment.
func Derive(c *models.Chat) State {
	switch {
	case c == nil || c.ID == "":
		return StateNew
	case c.Finished:
		return StateFinished
	case c.IsCanceling:
		return StateAwaitingCancelSelection
	case c.CustomerID == "" && c.Email == "":
		return StateAwaitingEmail
	case c.CustomerID == "":
		return StateAwaitingCPF
	case c.BarbershopID == "":
		return StateAwaitingShop
	case c.BarberID == "":
		return StateAwaitingStaff
	case c.ServiceID == "":
		return StateAwaitingService
	case c.Date == "":
		return StateAwaitingDate
	case c.Time == "" || c.ScheduleID == "":
		return StateAwaitingTime
	default:
		return StateAwaitingConfirmation
	}
}

// ClearBooking drops every slot after identity.
func ClearBooking(c *models.Chat) {
	c.BarbershopID = ""
	ClearFromStaff(c)
}

// ClearFromStaff drops staff and everything that depends on it.
func ClearFromStaff(c *models.Chat) {
	c.BarberID = ""
	ClearFromService(c)
}

func ClearFromService(c *models.Chat) {
	c.ServiceID = ""
	ClearFromDate(c)
}

func ClearFromDate(c *models.Chat) {
	c.Date = ""
	ClearTime(c)
}

// ClearTime drops the chosen slot and any pending payment for it.
func ClearTime(c *models.Chat) {
	c.Time = ""
	c.ScheduleID = ""
	c.OrderID = ""
	c.PixCode = ""
}
