package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/horacerta/internal/models"
)

func TestDerive(t *testing.T) {
	full := models.Chat{
		ID:           "c1",
		CustomerID:   "cust",
		Email:        "a@b.com",
		Document:     "11144477735",
		BarbershopID: "shop",
		BarberID:     "barber",
		ServiceID:    "svc",
		Date:         "2025-01-16",
		Time:         "10:00",
		ScheduleID:   "sch",
	}

	cases := []struct {
		name   string
		mutate func(c *models.Chat)
		want   State
	}{
		{"unsaved", func(c *models.Chat) { c.ID = "" }, StateNew},
		{"finished wins", func(c *models.Chat) { c.Finished = true; c.IsCanceling = true }, StateFinished},
		{"canceling", func(c *models.Chat) { c.IsCanceling = true }, StateAwaitingCancelSelection},
		{"no identity", func(c *models.Chat) { c.CustomerID = ""; c.Email = "" }, StateAwaitingEmail},
		{"email only", func(c *models.Chat) { c.CustomerID = "" }, StateAwaitingCPF},
		{"no shop", func(c *models.Chat) { c.BarbershopID = "" }, StateAwaitingShop},
		{"no staff", func(c *models.Chat) { c.BarberID = "" }, StateAwaitingStaff},
		{"no service", func(c *models.Chat) { c.ServiceID = "" }, StateAwaitingService},
		{"no date", func(c *models.Chat) { c.Date = "" }, StateAwaitingDate},
		{"no time", func(c *models.Chat) { c.Time = "" }, StateAwaitingTime},
		{"no schedule", func(c *models.Chat) { c.ScheduleID = "" }, StateAwaitingTime},
		{"complete", func(c *models.Chat) {}, StateAwaitingConfirmation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := full
			tc.mutate(&c)
			assert.Equal(t, tc.want, Derive(&c))
		})
	}

	assert.Equal(t, StateNew, Derive(nil))
}

func TestClearBookingKeepsIdentity(t *testing.T) {
	c := models.Chat{
		ID: "c1", CustomerID: "cust", Email: "a@b.com", Document: "1",
		BarbershopID: "shop", BarberID: "b", ServiceID: "s", Date: "d", Time: "t",
		ScheduleID: "sch", OrderID: "o", PixCode: "pix",
	}

	ClearBooking(&c)

	assert.Equal(t, "cust", c.CustomerID)
	assert.Equal(t, "a@b.com", c.Email)
	assert.Empty(t, c.BarbershopID)
	assert.Empty(t, c.BarberID)
	assert.Empty(t, c.ServiceID)
	assert.Empty(t, c.Date)
	assert.Empty(t, c.Time)
	assert.Empty(t, c.ScheduleID)
	assert.Empty(t, c.OrderID)
	assert.Empty(t, c.PixCode)
	assert.Equal(t, StateAwaitingShop, Derive(&c))
}

func TestEventCommands(t *testing.T) {
	assert.True(t, Event{Text: " Resetar "}.IsResetText())
	assert.True(t, Event{ButtonID: "resetar"}.IsResetButton())
	assert.False(t, Event{Text: "resetar"}.IsResetButton())
	assert.True(t, Event{Text: "CANCELAR"}.IsCancelText())
	assert.True(t, Event{ButtonID: "confirmar"}.IsConfirmButton())

	e := Event{Phone: "p", SenderName: "n", Text: "x", ButtonID: "b", ListRowID: "r", ListTitle: "t"}
	assert.Equal(t, Event{Phone: "p", SenderName: "n"}, e.Consumed())
}
