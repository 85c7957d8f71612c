package chat

import "strings"

const (
	CommandReset  = "resetar"
	CommandCancel = "cancelar"
	ButtonConfirm = "confirmar"
	ButtonReset   = "resetar"
)

// Event is one inbound message. Exactly one of Text, ButtonID or ListRowID
// is normally set; the engine clears them once consumed.
type Event struct {
	Phone      string
	SenderName string

	Text string

	ButtonID string

	ListRowID string
	ListTitle string
}

// Consumed keeps the sender and drops the payload.
func (e Event) Consumed() Event {
	return Event{Phone: e.Phone, SenderName: e.SenderName}
}

func (e Event) HasText() bool {
	return strings.TrimSpace(e.Text) != ""
}

func (e Event) HasButton() bool {
	return e.ButtonID != ""
}

func (e Event) HasListSelection() bool {
	return e.ListRowID != ""
}

func (e Event) IsResetText() bool {
	return strings.EqualFold(strings.TrimSpace(e.Text), CommandReset)
}

func (e Event) IsResetButton() bool {
	return e.ButtonID == ButtonReset
}

func (e Event) IsCancelText() bool {
	return strings.EqualFold(strings.TrimSpace(e.Text), CommandCancel)
}

func (e Event) IsConfirmButton() bool {
	return e.ButtonID == ButtonConfirm
}
