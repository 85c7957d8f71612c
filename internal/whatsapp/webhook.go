package whatsapp

import (
	"github.com/BruksfildServices01/horacerta/internal/domain/chat"
	"github.com/BruksfildServices01/horacerta/internal/validators"
)

// Inbound is the payload Z-API posts for received messages.
type Inbound struct {
	Phone      string `json:"phone"`
	SenderName string `json:"senderName"`
	FromMe     bool   `json:"fromMe"`
	IsGroup    bool   `json:"isGroup"`

	Text *struct {
		Message string `json:"message"`
	} `json:"text,omitempty"`

	ButtonsResponseMessage *struct {
		ButtonID string `json:"buttonId"`
		Message  string `json:"message"`
	} `json:"buttonsResponseMessage,omitempty"`

	ListResponseMessage *struct {
		SelectedRowID string `json:"selectedRowId"`
		Title         string `json:"title"`
		Message       string `json:"message"`
	} `json:"listResponseMessage,omitempty"`
}

// Ignored reports events the engine must not react to: our own messages,
// group chats and payloads without a sender.
func (in Inbound) Ignored() bool {
	return in.FromMe || in.IsGroup || validators.OnlyDigits(in.Phone) == ""
}

// Event converts the payload into an engine event, keeping the three
// message shapes apart.
func (in Inbound) Event() chat.Event {
	ev := chat.Event{
		Phone:      validators.OnlyDigits(in.Phone),
		SenderName: in.SenderName,
	}

	switch {
	case in.ButtonsResponseMessage != nil:
		ev.ButtonID = in.ButtonsResponseMessage.ButtonID
	case in.ListResponseMessage != nil:
		ev.ListRowID = in.ListResponseMessage.SelectedRowID
		ev.ListTitle = in.ListResponseMessage.Title
	case in.Text != nil:
		ev.Text = in.Text.Message
	}

	return ev
}
