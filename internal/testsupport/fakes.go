package testsupport

import (
	"context"
	"fmt"
	"sync"

	"github.com/BruksfildServices01/horacerta/internal/domain/billing"
	"github.com/BruksfildServices01/horacerta/internal/domain/chat"
)

// FakeGateway records charges in memory. Set Err to make every call fail.
type FakeGateway struct {
	mu sync.Mutex

	Err       error
	Charges   []billing.PixRequest
	Payments  map[string]*billing.PaymentStatus
	Recurring []billing.RecurringRequest
	Cancelled []string
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{Payments: map[string]*billing.PaymentStatus{}}
}

func (g *FakeGateway) CreatePix(_ context.Context, req billing.PixRequest) (*billing.PixCharge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return nil, g.Err
	}
	g.Charges = append(g.Charges, req)
	id := fmt.Sprintf("%d", 1000+len(g.Charges))
	g.Payments[id] = &billing.PaymentStatus{
		GatewayID: id,
		Status:    billing.StatusPending,
		Reference: req.Reference,
		Amount:    req.Amount,
		Method:    "pix",
	}
	return &billing.PixCharge{GatewayID: id, Status: billing.StatusPending, PixCode: "PIX-" + id}, nil
}

// Approve flips a recorded charge to approved.
func (g *FakeGateway) Approve(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.Payments[id]; ok {
		p.Status = billing.StatusApproved
	}
}

func (g *FakeGateway) GetPayment(_ context.Context, id string) (*billing.PaymentStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return nil, g.Err
	}
	p, ok := g.Payments[id]
	if !ok {
		return nil, fmt.Errorf("payment %s not found", id)
	}
	cp := *p
	return &cp, nil
}

func (g *FakeGateway) CreateRecurring(_ context.Context, req billing.RecurringRequest) (*billing.RecurringCheckout, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return nil, g.Err
	}
	g.Recurring = append(g.Recurring, req)
	id := fmt.Sprintf("pre-%d", len(g.Recurring))
	return &billing.RecurringCheckout{GatewayID: id, CheckoutURL: "https://checkout/" + id}, nil
}

func (g *FakeGateway) CancelRecurring(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return g.Err
	}
	g.Cancelled = append(g.Cancelled, id)
	return nil
}

// Sent is one outbound message captured by FakeMessenger.
type Sent struct {
	Kind    string
	Phone   string
	Message string
	Options []chat.Option
	Buttons []chat.Button
	Contact chat.Contact
}

// FakeMessenger captures outbound messages instead of sending them.
type FakeMessenger struct {
	mu   sync.Mutex
	Err  error
	Sent []Sent
}

func (m *FakeMessenger) record(s Sent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, s)
	return nil
}

func (m *FakeMessenger) SendText(_ context.Context, phone, message string) error {
	return m.record(Sent{Kind: "text", Phone: phone, Message: message})
}

func (m *FakeMessenger) SendOptionList(_ context.Context, phone, message string, options []chat.Option) error {
	return m.record(Sent{Kind: "options", Phone: phone, Message: message, Options: options})
}

func (m *FakeMessenger) SendButtonList(_ context.Context, phone, message string, buttons []chat.Button) error {
	return m.record(Sent{Kind: "buttons", Phone: phone, Message: message, Buttons: buttons})
}

func (m *FakeMessenger) SendContact(_ context.Context, phone string, contact chat.Contact) error {
	return m.record(Sent{Kind: "contact", Phone: phone, Contact: contact})
}

func (m *FakeMessenger) SendPaymentRequest(_ context.Context, phone, pixCode string) error {
	return m.record(Sent{Kind: "pix", Phone: phone, Message: pixCode})
}

// Last returns the most recent message, or the zero value.
func (m *FakeMessenger) Last() Sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return Sent{}
	}
	return m.Sent[len(m.Sent)-1]
}

// Kinds lists the kinds of every captured message in order.
func (m *FakeMessenger) Kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Sent))
	for _, s := range m.Sent {
		out = append(out, s.Kind)
	}
	return out
}

// Reset drops captured messages.
func (m *FakeMessenger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = nil
}

var (
	_ billing.Gateway = (*FakeGateway)(nil)
	_ chat.Messenger  = (*FakeMessenger)(nil)
)
