package billing

import "context"

const (
	StatusApproved  = "approved"
	StatusPending   = "pending"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

type Payer struct {
	Name     string
	Email    string
	Document string
}

type PixRequest struct {
	// Reference is echoed back by the gateway on every notification.
	Reference   string
	Description string
	Amount      int64
	Payer       Payer
}

type PixCharge struct {
	GatewayID string
	Status    string
	PixCode   string
	TicketURL string
}

// PaymentStatus is the gateway's view of one payment.
type PaymentStatus struct {
	GatewayID string
	Status    string
	Reference string
	Amount    int64
	Method    string
}

type RecurringRequest struct {
	Reference  string
	Reason     string
	Amount     int64
	PayerEmail string
	// Interval is "week" or "month".
	Interval string
}

type RecurringCheckout struct {
	GatewayID   string
	CheckoutURL string
}

// Gateway is the payment provider.
type Gateway interface {
	CreatePix(ctx context.Context, req PixRequest) (*PixCharge, error)
	GetPayment(ctx context.Context, gatewayID string) (*PaymentStatus, error)
	CreateRecurring(ctx context.Context, req RecurringRequest) (*RecurringCheckout, error)
	CancelRecurring(ctx context.Context, gatewayID string) error
}
