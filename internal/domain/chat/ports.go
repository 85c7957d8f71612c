package chat

import (
	"context"
	"time"

	"github.com/BruksfildServices01/horacerta/internal/models"
)

// ===============================
// Outbound messaging
// ===============================

type Option struct {
	ID          string
	Title       string
	Description string
}

type Button struct {
	ID    string
	Label string
}

type Contact struct {
	Name  string
	Phone string
}

type Messenger interface {
	SendText(ctx context.Context, phone, message string) error
	SendOptionList(ctx context.Context, phone, message string, options []Option) error
	SendButtonList(ctx context.Context, phone, message string, buttons []Button) error
	SendContact(ctx context.Context, phone string, contact Contact) error
	SendPaymentRequest(ctx context.Context, phone, pixCode string) error
}

// ===============================
// Persistence
// ===============================

type Repository interface {
	// FindActive returns the newest unfinished chat for phone created at or
	// after since, or nil when there is none.
	FindActive(ctx context.Context, phone string, since time.Time) (*models.Chat, error)
	Get(ctx context.Context, id string) (*models.Chat, error)
	Create(ctx context.Context, c *models.Chat) error
	Save(ctx context.Context, c *models.Chat) error

	// FindCustomerByPhone returns nil when no customer matches.
	FindCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error)
	EmailInUse(ctx context.Context, email string) (bool, error)
	// CreateCustomer stores the customer and links it to the chat atomically.
	CreateCustomer(ctx context.Context, c *models.Chat, customer *models.Customer) error

	ListShops(ctx context.Context, excludeIDs []string) ([]models.Barbershop, error)
	GetShop(ctx context.Context, id string) (*models.Barbershop, error)
	ListBarbers(ctx context.Context, barbershopID string) ([]models.Barber, error)
	ListServices(ctx context.Context, barbershopID string) ([]models.Service, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
}
