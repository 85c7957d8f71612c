package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/horacerta/internal/models"
)

type Repository interface {
	// -------- Catalog --------
	GetBarber(ctx context.Context, id string) (*models.Barber, error)
	GetBarbershop(ctx context.Context, id string) (*models.Barbershop, error)
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	GetSchedule(ctx context.Context, id string) (*models.Schedule, error)
	GetService(ctx context.Context, id string) (*models.Service, error)

	// -------- Availability --------
	ListSchedules(
		ctx context.Context,
		barbershopID string,
		barberID string,
	) ([]models.Schedule, error)

	// ListSchedulesForDay preloads each schedule's appointments inside
	// [start, end) and its active subscriptions.
	ListSchedulesForDay(
		ctx context.Context,
		barbershopID string,
		barberID string,
		weekday int,
		start time.Time,
		end time.Time,
	) ([]models.Schedule, error)

	// -------- Appointment --------
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)

	ListUpcoming(
		ctx context.Context,
		customerID string,
		from time.Time,
	) ([]models.Appointment, error)

	// -------- Subscription --------
	ListActiveSubscriptions(ctx context.Context) ([]models.Subscription, error)

	// Transaction runs fn with a repository bound to one database transaction.
	Transaction(ctx context.Context, fn func(tx TxRepository) error) error
}

// TxRepository holds the writes and locked reads that must share a
// transaction with the booking they guard.
type TxRepository interface {
	LockSchedule(ctx context.Context, id string) (*models.Schedule, error)

	AppointmentExists(
		ctx context.Context,
		customerID string,
		barbershopID string,
		date time.Time,
	) (bool, error)

	CountAppointments(
		ctx context.Context,
		scheduleID string,
		start time.Time,
		end time.Time,
	) (int64, error)

	// LockWallet returns the current wallet balance and holds its row until
	// the transaction ends.
	LockWallet(ctx context.Context, customerID, barbershopID string) (int64, error)

	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	FindAppointmentWithService(ctx context.Context, id string) (*models.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error

	AppendBalance(ctx context.Context, entry *models.Balance) error
}

// ScheduleRepository backs shop setup.
type ScheduleRepository interface {
	GetBarbershop(ctx context.Context, id string) (*models.Barbershop, error)
	GetBarber(ctx context.Context, id string) (*models.Barber, error)
	ListByBarbershop(ctx context.Context, barbershopID string) ([]models.Schedule, error)
	CreateBatch(ctx context.Context, schedules []models.Schedule) error
}
