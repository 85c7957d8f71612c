package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/horacerta/internal/domain/appointment"
	"github.com/BruksfildServices01/horacerta/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBarber(ctx context.Context, id string) (*models.Barber, error) {
	return first[models.Barber](ctx, r.db, "id = ?", id)
}

func (r *AppointmentGormRepository) GetBarbershop(ctx context.Context, id string) (*models.Barbershop, error) {
	return first[models.Barbershop](ctx, r.db, "id = ?", id)
}

func (r *AppointmentGormRepository) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	return first[models.Customer](ctx, r.db, "id = ?", id)
}

func (r *AppointmentGormRepository) GetSchedule(ctx context.Context, id string) (*models.Schedule, error) {
	return first[models.Schedule](ctx, r.db, "id = ?", id)
}

func (r *AppointmentGormRepository) GetService(ctx context.Context, id string) (*models.Service, error) {
	return first[models.Service](ctx, r.db, "id = ?", id)
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) ListSchedules(
	ctx context.Context,
	barbershopID string,
	barberID string,
) ([]models.Schedule, error) {

	var schedules []models.Schedule
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND barber_id = ? AND weekday IS NOT NULL", barbershopID, barberID).
		Order("created_at ASC").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *AppointmentGormRepository) ListSchedulesForDay(
	ctx context.Context,
	barbershopID string,
	barberID string,
	weekday int,
	start time.Time,
	end time.Time,
) ([]models.Schedule, error) {

	var schedules []models.Schedule
	if err := r.db.WithContext(ctx).
		Preload("Appointments", "date >= ? AND date < ?", start.UTC(), end.UTC()).
		Preload("Subscriptions", "active = ?", true).
		Where(
			"barbershop_id = ? AND barber_id = ? AND weekday = ?",
			barbershopID, barberID, weekday,
		).
		Order("time ASC").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Barbershop").
		Where("id = ?", id).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListUpcoming(
	ctx context.Context,
	customerID string,
	from time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Barbershop").
		Preload("Barber").
		Preload("Service").
		Where("customer_id = ? AND date >= ?", customerID, from.UTC()).
		Order("date ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Subscription
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := r.db.WithContext(ctx).
		Preload("Plan.Service").
		Preload("Schedule").
		Where("active = ? AND canceled_at IS NULL", true).
		Order("created_at ASC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.TxRepository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&appointmentTx{db: tx})
	})
}

// --------------------------------------------------
// Transactional operations
// --------------------------------------------------

type appointmentTx struct {
	db *gorm.DB
}

func (r *appointmentTx) LockSchedule(ctx context.Context, id string) (*models.Schedule, error) {
	var s models.Schedule
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *appointmentTx) AppointmentExists(
	ctx context.Context,
	customerID string,
	barbershopID string,
	date time.Time,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"customer_id = ? AND barbershop_id = ? AND date = ?",
			customerID, barbershopID, date.UTC(),
		).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *appointmentTx) CountAppointments(
	ctx context.Context,
	scheduleID string,
	start time.Time,
	end time.Time,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("schedule_id = ? AND date >= ? AND date < ?", scheduleID, start.UTC(), end.UTC()).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *appointmentTx) LockWallet(ctx context.Context, customerID, barbershopID string) (int64, error) {
	return lockWallet(ctx, r.db, customerID, barbershopID)
}

func (r *appointmentTx) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	ap.Date = ap.Date.UTC()
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *appointmentTx) FindAppointmentWithService(ctx context.Context, id string) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Service").
		Where("id = ?", id).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *appointmentTx) DeleteAppointment(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Appointment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *appointmentTx) AppendBalance(ctx context.Context, entry *models.Balance) error {
	return appendLedger(ctx, r.db, entry)
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func first[T any](ctx context.Context, db *gorm.DB, query string, args ...any) (*T, error) {
	var out T
	if err := db.WithContext(ctx).Where(query, args...).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// firstOrNil is first with "not found" mapped to nil, nil.
func firstOrNil[T any](ctx context.Context, db *gorm.DB, query string, args ...any) (*T, error) {
	out, err := first[T](ctx, db, query, args...)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return out, err
}

// Compile-time check
var (
	_ domain.Repository   = (*AppointmentGormRepository)(nil)
	_ domain.TxRepository = (*appointmentTx)(nil)
)
