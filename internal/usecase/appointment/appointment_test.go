package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/horacerta/internal/domain/appointment"
	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/infra/repository"
	"github.com/BruksfildServices01/horacerta/internal/models"
	"github.com/BruksfildServices01/horacerta/internal/testsupport"
	"github.com/BruksfildServices01/horacerta/pkg/logging"
)

const thursday = 4

type harness struct {
	db       *gorm.DB
	repo     *repository.AppointmentGormRepository
	balances *repository.BalanceGormRepository
	deps     Deps
	fx       testsupport.Fixture
}

func newHarness(t *testing.T, limit *int, price int64) *harness {
	t.Helper()

	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	gdb := testsupport.NewDB(t)
	// Wednesday 08:00
	now := time.Date(2025, 1, 15, 8, 0, 0, 0, loc)

	return &harness{
		db:       gdb,
		repo:     repository.NewAppointmentGormRepository(gdb),
		balances: repository.NewBalanceGormRepository(gdb),
		deps: Deps{
			Logger:   logging.Discard(),
			Location: loc,
			Now:      func() time.Time { return now },
		},
		fx: testsupport.Seed(t, gdb, thursday, "10:00", limit, price),
	}
}

func (h *harness) input() CreateAppointmentInput {
	return CreateAppointmentInput{
		BarberID:     h.fx.Barber.ID,
		CustomerID:   h.fx.Customer.ID,
		BarbershopID: h.fx.Shop.ID,
		ScheduleID:   h.fx.Schedule.ID,
		ServiceID:    h.fx.Service.ID,
		Date:         "2025-01-16",
	}
}

func (h *harness) balance(t *testing.T, customerID string) int64 {
	t.Helper()
	b, err := h.balances.LedgerBalance(context.Background(), customerID, h.fx.Shop.ID)
	require.NoError(t, err)
	return b
}

func (h *harness) countAppointments(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.db.Model(&models.Appointment{}).Count(&n).Error)
	return n
}

func TestCreateAppointment_Success(t *testing.T) {
	h := newHarness(t, nil, 1000)
	testsupport.Credit(t, h.db, h.fx.Customer.ID, h.fx.Shop.ID, 2500)

	ap, err := NewCreateAppointment(h.repo, h.deps).Execute(context.Background(), h.input())
	require.NoError(t, err)

	assert.Equal(t, "2025-01-16T13:00:00Z", ap.Date.UTC().Format(time.RFC3339))
	assert.Equal(t, int64(1), h.countAppointments(t))
	assert.Equal(t, int64(1500), h.balance(t, h.fx.Customer.ID))

	cached, err := h.balances.WalletBalance(context.Background(), h.fx.Customer.ID, h.fx.Shop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), cached)
}

func TestCreateAppointment_TwiceConflicts(t *testing.T) {
	h := newHarness(t, nil, 1000)
	testsupport.Credit(t, h.db, h.fx.Customer.ID, h.fx.Shop.ID, 5000)
	uc := NewCreateAppointment(h.repo, h.deps)

	_, err := uc.Execute(context.Background(), h.input())
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), h.input())
	require.Error(t, err)
	assert.Equal(t, httperr.KindConflict, httperr.KindOf(err))
	assert.ErrorIs(t, err, domain.ErrAlreadyBooked)

	assert.Equal(t, int64(1), h.countAppointments(t))
	assert.Equal(t, int64(4000), h.balance(t, h.fx.Customer.ID))
}

func TestCreateAppointment_InsufficientBalance(t *testing.T) {
	h := newHarness(t, nil, 1000)

	_, err := NewCreateAppointment(h.repo, h.deps).Execute(context.Background(), h.input())

	assert.Equal(t, httperr.KindInsufficientBalance, httperr.KindOf(err))
	assert.Equal(t, int64(0), h.countAppointments(t))
	assert.Equal(t, int64(0), h.balance(t, h.fx.Customer.ID))
}

func TestCreateAppointment_FreeServiceNeedsNoBalance(t *testing.T) {
	h := newHarness(t, nil, 0)

	_, err := NewCreateAppointment(h.repo, h.deps).Execute(context.Background(), h.input())
	require.NoError(t, err)
}

func TestCreateAppointment_CapacityReached(t *testing.T) {
	h := newHarness(t, testsupport.IntPtr(1), 0)
	uc := NewCreateAppointment(h.repo, h.deps)

	_, err := uc.Execute(context.Background(), h.input())
	require.NoError(t, err)

	other := models.Customer{Name: "Bia", Email: "bia@example.com", PasswordHash: "x"}
	require.NoError(t, h.db.Create(&other).Error)

	in := h.input()
	in.CustomerID = other.ID
	_, err = uc.Execute(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrScheduleFull)
}

func TestCreateAppointment_ZeroLimitIsFull(t *testing.T) {
	h := newHarness(t, testsupport.IntPtr(0), 0)

	_, err := NewCreateAppointment(h.repo, h.deps).Execute(context.Background(), h.input())
	assert.ErrorIs(t, err, domain.ErrScheduleFull)
}

func TestCreateAppointment_Validation(t *testing.T) {
	h := newHarness(t, nil, 0)
	uc := NewCreateAppointment(h.repo, h.deps)

	otherShop := models.Barbershop{Name: "Outra", Slug: "outra"}
	require.NoError(t, h.db.Create(&otherShop).Error)
	foreignService := models.Service{BarbershopID: otherShop.ID, Name: "Barba"}
	require.NoError(t, h.db.Create(&foreignService).Error)
	noTime := models.Schedule{BarbershopID: h.fx.Shop.ID, BarberID: h.fx.Barber.ID, Weekday: testsupport.IntPtr(thursday)}
	require.NoError(t, h.db.Create(&noTime).Error)

	cases := []struct {
		name   string
		mutate func(in *CreateAppointmentInput)
		want   error
	}{
		{"missing barber", func(in *CreateAppointmentInput) { in.BarberID = "nope" }, domain.ErrBarberNotFound},
		{"missing shop", func(in *CreateAppointmentInput) { in.BarbershopID = "nope" }, domain.ErrShopNotFound},
		{"missing customer", func(in *CreateAppointmentInput) { in.CustomerID = "nope" }, domain.ErrCustomerNotFound},
		{"schedule of other shop", func(in *CreateAppointmentInput) { in.BarbershopID = otherShop.ID }, domain.ErrScheduleNotFound},
		{"service of other shop", func(in *CreateAppointmentInput) { in.ServiceID = foreignService.ID }, domain.ErrServiceNotFound},
		{"schedule without time", func(in *CreateAppointmentInput) { in.ScheduleID = noTime.ID }, domain.ErrScheduleWithoutTime},
		{"past date", func(in *CreateAppointmentInput) { in.Date = "2025-01-09" }, domain.ErrDateInPast},
		{"bad date", func(in *CreateAppointmentInput) { in.Date = "16/01/2025" }, domain.ErrInvalidDate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := h.input()
			tc.mutate(&in)
			_, err := uc.Execute(context.Background(), in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	assert.Equal(t, int64(0), h.countAppointments(t))
}

func TestCancelAppointment_RestoresBalance(t *testing.T) {
	h := newHarness(t, nil, 1000)
	testsupport.Credit(t, h.db, h.fx.Customer.ID, h.fx.Shop.ID, 1000)

	ap, err := NewCreateAppointment(h.repo, h.deps).Execute(context.Background(), h.input())
	require.NoError(t, err)
	before := h.balance(t, h.fx.Customer.ID)

	_, err = NewCancelAppointment(h.repo, h.deps).Execute(context.Background(), CancelAppointmentInput{AppointmentID: ap.ID})
	require.NoError(t, err)

	assert.Equal(t, before+1000, h.balance(t, h.fx.Customer.ID))
	assert.Equal(t, int64(0), h.countAppointments(t))

	cached, err := h.balances.WalletBalance(context.Background(), h.fx.Customer.ID, h.fx.Shop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), cached)
}

func TestCancelAppointment_NotFoundAndOwnership(t *testing.T) {
	h := newHarness(t, nil, 0)
	uc := NewCancelAppointment(h.repo, h.deps)

	_, err := uc.Execute(context.Background(), CancelAppointmentInput{AppointmentID: "missing"})
	assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)

	ap, err := NewCreateAppointment(h.repo, h.deps).Execute(context.Background(), h.input())
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), CancelAppointmentInput{AppointmentID: ap.ID, CustomerID: "someone-else"})
	assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)
	assert.Equal(t, int64(1), h.countAppointments(t))
}

func TestMaterializeSubscriptions_SkipsBrokenOne(t *testing.T) {
	h := newHarness(t, nil, 1000)

	plan := models.Plan{BarbershopID: h.fx.Shop.ID, ServiceID: h.fx.Service.ID, Price: 4000}
	require.NoError(t, h.db.Create(&plan).Error)

	broken := models.Schedule{BarbershopID: h.fx.Shop.ID, BarberID: h.fx.Barber.ID, Weekday: testsupport.IntPtr(thursday)}
	require.NoError(t, h.db.Create(&broken).Error)

	schedules := []string{h.fx.Schedule.ID, broken.ID, h.fx.Schedule.ID}
	var customers []models.Customer
	for i, scheduleID := range schedules {
		c := models.Customer{Name: "Sub", Email: string(rune('a'+i)) + "@sub.com", PasswordHash: "x"}
		require.NoError(t, h.db.Create(&c).Error)
		testsupport.Credit(t, h.db, c.ID, h.fx.Shop.ID, 1000)
		customers = append(customers, c)

		require.NoError(t, h.db.Create(&models.Subscription{
			CustomerID:   c.ID,
			BarbershopID: h.fx.Shop.ID,
			BarberID:     h.fx.Barber.ID,
			ScheduleID:   scheduleID,
			PlanID:       plan.ID,
			Active:       true,
		}).Error)
	}

	uc := NewMaterializeSubscriptions(h.repo, h.deps)
	report, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Report{Created: 2, Skipped: 1}, report)
	assert.Equal(t, int64(2), h.countAppointments(t))
	assert.Equal(t, int64(0), h.balance(t, customers[0].ID))
	assert.Equal(t, int64(1000), h.balance(t, customers[1].ID))

	// second run finds the appointments already booked
	report, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{Skipped: 3}, report)
	assert.Equal(t, int64(2), h.countAppointments(t))
}

func TestMaterializeSubscriptions_SkipsInsufficientBalance(t *testing.T) {
	h := newHarness(t, nil, 1000)

	plan := models.Plan{BarbershopID: h.fx.Shop.ID, ServiceID: h.fx.Service.ID}
	require.NoError(t, h.db.Create(&plan).Error)

	// no credit: insufficient balance
	require.NoError(t, h.db.Create(&models.Subscription{
		CustomerID: h.fx.Customer.ID, BarbershopID: h.fx.Shop.ID, BarberID: h.fx.Barber.ID,
		ScheduleID: h.fx.Schedule.ID, PlanID: plan.ID, Active: true,
	}).Error)

	report, err := NewMaterializeSubscriptions(h.repo, h.deps).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{Skipped: 1}, report)
	assert.Equal(t, int64(0), h.countAppointments(t))
}

func TestGetAvailability(t *testing.T) {
	h := newHarness(t, testsupport.IntPtr(1), 0)
	uc := NewGetAvailability(h.repo, h.deps)

	dates, err := uc.Dates(context.Background(), h.fx.Shop.ID, h.fx.Barber.ID)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, "2025-01-16", dates[0].Date.Format(time.DateOnly))
	assert.Equal(t, "2025-01-23", dates[1].Date.Format(time.DateOnly))

	times, err := uc.Times(context.Background(), h.fx.Shop.ID, h.fx.Barber.ID, "2025-01-16")
	require.NoError(t, err)
	require.Len(t, times, 1)

	_, err = NewCreateAppointment(h.repo, h.deps).Execute(context.Background(), h.input())
	require.NoError(t, err)

	times, err = uc.Times(context.Background(), h.fx.Shop.ID, h.fx.Barber.ID, "2025-01-16")
	require.NoError(t, err)
	assert.Empty(t, times)

	times, err = uc.Times(context.Background(), h.fx.Shop.ID, h.fx.Barber.ID, "2025-01-23")
	require.NoError(t, err)
	assert.Len(t, times, 1)
}

func TestListUpcoming(t *testing.T) {
	h := newHarness(t, nil, 0)

	_, err := NewCreateAppointment(h.repo, h.deps).Execute(context.Background(), h.input())
	require.NoError(t, err)

	apps, err := NewListUpcoming(h.repo, h.deps).Execute(context.Background(), h.fx.Customer.ID)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.NotNil(t, apps[0].Service)
	assert.Equal(t, "Corte", apps[0].Service.Name)
}

// racingRepo lets every duplicate pre-check pass, as if a concurrent
// booking committed between the check and the insert.
type racingRepo struct {
	domain.Repository
}

func (r racingRepo) Transaction(ctx context.Context, fn func(tx domain.TxRepository) error) error {
	return r.Repository.Transaction(ctx, func(tx domain.TxRepository) error {
		return fn(racingTx{tx})
	})
}

type racingTx struct {
	domain.TxRepository
}

func (racingTx) AppointmentExists(context.Context, string, string, time.Time) (bool, error) {
	return false, nil
}

func TestCreateAppointment_UniqueIndexConflicts(t *testing.T) {
	h := newHarness(t, nil, 1000)
	testsupport.Credit(t, h.db, h.fx.Customer.ID, h.fx.Shop.ID, 5000)
	uc := NewCreateAppointment(racingRepo{h.repo}, h.deps)

	_, err := uc.Execute(context.Background(), h.input())
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), h.input())
	assert.ErrorIs(t, err, domain.ErrAlreadyBooked)

	assert.Equal(t, int64(1), h.countAppointments(t))
	assert.Equal(t, int64(4000), h.balance(t, h.fx.Customer.ID))
}
