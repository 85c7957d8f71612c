// Package testsupport opens throwaway databases and seeds fixtures for
// package tests.
package testsupport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/horacerta/internal/db"
	"github.com/BruksfildServices01/horacerta/internal/models"
)

// NewDB returns a migrated in-memory sqlite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	opts := db.Options()
	opts.PrepareStmt = false

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), opts)
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func IntPtr(v int) *int { return &v }

func Int64Ptr(v int64) *int64 { return &v }

// Fixture is a minimal bookable catalog: one shop, one barber, one customer,
// one service and one schedule.
type Fixture struct {
	Shop     models.Barbershop
	Barber   models.Barber
	Customer models.Customer
	Service  models.Service
	Schedule models.Schedule
}

// Seed creates a Fixture whose schedule runs on weekday at hm.
func Seed(t *testing.T, gdb *gorm.DB, weekday int, hm string, limit *int, price int64) Fixture {
	t.Helper()

	f := Fixture{
		Shop: models.Barbershop{
			Name:            "Barbearia Centro",
			Slug:            "barbearia-centro-" + time.Now().Format("150405.000000000"),
			Phone:           "11999990000",
			Timezone:        "America/Sao_Paulo",
			WeeksToSchedule: 2,
			LoyaltyStamps:   10,
			LoyaltyReward:   4000,
		},
	}
	require.NoError(t, gdb.Create(&f.Shop).Error)

	f.Barber = models.Barber{BarbershopID: f.Shop.ID, Name: "Carlos"}
	require.NoError(t, gdb.Create(&f.Barber).Error)

	f.Customer = models.Customer{
		Name:         "Ana",
		Email:        "ana-" + f.Shop.ID + "@example.com",
		Phone:        "11988887777",
		PasswordHash: "x",
	}
	require.NoError(t, gdb.Create(&f.Customer).Error)

	f.Service = models.Service{BarbershopID: f.Shop.ID, Name: "Corte", Amount: price}
	require.NoError(t, gdb.Create(&f.Service).Error)

	f.Schedule = models.Schedule{
		BarbershopID: f.Shop.ID,
		BarberID:     f.Barber.ID,
		Weekday:      IntPtr(weekday),
		Time:         hm,
		Limit:        limit,
	}
	require.NoError(t, gdb.Create(&f.Schedule).Error)

	return f
}

// Credit appends an INCOME entry without touching the wallet cache, so the
// first booking has to rebuild it from the ledger.
func Credit(t *testing.T, gdb *gorm.DB, customerID, barbershopID string, amount int64) {
	t.Helper()
	require.NoError(t, gdb.Create(&models.Balance{
		CustomerID:   customerID,
		BarbershopID: barbershopID,
		Amount:       Int64Ptr(amount),
		Type:         models.BalanceIncome,
		Status:       models.BalanceStatusReceived,
		PaymentDate:  time.Now().UTC(),
	}).Error)
}
