package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/horacerta/internal/domain/appointment"
	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/infra/repository"
	"github.com/BruksfildServices01/horacerta/internal/models"
	"github.com/BruksfildServices01/horacerta/internal/testsupport"
)

func TestCreateSchedules_Dedupes(t *testing.T) {
	gdb := testsupport.NewDB(t)
	fx := testsupport.Seed(t, gdb, 1, "09:00", nil, 0)
	uc := NewCreateSchedules(repository.NewScheduleGormRepository(gdb))

	item := func(weekday int, hm string) Item {
		return Item{BarbershopID: fx.Shop.ID, BarberID: fx.Barber.ID, Weekday: testsupport.IntPtr(weekday), Time: hm, Limit: testsupport.IntPtr(2)}
	}

	created, err := uc.Execute(context.Background(), []Item{
		item(1, "09:00"), // already seeded
		item(1, "10:00"),
		item(1, "10:00"), // duplicate in batch
		item(2, "09:00"),
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)

	var count int64
	require.NoError(t, gdb.Model(&models.Schedule{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	_, err = uc.Execute(context.Background(), []Item{item(1, "10:00")})
	assert.ErrorIs(t, err, ErrNothingToCreate)
}

func TestCreateSchedules_Validation(t *testing.T) {
	gdb := testsupport.NewDB(t)
	fx := testsupport.Seed(t, gdb, 1, "09:00", nil, 0)
	uc := NewCreateSchedules(repository.NewScheduleGormRepository(gdb))

	_, err := uc.Execute(context.Background(), []Item{{BarbershopID: fx.Shop.ID, BarberID: fx.Barber.ID, Weekday: testsupport.IntPtr(7), Time: "09:00"}})
	assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))

	_, err = uc.Execute(context.Background(), []Item{{BarbershopID: fx.Shop.ID, BarberID: fx.Barber.ID, Weekday: testsupport.IntPtr(1), Time: "9:00"}})
	assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))

	_, err = uc.Execute(context.Background(), []Item{{BarbershopID: "missing", BarberID: fx.Barber.ID, Weekday: testsupport.IntPtr(1), Time: "11:00"}})
	assert.ErrorIs(t, err, domain.ErrShopNotFound)
}
