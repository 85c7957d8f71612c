package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/horacerta/internal/domain/appointment"
	"github.com/BruksfildServices01/horacerta/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func (r *ScheduleGormRepository) GetBarbershop(ctx context.Context, id string) (*models.Barbershop, error) {
	return first[models.Barbershop](ctx, r.db, "id = ?", id)
}

func (r *ScheduleGormRepository) GetBarber(ctx context.Context, id string) (*models.Barber, error) {
	return first[models.Barber](ctx, r.db, "id = ?", id)
}

func (r *ScheduleGormRepository) ListByBarbershop(ctx context.Context, barbershopID string) ([]models.Schedule, error) {
	var schedules []models.Schedule
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ?", barbershopID).
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *ScheduleGormRepository) CreateBatch(ctx context.Context, schedules []models.Schedule) error {
	if len(schedules) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&schedules).Error
}

var _ domain.ScheduleRepository = (*ScheduleGormRepository)(nil)
