package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/horacerta/internal/domain/chat"
	"github.com/BruksfildServices01/horacerta/internal/models"
)

type ChatGormRepository struct {
	db *gorm.DB
}

func NewChatGormRepository(db *gorm.DB) *ChatGormRepository {
	return &ChatGormRepository{db: db}
}

// --------------------------------------------------
// Chat
// --------------------------------------------------

func (r *ChatGormRepository) FindActive(ctx context.Context, phone string, since time.Time) (*models.Chat, error) {
	var chats []models.Chat
	if err := r.db.WithContext(ctx).
		Where("phone = ? AND finished = ? AND created_at >= ?", phone, false, since.UTC()).
		Order("created_at DESC").
		Limit(1).
		Find(&chats).Error; err != nil {
		return nil, err
	}
	if len(chats) == 0 {
		return nil, nil
	}
	return &chats[0], nil
}

func (r *ChatGormRepository) Get(ctx context.Context, id string) (*models.Chat, error) {
	return first[models.Chat](ctx, r.db, "id = ?", id)
}

func (r *ChatGormRepository) Create(ctx context.Context, c *models.Chat) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Save writes every column, so cleared slots are persisted as empty.
func (r *ChatGormRepository) Save(ctx context.Context, c *models.Chat) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// --------------------------------------------------
// Identity
// --------------------------------------------------

func (r *ChatGormRepository) FindCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	return firstOrNil[models.Customer](ctx, r.db, "phone = ?", phone)
}

func (r *ChatGormRepository) EmailInUse(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ChatGormRepository) CreateCustomer(ctx context.Context, c *models.Chat, customer *models.Customer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(customer).Error; err != nil {
			return err
		}
		c.CustomerID = customer.ID
		if err := tx.Save(c).Error; err != nil {
			c.CustomerID = ""
			return err
		}
		return nil
	})
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *ChatGormRepository) ListShops(ctx context.Context, excludeIDs []string) ([]models.Barbershop, error) {
	q := r.db.WithContext(ctx).Where("hidden = ?", false)
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}

	var shops []models.Barbershop
	if err := q.Order("name ASC").Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

func (r *ChatGormRepository) GetShop(ctx context.Context, id string) (*models.Barbershop, error) {
	return first[models.Barbershop](ctx, r.db, "id = ?", id)
}

func (r *ChatGormRepository) ListBarbers(ctx context.Context, barbershopID string) ([]models.Barber, error) {
	var barbers []models.Barber
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ?", barbershopID).
		Order("name ASC").
		Find(&barbers).Error; err != nil {
		return nil, err
	}
	return barbers, nil
}

func (r *ChatGormRepository) ListServices(ctx context.Context, barbershopID string) ([]models.Service, error) {
	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ?", barbershopID).
		Order("name ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *ChatGormRepository) GetService(ctx context.Context, id string) (*models.Service, error) {
	return first[models.Service](ctx, r.db, "id = ?", id)
}

var _ chat.Repository = (*ChatGormRepository)(nil)
