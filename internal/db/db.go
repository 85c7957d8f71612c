package db

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/horacerta/internal/config"
	"github.com/BruksfildServices01/horacerta/internal/models"
)

// NewDB opens the postgres connection pool and migrates the schema.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), Options())
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db: get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := db.Exec(
		`UPDATE barbershops SET timezone = ? WHERE timezone IS NULL OR timezone = ''`,
		cfg.Timezone,
	).Error; err != nil {
		return nil, fmt.Errorf("db: backfill timezone: %w", err)
	}

	return db, nil
}

// Options is shared by the postgres pool and the sqlite test database.
// Timestamps are always written in UTC. Misses are expected (wallet and
// customer lookups) and are not logged.
func Options() *gorm.Config {
	return &gorm.Config{
		Logger:         Logger(os.Stderr),
		PrepareStmt:    true,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Logger reports slow queries and real errors only.
func Logger(w io.Writer) logger.Interface {
	return logger.New(log.New(w, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&models.Barbershop{},
		&models.Barber{},
		&models.Customer{},
		&models.Service{},
		&models.Schedule{},
		&models.Plan{},
		&models.Subscription{},
		&models.Appointment{},
		&models.Balance{},
		&models.Wallet{},
		&models.LoyaltyStamp{},
		&models.Order{},
		&models.Payment{},
		&models.Chat{},
		&models.AuditLog{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("db: migrate: %w", err)
	}
	return nil
}
