package config

import (
	"fmt"

	"fleamarket/internal/logger"
	"fleamarket/models"

	"gorm.io/gorm"
)

func schema() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Item{},
		&models.Category{},
		&models.SalesStatus{},
		&models.ShippingFeeStatus{},
		&models.Prefecture{},
		&models.ScheduledDelivery{},
	}
}

// Migrate creates or updates the schema and makes sure the lookup tables are seeded.
func Migrate(db *gorm.DB, log logger.Logger) error {
	if err := db.AutoMigrate(schema()...); err != nil {
		log.Errorf("Failed to migrate database schema: %v", err)
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("Database migrations completed")

	return SeedLookups(db, log)
}

// ResetAndMigrate drops every table before migrating. Development only.
func ResetAndMigrate(db *gorm.DB, log logger.Logger) error {
	if err := db.Migrator().DropTable(schema()...); err != nil {
		log.Errorf("Failed to drop tables: %v", err)
		return fmt.Errorf("drop tables: %w", err)
	}
	log.Info("All tables dropped")
	return Migrate(db, log)
}
