package config

import (
	"errors"
	"fmt"
	"time"

	"fleamarket/internal/logger"
	"fleamarket/models"
	"fleamarket/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedLookups upserts the fixed enumerations into their tables.
func SeedLookups(db *gorm.DB, log logger.Logger) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, v := range models.Categories.Values {
			if err := upsert(tx, &models.Category{ID: v.ID, Name: v.Name}); err != nil {
				return err
			}
		}
		for _, v := range models.SalesStatuses.Values {
			if err := upsert(tx, &models.SalesStatus{ID: v.ID, Name: v.Name}); err != nil {
				return err
			}
		}
		for _, v := range models.ShippingFeeStatuses.Values {
			if err := upsert(tx, &models.ShippingFeeStatus{ID: v.ID, Name: v.Name}); err != nil {
				return err
			}
		}
		for _, v := range models.Prefectures.Values {
			if err := upsert(tx, &models.Prefecture{ID: v.ID, Name: v.Name}); err != nil {
				return err
			}
		}
		for _, v := range models.ScheduledDeliveries.Values {
			if err := upsert(tx, &models.ScheduledDelivery{ID: v.ID, Name: v.Name}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Errorf("Failed to seed lookup tables: %v", err)
		return fmt.Errorf("seed lookups: %w", err)
	}
	log.Info("Lookup tables seeded")
	return nil
}

func upsert(tx *gorm.DB, row interface{}) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(row).Error
}

// SeedUsers creates two demo accounts when they do not exist yet.
func SeedUsers(db *gorm.DB, log logger.Logger) {
	log.Info("Seeding demo users")

	password, err := utils.HashPassword("password123")
	if err != nil {
		log.Errorf("Failed to hash demo password: %v", err)
		return
	}

	users := []models.User{
		{
			Nickname: "furima-taro", Email: "taro@example.com", Password: password,
			LastName: "山田", FirstName: "太郎", LastNameKana: "ヤマダ", FirstNameKana: "タロウ",
			BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Nickname: "furima-hanako", Email: "hanako@example.com", Password: password,
			LastName: "山田", FirstName: "花子", LastNameKana: "ヤマダ", FirstNameKana: "ハナコ",
			BirthDate: time.Date(1992, 2, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, user := range users {
		var existing models.User
		err := db.Where("email = ?", user.Email).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := db.Create(&user).Error; err != nil {
				log.Errorf("Failed to seed user %s: %v", user.Nickname, err)
			} else {
				log.Infof("User seeded: %s (ID: %d)", user.Nickname, user.ID)
			}
		case err != nil:
			log.Errorf("Failed to look up user %s: %v", user.Nickname, err)
		default:
			log.Infof("User already exists: %s", user.Nickname)
		}
	}
}
