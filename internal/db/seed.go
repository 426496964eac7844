package db

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MuhammadRafly8/parkir-ukk/internal/auth"
	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
)

type seedUser struct {
	fullName string
	username string
	password string
	role     model.Role
}

var defaultUsers = []seedUser{
	{"Admin Utama", "admin", "admin123", model.RoleAdmin},
	{"Petugas Satu", "petugas1", "petugas123", model.RolePetugas},
	{"Owner/Manajemen", "owner", "owner123", model.RoleOwner},
}

var defaultAreas = []model.Area{
	{Name: "Area A", Capacity: 50},
	{Name: "Area B", Capacity: 30},
}

var defaultTariffs = []model.Tariff{
	{Category: model.CategoryMotor, HourlyRate: decimal.NewFromInt(2000)},
	{Category: model.CategoryMobil, HourlyRate: decimal.NewFromInt(5000)},
}

// Seed inserts the default accounts, areas and tariffs. Rows that already
// exist are left as they are, so Seed can run on every start.
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := make([]model.User, 0, len(defaultUsers))
		for _, u := range defaultUsers {
			hash, err := auth.HashPassword(u.password)
			if err != nil {
				return fmt.Errorf("failed to hash password for %s: %w", u.username, err)
			}
			users = append(users, model.User{
				FullName:     u.fullName,
				Username:     u.username,
				PasswordHash: hash,
				Role:         u.role,
				Active:       true,
			})
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoNothing: true,
		}).Create(&users).Error; err != nil {
			return fmt.Errorf("seed users failed: %w", err)
		}

		areas := append([]model.Area(nil), defaultAreas...)
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&areas).Error; err != nil {
			return fmt.Errorf("seed areas failed: %w", err)
		}

		tariffs := append([]model.Tariff(nil), defaultTariffs...)
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}},
			DoNothing: true,
		}).Create(&tariffs).Error; err != nil {
			return fmt.Errorf("seed tariffs failed: %w", err)
		}

		log.Printf("Seeded %d users, %d areas and %d tariffs (existing rows kept).", len(users), len(areas), len(tariffs))
		return nil
	})
}
