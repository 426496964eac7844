package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
)

func (s *gormStore) ListTariffs(ctx context.Context) ([]model.Tariff, error) {
	var tariffs []model.Tariff
	if err := s.db.WithContext(ctx).Order("category ASC").Find(&tariffs).Error; err != nil {
		return nil, fmt.Errorf("failed to list tariffs: %w", err)
	}
	return tariffs, nil
}

func (s *gormStore) CreateTariff(ctx context.Context, category model.VehicleCategory, rate decimal.Decimal) (*model.Tariff, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalid, category)
	}
	if rate.IsNegative() {
		return nil, fmt.Errorf("%w: hourly rate must not be negative", ErrInvalid)
	}

	tariff := model.Tariff{Category: category, HourlyRate: rate}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &model.Tariff{}, "category = ?", category)
		if err != nil {
			return fmt.Errorf("failed to check tariff: %w", err)
		}
		if taken {
			return fmt.Errorf("%w: a tariff for %s already exists", ErrConflict, category)
		}
		return tx.Create(&tariff).Error
	})
	if err != nil {
		return nil, err
	}
	return &tariff, nil
}

// UpdateTariff replaces the hourly rate in place. Open sessions keep the
// rate they captured at entry.
func (s *gormStore) UpdateTariff(ctx context.Context, id int64, rate decimal.Decimal) (*model.Tariff, error) {
	if rate.IsNegative() {
		return nil, fmt.Errorf("%w: hourly rate must not be negative", ErrInvalid)
	}
	tx := s.db.WithContext(ctx)
	if _, err := first[model.Tariff](tx, id, "tariff"); err != nil {
		return nil, err
	}
	if err := tx.Model(&model.Tariff{ID: id}).Update("hourly_rate", rate).Error; err != nil {
		return nil, fmt.Errorf("failed to update tariff %d: %w", id, err)
	}
	return first[model.Tariff](tx, id, "tariff")
}

// DeleteTariff removes a tariff no session refers to.
func (s *gormStore) DeleteTariff(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := first[model.Tariff](tx, id, "tariff"); err != nil {
			return err
		}
		used, err := exists(tx, &model.ParkingSession{}, "tariff_id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to check sessions of tariff %d: %w", id, err)
		}
		if used {
			return fmt.Errorf("%w: tariff %d is referenced by parking sessions", ErrConflict, id)
		}
		return tx.Delete(&model.Tariff{}, id).Error
	})
}
