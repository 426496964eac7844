package parking

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
)

// RateFor returns the tariff currently configured for a vehicle category.
// The error matches both ErrTariffMissing and ErrNotFound when none exists.
func RateFor(tx *gorm.DB, category model.VehicleCategory) (*model.Tariff, error) {
	var tariff model.Tariff
	err := tx.Where("category = ?", category).First(&tariff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w (%w): category %s", ErrTariffMissing, ErrNotFound, category)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tariff for %s: %w", category, err)
	}
	return &tariff, nil
}
