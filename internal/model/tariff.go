package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tariff is the hourly rate for one vehicle category.
type Tariff struct {
	ID         int64           `gorm:"primaryKey" json:"id"`
	Category   VehicleCategory `gorm:"uniqueIndex;size:16;not null" json:"category"`
	HourlyRate decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"hourly_rate"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
