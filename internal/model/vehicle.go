package model

import "time"

// VehicleCategory is the tariff class of a vehicle.
type VehicleCategory string

const (
	CategoryMotor   VehicleCategory = "MOTOR"   // two-wheeler
	CategoryMobil   VehicleCategory = "MOBIL"   // four-wheeler
	CategoryLainnya VehicleCategory = "LAINNYA" // other
)

// Valid reports whether c is one of the known categories.
func (c VehicleCategory) Valid() bool {
	switch c {
	case CategoryMotor, CategoryMobil, CategoryLainnya:
		return true
	}
	return false
}

// Vehicle is a registered vehicle, keyed by its normalized plate.
type Vehicle struct {
	ID        int64           `gorm:"primaryKey" json:"id"`
	Plate     string          `gorm:"uniqueIndex;size:20;not null" json:"plate"`
	Category  VehicleCategory `gorm:"size:16;not null" json:"category"`
	Color     string          `gorm:"size:64;not null" json:"color"`
	OwnerName string          `gorm:"size:128;not null" json:"owner_name"`
	UserID    int64           `gorm:"index;not null" json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
