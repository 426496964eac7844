package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionStatus is the lifecycle state of a parking session.
type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// PaymentMethod is how an exit was paid.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentQRIS PaymentMethod = "QRIS"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentQRIS
}

// ParkingSession records one stay of a vehicle in an area.
// HourlyRate is captured at entry and never changes afterwards.
type ParkingSession struct {
	ID              int64               `gorm:"primaryKey" json:"id"`
	TicketCode      string              `gorm:"uniqueIndex;size:36;not null" json:"ticket_code"`
	VehicleID       int64               `gorm:"not null;index" json:"vehicle_id"`
	AreaID          int64               `gorm:"not null;index" json:"area_id"`
	TariffID        int64               `gorm:"not null" json:"tariff_id"`
	HourlyRate      decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"hourly_rate"`
	EntryTime       time.Time           `gorm:"not null;index" json:"entry_time"`
	ExitTime        *time.Time          `gorm:"index" json:"exit_time"`
	DurationHours   *int                `json:"duration_hours"`
	TotalFee        decimal.NullDecimal `gorm:"type:decimal(14,2)" json:"total_fee"`
	PaymentMethod   PaymentMethod       `gorm:"size:8" json:"payment_method,omitempty"`
	AmountPaid      decimal.NullDecimal `gorm:"type:decimal(14,2)" json:"amount_paid"`
	ChangeDue       decimal.NullDecimal `gorm:"type:decimal(14,2)" json:"change_due"`
	Status          SessionStatus       `gorm:"size:8;not null;index" json:"status"`
	EntryOperatorID int64               `gorm:"not null" json:"entry_operator_id"`
	ExitOperatorID  *int64              `json:"exit_operator_id"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`

	// Associations
	Vehicle *Vehicle `json:"vehicle,omitempty"`
	Area    *Area    `json:"area,omitempty"`
	Tariff  *Tariff  `json:"tariff,omitempty"`
}
