package model

import "time"

// AlertType classifies an alert.
type AlertType string

const (
	AlertAreaFull       AlertType = "AREA_FULL"
	AlertAreaAlmostFull AlertType = "AREA_ALMOST_FULL"
	AlertSlotAvailable  AlertType = "SLOT_AVAILABLE"
	AlertSystemWarning  AlertType = "SYSTEM_WARNING"
	AlertVehicleDamaged AlertType = "KENDARAAN_RUSAK"
)

// Valid reports whether t is a known alert type.
func (t AlertType) Valid() bool {
	switch t {
	case AlertAreaFull, AlertAreaAlmostFull, AlertSlotAvailable, AlertSystemWarning, AlertVehicleDamaged:
		return true
	}
	return false
}

// Severity of an alert.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	return s == SeverityInfo || s == SeverityWarning || s == SeverityCritical
}

// Alert is an operator-facing notice about an area.
type Alert struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	AreaID    int64     `gorm:"index;not null" json:"area_id"`
	Type      AlertType `gorm:"size:32;not null" json:"type"`
	Message   string    `gorm:"size:512;not null" json:"message"`
	Severity  Severity  `gorm:"size:16;not null" json:"severity"`
	IsRead    bool      `gorm:"not null;index" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Area *Area `json:"area,omitempty"`
}
