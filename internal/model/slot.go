package model

import "time"

// SlotStatus is the physical state of a numbered bay.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "TERSEDIA"
	SlotOccupied  SlotStatus = "TERISI"
	SlotBroken    SlotStatus = "RUSAK"
)

// Valid reports whether s is one of the known slot states.
func (s SlotStatus) Valid() bool {
	switch s {
	case SlotAvailable, SlotOccupied, SlotBroken:
		return true
	}
	return false
}

// Slot is a numbered bay inside an area. Its state is informational and
// maintained by admins; admission is governed by the area's capacity ledger.
type Slot struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	AreaID    int64      `gorm:"uniqueIndex:idx_slots_area_number;not null" json:"area_id"`
	Number    string     `gorm:"uniqueIndex:idx_slots_area_number;size:32;not null" json:"number"`
	Status    SlotStatus `gorm:"size:16;not null;default:TERSEDIA" json:"status"`
	Reserved  bool       `gorm:"not null;default:false" json:"reserved"`
	SessionID *int64     `gorm:"index" json:"session_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Area *Area `json:"area,omitempty"`
}
