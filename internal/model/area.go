package model

import "time"

// Area is a parking area with a fixed number of slots.
// Occupied is only ever changed through the capacity ledger.
type Area struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Capacity  int       `gorm:"not null;check:chk_areas_capacity,capacity > 0" json:"capacity"`
	Occupied  int       `gorm:"not null;default:0;check:chk_areas_occupancy,occupied >= 0 AND occupied <= capacity" json:"occupied"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Available returns the number of free slots.
func (a Area) Available() int {
	if a.Occupied >= a.Capacity {
		return 0
	}
	return a.Capacity - a.Occupied
}
