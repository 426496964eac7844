package store

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
)

// AreaUpdate carries the editable fields of an area; nil fields are kept.
type AreaUpdate struct {
	Name     *string
	Capacity *int
}

// VehicleUpdate carries the editable fields of a vehicle; nil fields are kept.
type VehicleUpdate struct {
	Plate     *string
	Category  *model.VehicleCategory
	Color     *string
	OwnerName *string
}

// UserUpdate carries the editable fields of a user; nil fields are kept.
// Password is stored hashed.
type UserUpdate struct {
	FullName *string
	Username *string
	Password *string
	Role     *model.Role
	Active   *bool
}

// SessionFilter narrows the session history. Zero values mean "any".
type SessionFilter struct {
	Status    model.SessionStatus
	VehicleID int64
	From      time.Time // entry time, inclusive
	To        time.Time // entry time, exclusive
	Limit     int
}

// ActivityFilter narrows the activity log. Zero values mean "any".
type ActivityFilter struct {
	UserID int64
	From   time.Time
	To     time.Time
	Limit  int
}

// AreaOccupancy pairs an area's ledger counter with its open sessions.
type AreaOccupancy struct {
	Area         model.Area
	OpenSessions int64
}

// Consistent reports whether the ledger counter matches the open sessions.
func (o AreaOccupancy) Consistent() bool {
	return int64(o.Area.Occupied) == o.OpenSessions
}

// Summary is a count and a revenue total.
type Summary struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// Report lists the sessions closed in a period with their totals.
type Report struct {
	From       time.Time                          `json:"from"`
	To         time.Time                          `json:"to"`
	Count      int                                `json:"total_transactions"`
	Revenue    decimal.Decimal                    `json:"total_revenue"`
	ByCategory map[model.VehicleCategory]*Summary `json:"by_category"`
	ByArea     map[string]*Summary                `json:"by_area"`
	Sessions   []model.ParkingSession             `json:"sessions"`
}

// AreaLoad is the occupancy of one area at report time.
type AreaLoad struct {
	AreaID       int64   `json:"area_id"`
	Name         string  `json:"name"`
	Capacity     int     `json:"capacity"`
	Occupied     int     `json:"occupied"`
	OpenSessions int64   `json:"open_sessions"`
	Percent      float64 `json:"percent"`
}

// HourCount is the number of entries recorded in one hour.
type HourCount struct {
	Hour  time.Time `json:"hour"`
	Count int       `json:"count"`
}

// CategoryRevenue is the revenue of one vehicle category.
type CategoryRevenue struct {
	Category model.VehicleCategory `json:"category"`
	Count    int                   `json:"count"`
	Revenue  decimal.Decimal       `json:"revenue"`
	Average  decimal.Decimal       `json:"average"`
}

// Analytics holds the dashboard figures for a period.
type Analytics struct {
	From              time.Time         `json:"from"`
	To                time.Time         `json:"to"`
	Entries           int64             `json:"entries"`
	Revenue           decimal.Decimal   `json:"revenue"`
	ActiveVehicles    int64             `json:"active_vehicles"`
	UnreadAlerts      int64             `json:"unread_alerts"`
	Occupancy         []AreaLoad        `json:"occupancy"`
	EntriesByHour     []HourCount       `json:"entries_by_hour"`
	RevenueByCategory []CategoryRevenue `json:"revenue_by_category"`
}

// SlotFilter narrows the slot list. Zero values mean "any".
type SlotFilter struct {
	AreaID int64
	Status model.SlotStatus
}

// SlotUpdate carries the editable fields of a slot; nil fields are kept.
// A SessionID of zero detaches the slot from its session.
type SlotUpdate struct {
	Status    *model.SlotStatus
	Reserved  *bool
	SessionID *int64
}
