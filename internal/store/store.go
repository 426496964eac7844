package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("conflicts with existing data")
	ErrInvalid  = errors.New("invalid input")
)

// Store defines the interface for all database operations outside the
// session lifecycle itself.
type Store interface {
	DB() *gorm.DB

	ListAreas(ctx context.Context) ([]model.Area, error)
	GetArea(ctx context.Context, id int64) (*model.Area, error)
	CreateArea(ctx context.Context, name string, capacity int) (*model.Area, error)
	UpdateArea(ctx context.Context, id int64, upd AreaUpdate) (*model.Area, error)
	DeleteArea(ctx context.Context, id int64) error
	OccupancySnapshot(ctx context.Context) ([]AreaOccupancy, error)

	ListSlots(ctx context.Context, f SlotFilter) ([]model.Slot, error)
	CreateSlot(ctx context.Context, slot *model.Slot) error
	UpdateSlot(ctx context.Context, id int64, upd SlotUpdate) (*model.Slot, error)
	DeleteSlot(ctx context.Context, id int64) error

	ListTariffs(ctx context.Context) ([]model.Tariff, error)
	CreateTariff(ctx context.Context, category model.VehicleCategory, rate decimal.Decimal) (*model.Tariff, error)
	UpdateTariff(ctx context.Context, id int64, rate decimal.Decimal) (*model.Tariff, error)
	DeleteTariff(ctx context.Context, id int64) error

	SearchVehicles(ctx context.Context, plate string, limit int) ([]model.Vehicle, error)
	CreateVehicle(ctx context.Context, v *model.Vehicle) error
	UpdateVehicle(ctx context.Context, id int64, upd VehicleUpdate) (*model.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int64) error

	ListUsers(ctx context.Context) ([]model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, u *model.User, password string) error
	UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error

	AppendActivity(ctx context.Context, userID int64, activity string) error
	ListActivity(ctx context.Context, f ActivityFilter) ([]model.ActivityLog, error)

	ListSessions(ctx context.Context, f SessionFilter) ([]model.ParkingSession, error)
	Report(ctx context.Context, from, to time.Time) (*Report, error)
	Analytics(ctx context.Context, from, to time.Time) (*Analytics, error)

	CreateAlert(ctx context.Context, a *model.Alert) error
	ListAlerts(ctx context.Context, unreadOnly bool, limit int) ([]model.Alert, error)
	MarkAlertRead(ctx context.Context, id int64) (*model.Alert, error)

	SaveSubscription(ctx context.Context, sub *model.PushSubscription) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db, now: time.Now}
}

// DB exposes the underlying connection for components that share it.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) clock() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// first loads one row by primary key, translating a miss into ErrNotFound.
func first[T any](tx *gorm.DB, id int64, what string) (*T, error) {
	var row T
	err := tx.First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s %d", ErrNotFound, what, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s %d: %w", what, id, err)
	}
	return &row, nil
}

// exists reports whether any row matches the query.
func exists(tx *gorm.DB, m any, query string, args ...any) (bool, error) {
	var n int64
	if err := tx.Model(m).Where(query, args...).Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
