// Package parking implements the session lifecycle of the facility: entry,
// lookup and exit of vehicles, backed by the area capacity ledger and the
// tariff table.
package parking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
	"github.com/MuhammadRafly8/parkir-ukk/internal/parse"
)

// OccupancyObserver is told about every committed change to an area's
// occupancy. delta is +1 for an entry and -1 for an exit.
type OccupancyObserver interface {
	OccupancyChanged(ctx context.Context, area model.Area, delta int)
}

// Engine runs the session lifecycle against a gorm database.
type Engine struct {
	db        *gorm.DB
	now       func() time.Time
	observers []OccupancyObserver
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock used for entry and exit times.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithObserver registers an observer for committed occupancy changes.
func WithObserver(o OccupancyObserver) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

// NewEngine creates a session engine.
func NewEngine(db *gorm.DB, opts ...Option) *Engine {
	e := &Engine{db: db, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// clock returns the current time in UTC, truncated to whole seconds so the
// value survives a round trip through any of the supported databases.
func (e *Engine) clock() time.Time {
	return e.now().UTC().Truncate(time.Second)
}

// EntryRequest is a vehicle arriving at an area gate.
// Category, Color and OwnerName are only used when the plate is new.
type EntryRequest struct {
	Plate      string
	Category   string
	Color      string
	OwnerName  string
	AreaID     int64
	OperatorID int64
}

// OpenSession admits a vehicle into an area and starts a parking session.
func (e *Engine) OpenSession(ctx context.Context, req EntryRequest) (*model.ParkingSession, error) {
	plate, err := parse.Plate(req.Plate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.AreaID <= 0 {
		return nil, fmt.Errorf("%w: area id is required", ErrValidation)
	}
	if req.OperatorID <= 0 {
		return nil, fmt.Errorf("%w: operator id is required", ErrValidation)
	}

	now := e.clock()
	var (
		sessionID int64
		area      *model.Area
	)
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vehicle, err := resolveVehicle(tx, plate, req)
		if err != nil {
			return err
		}

		var open int64
		if err := tx.Model(&model.ParkingSession{}).
			Where("vehicle_id = ? AND status = ?", vehicle.ID, model.SessionOpen).
			Count(&open).Error; err != nil {
			return fmt.Errorf("failed to check open sessions for %s: %w", plate, err)
		}
		if open > 0 {
			return fmt.Errorf("%w: %s", ErrAlreadyParked, plate)
		}

		tariff, err := RateFor(tx, vehicle.Category)
		if err != nil {
			return err
		}

		if err := TryAdmit(tx, req.AreaID); err != nil {
			return err
		}

		session := model.ParkingSession{
			TicketCode:      uuid.NewString(),
			VehicleID:       vehicle.ID,
			AreaID:          req.AreaID,
			TariffID:        tariff.ID,
			HourlyRate:      tariff.HourlyRate,
			EntryTime:       now,
			Status:          model.SessionOpen,
			EntryOperatorID: req.OperatorID,
		}
		if err := tx.Omit(clause.Associations).Create(&session).Error; err != nil {
			return fmt.Errorf("failed to create session for %s: %w", plate, err)
		}
		sessionID = session.ID

		if err := appendActivity(tx, req.OperatorID, "Recorded vehicle entry: "+plate, now); err != nil {
			return err
		}

		area, err = LoadArea(tx, req.AreaID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"session_id": sessionID,
		"plate":      plate,
		"area_id":    area.ID,
		"occupied":   area.Occupied,
		"capacity":   area.Capacity,
	}).Info("parking session opened")
	e.notify(ctx, *area, 1)

	return e.loadSession(ctx, sessionID)
}

// resolveVehicle returns the vehicle registered under plate, registering it
// first if it is unknown. Known vehicles are returned unchanged and the
// category, color and owner of the request are not looked at.
func resolveVehicle(tx *gorm.DB, plate string, req EntryRequest) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	err := tx.Where("plate = ?", plate).First(&vehicle).Error
	if err == nil {
		return &vehicle, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up vehicle %s: %w", plate, err)
	}

	category, err := parse.Category(req.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if category == "" {
		return nil, fmt.Errorf("%w: category is required for a new vehicle", ErrValidation)
	}
	if req.Color == "" || req.OwnerName == "" {
		return nil, fmt.Errorf("%w: color and owner name are required for a new vehicle", ErrValidation)
	}
	vehicle = model.Vehicle{
		Plate:     plate,
		Category:  category,
		Color:     req.Color,
		OwnerName: req.OwnerName,
		UserID:    req.OperatorID,
	}
	if err := tx.Create(&vehicle).Error; err != nil {
		return nil, fmt.Errorf("failed to register vehicle %s: %w", plate, err)
	}
	return &vehicle, nil
}

// OpenSessionQuery selects open sessions. The first non-zero field of
// SessionID, TicketCode and Plate selects a single session; otherwise all
// open sessions are returned, narrowed to AreaID when set.
type OpenSessionQuery struct {
	SessionID  int64
	TicketCode string
	Plate      string
	AreaID     int64
}

func (q OpenSessionQuery) single() bool {
	return q.SessionID != 0 || q.TicketCode != "" || q.Plate != ""
}

// FindOpenSession looks up open sessions. Single-session queries return
// ErrNotFound when nothing matches; area and unfiltered queries may return
// an empty slice.
func (e *Engine) FindOpenSession(ctx context.Context, q OpenSessionQuery) ([]model.ParkingSession, error) {
	tx := e.db.WithContext(ctx).
		Preload("Vehicle").Preload("Area").Preload("Tariff").
		Where("parking_sessions.status = ?", model.SessionOpen)

	switch {
	case q.SessionID != 0:
		tx = tx.Where("parking_sessions.id = ?", q.SessionID)
	case q.TicketCode != "":
		tx = tx.Where("parking_sessions.ticket_code = ?", q.TicketCode)
	case q.Plate != "":
		plate, err := parse.Plate(q.Plate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		tx = tx.Joins("JOIN vehicles ON vehicles.id = parking_sessions.vehicle_id").
			Where("vehicles.plate = ?", plate)
	case q.AreaID != 0:
		tx = tx.Where("parking_sessions.area_id = ?", q.AreaID)
	}

	if q.single() {
		var session model.ParkingSession
		err := tx.Order("parking_sessions.entry_time DESC").First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no open session matches", ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to find open session: %w", err)
		}
		return []model.ParkingSession{session}, nil
	}

	var sessions []model.ParkingSession
	if err := tx.Order("parking_sessions.entry_time DESC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}
	return sessions, nil
}

// SessionIDByTicket resolves a ticket code to its session id whatever the
// session's status, so a repeated exit reaches CloseSession and is refused
// there as already closed.
func (e *Engine) SessionIDByTicket(ctx context.Context, ticket string) (int64, error) {
	ticket = strings.TrimSpace(ticket)
	if ticket == "" {
		return 0, fmt.Errorf("%w: ticket code is required", ErrValidation)
	}
	var session model.ParkingSession
	err := e.db.WithContext(ctx).Select("id").Where("ticket_code = ?", ticket).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: ticket %s", ErrNotFound, ticket)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up ticket %s: %w", ticket, err)
	}
	return session.ID, nil
}

// ExitRequest is a vehicle leaving through the exit gate.
type ExitRequest struct {
	SessionID     int64
	PaymentMethod model.PaymentMethod
	Tendered      *decimal.Decimal
	OperatorID    int64
}

// Receipt is the result of a closed session.
type Receipt struct {
	Session       model.ParkingSession `json:"session"`
	Hours         int                  `json:"hours"`
	Fee           decimal.Decimal      `json:"fee"`
	PaymentMethod model.PaymentMethod  `json:"payment_method"`
	AmountPaid    decimal.Decimal      `json:"amount_paid"`
	Change        decimal.Decimal      `json:"change"`
}

// CloseSession bills and closes an open session and releases its slot.
// A rejected payment leaves the session and the area untouched.
func (e *Engine) CloseSession(ctx context.Context, req ExitRequest) (*Receipt, error) {
	if req.SessionID <= 0 {
		return nil, fmt.Errorf("%w: session id is required", ErrValidation)
	}
	if req.OperatorID <= 0 {
		return nil, fmt.Errorf("%w: operator id is required", ErrValidation)
	}

	var session model.ParkingSession
	err := e.db.WithContext(ctx).Preload("Vehicle").First(&session, req.SessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: session %d", ErrNotFound, req.SessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %d: %w", req.SessionID, err)
	}
	if session.Status == model.SessionClosed {
		return nil, fmt.Errorf("%w: session %d", ErrAlreadyClosed, session.ID)
	}

	exit := e.clock()
	hours := BillableHours(session.EntryTime, exit)
	fee := Fee(hours, session.HourlyRate)
	settlement, err := Settle(fee, Payment{Method: req.PaymentMethod, Tendered: req.Tendered})
	if err != nil {
		return nil, err
	}

	plate := ""
	if session.Vehicle != nil {
		plate = session.Vehicle.Plate
	}

	var area *model.Area
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ParkingSession{}).
			Where("id = ? AND status = ?", session.ID, model.SessionOpen).
			Updates(map[string]any{
				"status":           model.SessionClosed,
				"exit_time":        exit,
				"duration_hours":   hours,
				"total_fee":        fee,
				"payment_method":   req.PaymentMethod,
				"amount_paid":      settlement.AmountPaid,
				"change_due":       settlement.Change,
				"exit_operator_id": req.OperatorID,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to close session %d: %w", session.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: session %d", ErrAlreadyClosed, session.ID)
		}

		if err := Release(tx, session.AreaID); err != nil {
			return err
		}

		activity := fmt.Sprintf("Recorded vehicle exit: %s - %s", plate, fee.StringFixed(2))
		if err := appendActivity(tx, req.OperatorID, activity, exit); err != nil {
			return err
		}

		area, err = LoadArea(tx, session.AreaID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"session_id": session.ID,
		"plate":      plate,
		"hours":      hours,
		"fee":        fee.String(),
		"method":     req.PaymentMethod,
	}).Info("parking session closed")
	e.notify(ctx, *area, -1)

	closed, err := e.loadSession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	return &Receipt{
		Session:       *closed,
		Hours:         hours,
		Fee:           fee,
		PaymentMethod: req.PaymentMethod,
		AmountPaid:    settlement.AmountPaid,
		Change:        settlement.Change,
	}, nil
}

func (e *Engine) loadSession(ctx context.Context, id int64) (*model.ParkingSession, error) {
	var session model.ParkingSession
	err := e.db.WithContext(ctx).
		Preload("Vehicle").Preload("Area").Preload("Tariff").
		First(&session, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to reload session %d: %w", id, err)
	}
	return &session, nil
}

func (e *Engine) notify(ctx context.Context, area model.Area, delta int) {
	for _, o := range e.observers {
		o.OccupancyChanged(ctx, area, delta)
	}
}

func appendActivity(tx *gorm.DB, userID int64, activity string, at time.Time) error {
	entry := model.ActivityLog{UserID: userID, Activity: activity, OccurredAt: at}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append activity log: %w", err)
	}
	return nil
}
