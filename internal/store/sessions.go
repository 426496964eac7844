package store

import (
	"context"
	"fmt"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
)

// ListSessions returns session history, newest entry first.
func (s *gormStore) ListSessions(ctx context.Context, f SessionFilter) ([]model.ParkingSession, error) {
	q := s.db.WithContext(ctx).
		Preload("Vehicle").Preload("Area").
		Order("entry_time DESC").Order("id DESC").
		Limit(clampLimit(f.Limit, 100, 100))
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.VehicleID > 0 {
		q = q.Where("vehicle_id = ?", f.VehicleID)
	}
	if !f.From.IsZero() {
		q = q.Where("entry_time >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("entry_time < ?", f.To)
	}

	var sessions []model.ParkingSession
	if err := q.Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}
