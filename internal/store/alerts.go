package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
)

func (s *gormStore) CreateAlert(ctx context.Context, a *model.Alert) error {
	a.Message = strings.TrimSpace(a.Message)
	if a.AreaID <= 0 {
		return fmt.Errorf("%w: area is required", ErrInvalid)
	}
	if a.Message == "" {
		return fmt.Errorf("%w: message is required", ErrInvalid)
	}
	if !a.Type.Valid() {
		return fmt.Errorf("%w: unknown alert type %q", ErrInvalid, a.Type)
	}
	if !a.Severity.Valid() {
		return fmt.Errorf("%w: unknown severity %q", ErrInvalid, a.Severity)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.clock()
	}

	tx := s.db.WithContext(ctx)
	if _, err := first[model.Area](tx, a.AreaID, "area"); err != nil {
		return err
	}
	if err := tx.Omit("Area").Create(a).Error; err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

func (s *gormStore) ListAlerts(ctx context.Context, unreadOnly bool, limit int) ([]model.Alert, error) {
	q := s.db.WithContext(ctx).Preload("Area").
		Order("created_at DESC").Order("id DESC").
		Limit(clampLimit(limit, 50, 200))
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var alerts []model.Alert
	if err := q.Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

func (s *gormStore) MarkAlertRead(ctx context.Context, id int64) (*model.Alert, error) {
	tx := s.db.WithContext(ctx)
	if _, err := first[model.Alert](tx, id, "alert"); err != nil {
		return nil, err
	}
	if err := tx.Model(&model.Alert{ID: id}).Update("is_read", true).Error; err != nil {
		return nil, fmt.Errorf("failed to mark alert %d read: %w", id, err)
	}
	return first[model.Alert](tx.Preload("Area"), id, "alert")
}
