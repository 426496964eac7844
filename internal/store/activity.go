package store

import (
	"context"
	"fmt"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
)

func (s *gormStore) AppendActivity(ctx context.Context, userID int64, activity string) error {
	entry := model.ActivityLog{UserID: userID, Activity: activity, OccurredAt: s.clock()}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append activity log: %w", err)
	}
	return nil
}

func (s *gormStore) ListActivity(ctx context.Context, f ActivityFilter) ([]model.ActivityLog, error) {
	q := s.db.WithContext(ctx).Preload("User").
		Order("occurred_at DESC").Order("id DESC").
		Limit(clampLimit(f.Limit, 500, 500))
	if f.UserID > 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if !f.From.IsZero() {
		q = q.Where("occurred_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("occurred_at < ?", f.To)
	}

	var logs []model.ActivityLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list activity log: %w", err)
	}
	return logs, nil
}
