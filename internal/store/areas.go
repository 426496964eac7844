package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
)

func (s *gormStore) ListAreas(ctx context.Context) ([]model.Area, error) {
	var areas []model.Area
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&areas).Error; err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	return areas, nil
}

func (s *gormStore) GetArea(ctx context.Context, id int64) (*model.Area, error) {
	return first[model.Area](s.db.WithContext(ctx), id, "area")
}

func (s *gormStore) CreateArea(ctx context.Context, name string, capacity int) (*model.Area, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: area name is required", ErrInvalid)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", ErrInvalid)
	}

	area := model.Area{Name: name, Capacity: capacity}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &model.Area{}, "name = ?", name)
		if err != nil {
			return fmt.Errorf("failed to check area name: %w", err)
		}
		if taken {
			return fmt.Errorf("%w: area %q already exists", ErrConflict, name)
		}
		return tx.Create(&area).Error
	})
	if err != nil {
		return nil, err
	}
	return &area, nil
}

// UpdateArea renames an area or changes its capacity. The capacity is
// changed with a conditional update so it can never drop below the number
// of vehicles currently inside.
func (s *gormStore) UpdateArea(ctx context.Context, id int64, upd AreaUpdate) (*model.Area, error) {
	updates := map[string]any{}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: area name is required", ErrInvalid)
		}
		updates["name"] = name
	}
	if upd.Capacity != nil {
		if *upd.Capacity <= 0 {
			return nil, fmt.Errorf("%w: capacity must be positive", ErrInvalid)
		}
		updates["capacity"] = *upd.Capacity
	}

	var area *model.Area
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := first[model.Area](tx, id, "area")
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			area = current
			return nil
		}

		if name, ok := updates["name"]; ok {
			taken, err := exists(tx, &model.Area{}, "name = ? AND id <> ?", name, id)
			if err != nil {
				return fmt.Errorf("failed to check area name: %w", err)
			}
			if taken {
				return fmt.Errorf("%w: area %q already exists", ErrConflict, name)
			}
		}

		q := tx.Model(&model.Area{}).Where("id = ?", id)
		if upd.Capacity != nil {
			q = q.Where("occupied <= ?", *upd.Capacity)
		}
		res := q.Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update area %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 && upd.Capacity != nil {
			return fmt.Errorf("%w: capacity %d is below the %d vehicles parked in area %d", ErrConflict, *upd.Capacity, current.Occupied, id)
		}

		area, err = first[model.Area](tx, id, "area")
		return err
	})
	if err != nil {
		return nil, err
	}
	return area, nil
}

// DeleteArea removes an empty area that has no session history.
func (s *gormStore) DeleteArea(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := first[model.Area](tx, id, "area"); err != nil {
			return err
		}
		used, err := exists(tx, &model.ParkingSession{}, "area_id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to check sessions of area %d: %w", id, err)
		}
		if used {
			return fmt.Errorf("%w: area %d has parking sessions", ErrConflict, id)
		}
		if err := tx.Where("area_id = ?", id).Delete(&model.Alert{}).Error; err != nil {
			return fmt.Errorf("failed to delete alerts of area %d: %w", id, err)
		}
		if err := tx.Where("area_id = ?", id).Delete(&model.Slot{}).Error; err != nil {
			return fmt.Errorf("failed to delete slots of area %d: %w", id, err)
		}
		res := tx.Where("id = ? AND occupied = 0", id).Delete(&model.Area{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete area %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: area %d is not empty", ErrConflict, id)
		}
		return nil
	})
}

// OccupancySnapshot reads every area together with its open session count.
// Both numbers come from one statement so they share a single snapshot even
// under READ COMMITTED.
func (s *gormStore) OccupancySnapshot(ctx context.Context) ([]AreaOccupancy, error) {
	var rows []struct {
		model.Area
		OpenSessions int64
	}
	err := s.db.WithContext(ctx).Model(&model.Area{}).
		Select("areas.*, (SELECT COUNT(*) FROM parking_sessions WHERE parking_sessions.area_id = areas.id AND parking_sessions.status = ?) AS open_sessions", model.SessionOpen).
		Order("areas.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read occupancy snapshot: %w", err)
	}

	out := make([]AreaOccupancy, len(rows))
	for i, r := range rows {
		out[i] = AreaOccupancy{Area: r.Area, OpenSessions: r.OpenSessions}
	}
	return out, nil
}
