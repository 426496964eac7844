package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
)

func (s *gormStore) ListSlots(ctx context.Context, f SlotFilter) ([]model.Slot, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown slot status %q", ErrInvalid, f.Status)
	}
	q := s.db.WithContext(ctx).Preload("Area")
	if f.AreaID != 0 {
		q = q.Where("area_id = ?", f.AreaID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var slots []model.Slot
	if err := q.Order("number ASC").Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

// CreateSlot adds a numbered bay to an area. Numbers are unique per area.
func (s *gormStore) CreateSlot(ctx context.Context, slot *model.Slot) error {
	slot.Number = strings.TrimSpace(slot.Number)
	if slot.Number == "" {
		return fmt.Errorf("%w: slot number is required", ErrInvalid)
	}
	if slot.Status == "" {
		slot.Status = model.SlotAvailable
	}
	if !slot.Status.Valid() {
		return fmt.Errorf("%w: unknown slot status %q", ErrInvalid, slot.Status)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := first[model.Area](tx, slot.AreaID, "area"); err != nil {
			return err
		}
		taken, err := exists(tx, &model.Slot{}, "area_id = ? AND number = ?", slot.AreaID, slot.Number)
		if err != nil {
			return fmt.Errorf("failed to check slot number: %w", err)
		}
		if taken {
			return fmt.Errorf("%w: slot %s already exists in area %d", ErrConflict, slot.Number, slot.AreaID)
		}
		if slot.SessionID != nil {
			if err := sessionExists(tx, *slot.SessionID); err != nil {
				return err
			}
		}
		if err := tx.Create(slot).Error; err != nil {
			return fmt.Errorf("failed to create slot: %w", err)
		}
		return nil
	})
}

func (s *gormStore) UpdateSlot(ctx context.Context, id int64, upd SlotUpdate) (*model.Slot, error) {
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown slot status %q", ErrInvalid, *upd.Status)
	}

	var slot *model.Slot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := first[model.Slot](tx, id, "slot"); err != nil {
			return err
		}
		updates := map[string]any{}
		if upd.Status != nil {
			updates["status"] = *upd.Status
		}
		if upd.Reserved != nil {
			updates["reserved"] = *upd.Reserved
		}
		if upd.SessionID != nil {
			if *upd.SessionID == 0 {
				updates["session_id"] = nil
			} else {
				if err := sessionExists(tx, *upd.SessionID); err != nil {
					return err
				}
				updates["session_id"] = *upd.SessionID
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&model.Slot{ID: id}).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update slot %d: %w", id, err)
			}
		}
		var err error
		slot, err = first[model.Slot](tx.Preload("Area"), id, "slot")
		return err
	})
	if err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *gormStore) DeleteSlot(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Slot{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete slot %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: slot %d", ErrNotFound, id)
	}
	return nil
}

func sessionExists(tx *gorm.DB, id int64) error {
	found, err := exists(tx, &model.ParkingSession{}, "id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to check session %d: %w", id, err)
	}
	if !found {
		return fmt.Errorf("%w: session %d", ErrNotFound, id)
	}
	return nil
}
