package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
	"github.com/MuhammadRafly8/parkir-ukk/internal/parse"
)

// SearchVehicles finds vehicles whose plate contains the query, ignoring
// case and spacing differences.
func (s *gormStore) SearchVehicles(ctx context.Context, plate string, limit int) ([]model.Vehicle, error) {
	q := s.db.WithContext(ctx).Order("plate ASC").Limit(clampLimit(limit, 100, 500))
	if needle := strings.Join(strings.Fields(strings.ToUpper(plate)), " "); needle != "" {
		q = q.Where("plate LIKE ?", "%"+needle+"%")
	}
	var vehicles []model.Vehicle
	if err := q.Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("failed to search vehicles: %w", err)
	}
	return vehicles, nil
}

func (s *gormStore) CreateVehicle(ctx context.Context, v *model.Vehicle) error {
	plate, err := parse.Plate(v.Plate)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	v.Plate = plate
	v.Color = strings.TrimSpace(v.Color)
	v.OwnerName = strings.TrimSpace(v.OwnerName)
	if !v.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalid, v.Category)
	}
	if v.Color == "" || v.OwnerName == "" {
		return fmt.Errorf("%w: color and owner name are required", ErrInvalid)
	}
	if v.UserID <= 0 {
		return fmt.Errorf("%w: owning user is required", ErrInvalid)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &model.Vehicle{}, "plate = ?", plate)
		if err != nil {
			return fmt.Errorf("failed to check plate: %w", err)
		}
		if taken {
			return fmt.Errorf("%w: vehicle %s already registered", ErrConflict, plate)
		}
		return tx.Create(v).Error
	})
}

func (s *gormStore) UpdateVehicle(ctx context.Context, id int64, upd VehicleUpdate) (*model.Vehicle, error) {
	updates := map[string]any{}
	if upd.Plate != nil {
		plate, err := parse.Plate(*upd.Plate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		updates["plate"] = plate
	}
	if upd.Category != nil {
		if !upd.Category.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalid, *upd.Category)
		}
		updates["category"] = *upd.Category
	}
	if upd.Color != nil {
		if strings.TrimSpace(*upd.Color) == "" {
			return nil, fmt.Errorf("%w: color must not be empty", ErrInvalid)
		}
		updates["color"] = strings.TrimSpace(*upd.Color)
	}
	if upd.OwnerName != nil {
		if strings.TrimSpace(*upd.OwnerName) == "" {
			return nil, fmt.Errorf("%w: owner name must not be empty", ErrInvalid)
		}
		updates["owner_name"] = strings.TrimSpace(*upd.OwnerName)
	}

	var vehicle *model.Vehicle
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := first[model.Vehicle](tx, id, "vehicle"); err != nil {
			return err
		}
		if plate, ok := updates["plate"]; ok {
			taken, err := exists(tx, &model.Vehicle{}, "plate = ? AND id <> ?", plate, id)
			if err != nil {
				return fmt.Errorf("failed to check plate: %w", err)
			}
			if taken {
				return fmt.Errorf("%w: vehicle %s already registered", ErrConflict, plate)
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&model.Vehicle{ID: id}).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update vehicle %d: %w", id, err)
			}
		}
		var err error
		vehicle, err = first[model.Vehicle](tx, id, "vehicle")
		return err
	})
	if err != nil {
		return nil, err
	}
	return vehicle, nil
}

// DeleteVehicle removes a vehicle that has never parked.
func (s *gormStore) DeleteVehicle(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := first[model.Vehicle](tx, id, "vehicle"); err != nil {
			return err
		}
		used, err := exists(tx, &model.ParkingSession{}, "vehicle_id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to check sessions of vehicle %d: %w", id, err)
		}
		if used {
			return fmt.Errorf("%w: vehicle %d has parking history", ErrConflict, id)
		}
		return tx.Delete(&model.Vehicle{}, id).Error
	})
}
