package parking

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
)

// TryAdmit takes one slot in the area. The check and the increment are a
// single conditional UPDATE, so concurrent admissions can never push
// occupied past capacity.
func TryAdmit(tx *gorm.DB, areaID int64) error {
	res := tx.Model(&model.Area{}).
		Where("id = ? AND occupied < capacity", areaID).
		UpdateColumn("occupied", gorm.Expr("occupied + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("failed to admit into area %d: %w", areaID, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}
	if err := areaExists(tx, areaID); err != nil {
		return err
	}
	return fmt.Errorf("%w: area %d", ErrAreaFull, areaID)
}

// Release frees one slot in the area. A release that would take occupied
// below zero is refused and reported as ErrLedgerUnderflow.
func Release(tx *gorm.DB, areaID int64) error {
	res := tx.Model(&model.Area{}).
		Where("id = ? AND occupied > 0", areaID).
		UpdateColumn("occupied", gorm.Expr("occupied - ?", 1))
	if res.Error != nil {
		return fmt.Errorf("failed to release area %d: %w", areaID, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}
	if err := areaExists(tx, areaID); err != nil {
		return err
	}
	log.WithField("area_id", areaID).Error("capacity ledger underflow: release without a matching admission")
	return fmt.Errorf("%w: area %d", ErrLedgerUnderflow, areaID)
}

// LoadArea reads an area and verifies its occupancy invariant.
func LoadArea(tx *gorm.DB, areaID int64) (*model.Area, error) {
	var area model.Area
	err := tx.First(&area, areaID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: area %d", ErrNotFound, areaID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load area %d: %w", areaID, err)
	}
	if err := CheckOccupancy(area); err != nil {
		return nil, err
	}
	return &area, nil
}

// CheckOccupancy reports ErrLedgerInvariant unless 0 <= occupied <= capacity.
func CheckOccupancy(area model.Area) error {
	if area.Occupied < 0 || area.Occupied > area.Capacity {
		log.WithFields(log.Fields{
			"area_id":  area.ID,
			"occupied": area.Occupied,
			"capacity": area.Capacity,
		}).Error("capacity ledger invariant violated")
		return fmt.Errorf("%w: area %d has %d/%d", ErrLedgerInvariant, area.ID, area.Occupied, area.Capacity)
	}
	return nil
}

func areaExists(tx *gorm.DB, areaID int64) error {
	var area model.Area
	err := tx.Select("id").First(&area, areaID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: area %d", ErrNotFound, areaID)
	}
	if err != nil {
		return fmt.Errorf("failed to look up area %d: %w", areaID, err)
	}
	return nil
}
