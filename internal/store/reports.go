package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
)

// closedBetween loads the sessions that left in [from, to).
func closedBetween(tx *gorm.DB, from, to time.Time) ([]model.ParkingSession, error) {
	var sessions []model.ParkingSession
	err := tx.Preload("Vehicle").Preload("Area").Preload("Tariff").
		Where("status = ? AND exit_time >= ? AND exit_time < ?", model.SessionClosed, from, to).
		Order("exit_time DESC").Order("id DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load closed sessions: %w", err)
	}
	return sessions, nil
}

func feeOf(s model.ParkingSession) decimal.Decimal {
	if s.TotalFee.Valid {
		return s.TotalFee.Decimal
	}
	return decimal.Zero
}

// Report summarizes the sessions closed in [from, to).
func (s *gormStore) Report(ctx context.Context, from, to time.Time) (*Report, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: report period is empty", ErrInvalid)
	}
	sessions, err := closedBetween(s.db.WithContext(ctx), from, to)
	if err != nil {
		return nil, err
	}

	report := &Report{
		From:       from,
		To:         to,
		Revenue:    decimal.Zero,
		ByCategory: map[model.VehicleCategory]*Summary{},
		ByArea:     map[string]*Summary{},
		Sessions:   sessions,
	}
	add := func(sum *Summary, fee decimal.Decimal) {
		sum.Count++
		sum.Total = sum.Total.Add(fee)
	}
	for _, sess := range sessions {
		fee := feeOf(sess)
		report.Count++
		report.Revenue = report.Revenue.Add(fee)

		if sess.Vehicle != nil {
			sum, ok := report.ByCategory[sess.Vehicle.Category]
			if !ok {
				sum = &Summary{Total: decimal.Zero}
				report.ByCategory[sess.Vehicle.Category] = sum
			}
			add(sum, fee)
		}
		if sess.Area != nil {
			sum, ok := report.ByArea[sess.Area.Name]
			if !ok {
				sum = &Summary{Total: decimal.Zero}
				report.ByArea[sess.Area.Name] = sum
			}
			add(sum, fee)
		}
	}
	return report, nil
}

// Analytics computes the dashboard figures for [from, to). Hour buckets are
// built in Go so the query stays portable across databases.
func (s *gormStore) Analytics(ctx context.Context, from, to time.Time) (*Analytics, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: analytics period is empty", ErrInvalid)
	}
	tx := s.db.WithContext(ctx)
	out := &Analytics{From: from, To: to, Revenue: decimal.Zero}

	var entries []time.Time
	if err := tx.Model(&model.ParkingSession{}).
		Where("entry_time >= ? AND entry_time < ?", from, to).
		Pluck("entry_time", &entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	out.Entries = int64(len(entries))
	buckets := map[time.Time]int{}
	for _, e := range entries {
		buckets[e.UTC().Truncate(time.Hour)]++
	}
	for hour, n := range buckets {
		out.EntriesByHour = append(out.EntriesByHour, HourCount{Hour: hour, Count: n})
	}
	sort.Slice(out.EntriesByHour, func(i, j int) bool {
		return out.EntriesByHour[i].Hour.Before(out.EntriesByHour[j].Hour)
	})

	closed, err := closedBetween(tx, from, to)
	if err != nil {
		return nil, err
	}
	byCategory := map[model.VehicleCategory]*CategoryRevenue{}
	for _, sess := range closed {
		fee := feeOf(sess)
		out.Revenue = out.Revenue.Add(fee)
		if sess.Vehicle == nil {
			continue
		}
		rev, ok := byCategory[sess.Vehicle.Category]
		if !ok {
			rev = &CategoryRevenue{Category: sess.Vehicle.Category, Revenue: decimal.Zero}
			byCategory[sess.Vehicle.Category] = rev
		}
		rev.Count++
		rev.Revenue = rev.Revenue.Add(fee)
	}
	for _, rev := range byCategory {
		rev.Average = rev.Revenue.Div(decimal.NewFromInt(int64(rev.Count))).Round(2)
		out.RevenueByCategory = append(out.RevenueByCategory, *rev)
	}
	sort.Slice(out.RevenueByCategory, func(i, j int) bool {
		return out.RevenueByCategory[i].Category < out.RevenueByCategory[j].Category
	})

	if err := tx.Model(&model.ParkingSession{}).
		Where("status = ?", model.SessionOpen).
		Count(&out.ActiveVehicles).Error; err != nil {
		return nil, fmt.Errorf("failed to count active vehicles: %w", err)
	}
	if err := tx.Model(&model.Alert{}).
		Where("is_read = ?", false).
		Count(&out.UnreadAlerts).Error; err != nil {
		return nil, fmt.Errorf("failed to count unread alerts: %w", err)
	}

	snapshot, err := s.OccupancySnapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range snapshot {
		load := AreaLoad{
			AreaID:       o.Area.ID,
			Name:         o.Area.Name,
			Capacity:     o.Area.Capacity,
			Occupied:     o.Area.Occupied,
			OpenSessions: o.OpenSessions,
		}
		if o.Area.Capacity > 0 {
			load.Percent = float64(o.Area.Occupied) / float64(o.Area.Capacity) * 100
		}
		out.Occupancy = append(out.Occupancy, load)
	}
	return out, nil
}
