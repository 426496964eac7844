// Package reconcile periodically compares each area's occupancy counter with
// its open sessions. Mismatches are reported, never corrected.
package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
	"github.com/MuhammadRafly8/parkir-ukk/internal/parking"
	"github.com/MuhammadRafly8/parkir-ukk/internal/store"
)

// Raiser stores and delivers an alert.
type Raiser interface {
	Raise(ctx context.Context, a *model.Alert) error
}

type mismatch struct {
	occupied int
	open     int64
}

// Service runs the reconciliation loop.
type Service struct {
	store    store.Store
	raiser   Raiser
	interval time.Duration

	mu       sync.Mutex
	reported map[int64]mismatch
}

// NewService creates a reconciler that checks every interval.
func NewService(s store.Store, raiser Raiser, interval time.Duration) *Service {
	return &Service{
		store:    s,
		raiser:   raiser,
		interval: interval,
		reported: make(map[int64]mismatch),
	}
}

// Run checks once immediately and then on every interval until ctx is done.
func (s *Service) Run(ctx context.Context) {
	log.Infof("Starting occupancy reconciler (every %s)...", s.interval)
	s.CheckOnce(ctx)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Occupancy reconciler shutting down.")
			return
		case <-timer.C:
			s.CheckOnce(ctx)
			timer.Reset(s.interval)
		}
	}
}

// CheckOnce performs a single comparison and returns the inconsistent areas.
// A SYSTEM_WARNING is raised the first time a given mismatch is seen.
func (s *Service) CheckOnce(ctx context.Context) []store.AreaOccupancy {
	snapshot, err := s.store.OccupancySnapshot(ctx)
	if err != nil {
		log.Errorf("Error reading occupancy snapshot: %v", err)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var bad []store.AreaOccupancy
	seen := make(map[int64]bool, len(snapshot))
	for _, o := range snapshot {
		seen[o.Area.ID] = true
		invariantErr := parking.CheckOccupancy(o.Area)
		if o.Consistent() && invariantErr == nil {
			delete(s.reported, o.Area.ID)
			continue
		}
		bad = append(bad, o)

		current := mismatch{occupied: o.Area.Occupied, open: o.OpenSessions}
		if prev, ok := s.reported[o.Area.ID]; ok && prev == current {
			continue
		}
		s.reported[o.Area.ID] = current

		msg := fmt.Sprintf("%s counts %d occupied slots but has %d open sessions (capacity %d)",
			o.Area.Name, o.Area.Occupied, o.OpenSessions, o.Area.Capacity)
		log.WithFields(log.Fields{
			"area_id":       o.Area.ID,
			"occupied":      o.Area.Occupied,
			"open_sessions": o.OpenSessions,
		}).Warn("occupancy mismatch")

		if s.raiser == nil {
			continue
		}
		err := s.raiser.Raise(ctx, &model.Alert{
			AreaID:   o.Area.ID,
			Type:     model.AlertSystemWarning,
			Severity: model.SeverityWarning,
			Message:  msg,
		})
		if err != nil {
			log.Errorf("Error raising occupancy warning for area %d: %v", o.Area.ID, err)
		}
	}
	for id := range s.reported {
		if !seen[id] {
			delete(s.reported, id)
		}
	}
	return bad
}
