// Package alert turns occupancy changes into stored, pushed alerts.
package alert

import (
	"context"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
	"github.com/MuhammadRafly8/parkir-ukk/internal/store"
)

// Dispatcher delivers a stored alert to subscribers.
type Dispatcher interface {
	Dispatch(alertID int64)
}

// Evaluate returns the alert an occupancy change of delta crosses into, if
// any. Alerts fire on crossings only, so an area that stays full does not
// repeat AREA_FULL on every entry attempt.
func Evaluate(area model.Area, delta int, almostFullRatio float64) (model.Alert, bool) {
	prev := area.Occupied - delta
	now := area.Occupied
	capacity := area.Capacity
	if capacity <= 0 || delta == 0 {
		return model.Alert{}, false
	}

	newAlert := func(t model.AlertType, sev model.Severity, msg string) (model.Alert, bool) {
		return model.Alert{AreaID: area.ID, Type: t, Severity: sev, Message: msg}, true
	}

	if delta > 0 {
		if prev < capacity && now >= capacity {
			return newAlert(model.AlertAreaFull, model.SeverityCritical,
				fmt.Sprintf("%s is full (%d/%d)", area.Name, now, capacity))
		}
		threshold := int(math.Ceil(almostFullRatio * float64(capacity)))
		if prev < threshold && now >= threshold && now < capacity {
			return newAlert(model.AlertAreaAlmostFull, model.SeverityWarning,
				fmt.Sprintf("%s is almost full: %d of %d slots left", area.Name, capacity-now, capacity))
		}
		return model.Alert{}, false
	}

	if prev >= capacity && now < capacity {
		return newAlert(model.AlertSlotAvailable, model.SeverityInfo,
			fmt.Sprintf("%s has %d slot(s) available again", area.Name, capacity-now))
	}
	return model.Alert{}, false
}

// Service stores alerts and hands them to the dispatcher.
type Service struct {
	store           store.Store
	dispatcher      Dispatcher
	almostFullRatio float64
}

// NewService creates an alert service. dispatcher may be nil when push
// delivery is disabled.
func NewService(s store.Store, dispatcher Dispatcher, almostFullRatio float64) *Service {
	return &Service{store: s, dispatcher: dispatcher, almostFullRatio: almostFullRatio}
}

// Raise stores an alert and queues it for delivery.
func (s *Service) Raise(ctx context.Context, a *model.Alert) error {
	if err := s.store.CreateAlert(ctx, a); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"alert_id": a.ID,
		"area_id":  a.AreaID,
		"type":     a.Type,
		"severity": a.Severity,
	}).Info(a.Message)
	if s.dispatcher != nil {
		s.dispatcher.Dispatch(a.ID)
	}
	return nil
}

// OccupancyChanged raises the alert a committed occupancy change crosses
// into. Failures are logged; the parking session has already committed.
func (s *Service) OccupancyChanged(ctx context.Context, area model.Area, delta int) {
	a, ok := Evaluate(area, delta, s.almostFullRatio)
	if !ok {
		return
	}
	if err := s.Raise(ctx, &a); err != nil {
		log.WithField("area_id", area.ID).Errorf("failed to raise %s alert: %v", a.Type, err)
	}
}
