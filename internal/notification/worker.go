package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Payload is the JSON body delivered to the browser's service worker.
type Payload struct {
	Title    string          `json:"title"`
	Body     string          `json:"body"`
	AlertID  int64           `json:"alert_id"`
	AreaID   int64           `json:"area_id"`
	Type     model.AlertType `json:"type"`
	Severity model.Severity  `json:"severity"`
}

// WorkerPool pushes stored alerts to the subscribed browsers of active
// admins and operators.
type WorkerPool struct {
	size    int
	jobs    chan int64
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int64, size*16),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Debugf("Notification worker %d started", id)
	for {
		select {
		case alertID := <-wp.jobs:
			wp.sendNotificationsForAlert(ctx, alertID)
		case <-ctx.Done():
			log.Debugf("Notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues an alert for delivery. It never blocks the caller; when
// the queue is full the push is dropped and the alert stays in the database.
func (wp *WorkerPool) Dispatch(alertID int64) {
	select {
	case wp.jobs <- alertID:
	default:
		log.WithField("alert_id", alertID).Warn("notification queue is full; push dropped")
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan int64 {
	return wp.jobs
}

// sendNotificationsForAlert loads an alert and pushes it to every
// subscription of an active admin or operator.
func (wp *WorkerPool) sendNotificationsForAlert(ctx context.Context, alertID int64) {
	var alert model.Alert
	if err := wp.db.WithContext(ctx).First(&alert, alertID).Error; err != nil {
		log.Errorf("Error fetching alert %d: %v", alertID, err)
		return
	}

	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN users ON users.id = push_subscriptions.user_id").
		Where("users.active = ? AND users.role IN ?", true, []model.Role{model.RoleAdmin, model.RolePetugas}).
		Find(&subscriptions).Error
	if err != nil {
		log.Errorf("Error fetching subscriptions for alert %d: %v", alertID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	areaLabel := fmt.Sprintf("Area %d", alert.AreaID)
	var area model.Area
	if err := wp.db.WithContext(ctx).
		Select("name").
		First(&area, alert.AreaID).Error; err != nil {
		log.Warnf("Error fetching area %d: %v", alert.AreaID, err)
	} else if area.Name != "" {
		areaLabel = area.Name
	}

	payload, err := json.Marshal(Payload{
		Title:    fmt.Sprintf("%s: %s", areaLabel, alert.Type),
		Body:     alert.Message,
		AlertID:  alert.ID,
		AreaID:   alert.AreaID,
		Type:     alert.Type,
		Severity: alert.Severity,
	})
	if err != nil {
		log.Errorf("Error encoding payload for alert %d: %v", alertID, err)
		return
	}

	log.WithFields(log.Fields{"alert_id": alertID, "subscriptions": len(subscriptions)}).Info("Sending push notifications")
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	// Manually construct the webpush.Subscription object
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Errorf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Infof("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Errorf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
