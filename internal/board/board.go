// Package board publishes per-area availability to MQTT for the display
// boards at the facility entrances.
package board

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/MuhammadRafly8/parkir-ukk/config"
	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
)

const publishTimeout = 5 * time.Second

// Client is the subset of mqtt.Client the publisher uses.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Message is the retained availability message of one area.
type Message struct {
	AreaID    int64     `json:"area_id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Occupied  int       `json:"occupied"`
	Available int       `json:"available"`
	Full      bool      `json:"full"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AreaLoader reads the committed state of an area. store.Store satisfies it.
type AreaLoader interface {
	GetArea(ctx context.Context, id int64) (*model.Area, error)
}

// Publisher writes availability messages. Messages are retained so a board
// that reconnects shows the current state at once. Publishes are serialized,
// and with a loader each change re-reads the area under the lock so the last
// retained message carries the latest committed occupancy.
type Publisher struct {
	client Client
	prefix string
	qos    byte
	now    func() time.Time
	loader AreaLoader

	mu sync.Mutex
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAreaLoader makes OccupancyChanged publish a fresh read of the area
// instead of the snapshot the engine passed along.
func WithAreaLoader(l AreaLoader) Option {
	return func(p *Publisher) { p.loader = l }
}

// NewPublisher creates a publisher on an already connected client.
func NewPublisher(client Client, topicPrefix string, qos byte, opts ...Option) *Publisher {
	p := &Publisher{client: client, prefix: topicPrefix, qos: qos, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Connect dials the configured broker.
func Connect(cfg config.MQTTConfig) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectTimeout(10 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warnf("MQTT connection lost: %v", err)
		}).
		SetOnConnectHandler(func(_ mqtt.Client) {
			log.Infof("MQTT connected to %s", cfg.Broker)
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(15 * time.Second) {
		return nil, fmt.Errorf("timed out connecting to MQTT broker %s", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", cfg.Broker, err)
	}
	return client, nil
}

// Topic returns the topic of an area.
func (p *Publisher) Topic(areaID int64) string {
	return fmt.Sprintf("%s/areas/%d", p.prefix, areaID)
}

// Publish sends the current availability of one area.
func (p *Publisher) Publish(area model.Area) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.publish(area)
}

func (p *Publisher) publish(area model.Area) error {
	payload, err := json.Marshal(Message{
		AreaID:    area.ID,
		Name:      area.Name,
		Capacity:  area.Capacity,
		Occupied:  area.Occupied,
		Available: area.Available(),
		Full:      area.Occupied >= area.Capacity,
		UpdatedAt: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode availability of area %d: %w", area.ID, err)
	}

	token := p.client.Publish(p.Topic(area.ID), p.qos, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("timed out publishing availability of area %d", area.ID)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish availability of area %d: %w", area.ID, err)
	}
	return nil
}

// PublishAll sends the availability of every area, typically at start-up.
func (p *Publisher) PublishAll(areas []model.Area) {
	for _, a := range areas {
		if err := p.Publish(a); err != nil {
			log.Warn(err)
		}
	}
}

// OccupancyChanged publishes the new availability of an area. The snapshot
// passed in is used when no loader is configured or the reload fails.
func (p *Publisher) OccupancyChanged(ctx context.Context, area model.Area, _ int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loader != nil {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		fresh, err := p.loader.GetArea(loadCtx, area.ID)
		cancel()
		if err != nil {
			log.WithField("area_id", area.ID).Warnf("failed to reload area for display boards: %v", err)
		} else {
			area = *fresh
		}
	}
	if err := p.publish(area); err != nil {
		log.WithField("area_id", area.ID).Warn(err)
	}
}
