// Package events publishes compliance lifecycle events to Kafka so
// downstream consumers (notifications, reporting) can react to
// certification and requirement changes.
package events

import (
	"context"
	"encoding/json"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	CertificationGranted EventType = "certification_granted"
	CertificationRevoked EventType = "certification_revoked"
	CertificationExpired EventType = "certification_expired"
	RequirementCreated   EventType = "requirement_created"
	RequirementDeleted   EventType = "requirement_deleted"
	RevisionActivated    EventType = "revision_activated"
)

// Event is the wire payload. EntityID identifies the certification,
// requirement or revision the event concerns and doubles as the
// partitioning key.
type Event struct {
	Type     EventType   `json:"type"`
	EntityID uuid.UUID   `json:"entityId"`
	Payload  interface{} `json:"payload,omitempty"`
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
}

func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	// Create topic if it doesn't exist
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	topicConfigs := []kafka.TopicConfig{
		{
			Topic:             topic,
			NumPartitions:     3,
			ReplicationFactor: 1,
		},
	}

	err = conn.CreateTopics(topicConfigs...)
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}
	p := &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
			Topic:    topic,
		},
		events:    make(chan Event, 1000),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
	}

	go p.eventLoop()
	return p, nil
}

func (p *Producer) Produce(eventType EventType, entityID uuid.UUID, payload interface{}) {
	select {
	case p.events <- Event{Type: eventType, EntityID: entityID, Payload: payload}:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(eventType)),
			zap.String("entity_id", entityID.String()),
		)
	}
}

func (p *Producer) eventLoop() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("entity_id", event.EntityID.String()),
		)
		return
	}
	err = backoff.Retry(func() error {
		return p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(event.EntityID.String()),
			Value: value,
		})
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3))
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("entity_id", event.EntityID.String()),
		)
		return
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}
