package reviews

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const EventReviewAdded = "review.added"

// Event is the envelope published for every stored review.
type Event struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ProductID string    `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Data      Review    `json:"data"`
}

// Publisher announces stored reviews to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, productID string, rv Review) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Review) error { return nil }
func (NopPublisher) Close() error                                  { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes review.added events keyed by product id, so every
// event for one product lands on the same partition in order.
type KafkaPublisher struct {
	w      messageWriter
	source string
	now    func() time.Time
}

func NewKafkaPublisher(brokers []string, topic, source string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return newKafkaPublisher(w, source)
}

func newKafkaPublisher(w messageWriter, source string) *KafkaPublisher {
	return &KafkaPublisher{w: w, source: source, now: time.Now}
}

func (p *KafkaPublisher) Publish(ctx context.Context, productID string, rv Review) error {
	ev := Event{
		EventID:   uuid.NewString(),
		EventType: EventReviewAdded,
		ProductID: productID,
		Timestamp: p.now().UTC(),
		Source:    p.source,
		Data:      rv,
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(productID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.EventType)},
			{Key: "source", Value: []byte(ev.Source)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", ev.EventType, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
