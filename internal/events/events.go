package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/segmentio/kafka-go"

	"github.com/outreachboard/client-reporting-backend/internal/daterange"
	"github.com/outreachboard/client-reporting-backend/internal/logger"
)

const (
	TypeRangeResolved  = "date_range.resolved"
	TypeReportExported = "report.exported"
)

// Event is one analytics record. Key routes all of a viewer's events to
// the same partition.
type Event struct {
	Type       string               `json:"type"`
	OccurredAt time.Time            `json:"occurred_at"`
	Viewer     string               `json:"viewer"`
	CompanyID  string               `json:"company_id,omitempty"`
	Source     string               `json:"source,omitempty"` // preset key or "custom"
	Range      *daterange.DateRange `json:"range,omitempty"`
	Format     string               `json:"format,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NewPublisher returns a Kafka publisher when brokers are configured and a
// no-op one otherwise.
func NewPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		logger.Info("kafka brokers not configured, analytics events disabled")
		return NoopPublisher{}
	}
	logger.Info("publishing analytics events", "brokers", brokers, "topic", topic)
	return newKafkaPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warn("analytics events not delivered", "count", len(messages), "err", err)
			}
		},
	})
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	w messageWriter
}

func newKafkaPublisher(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{w: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	value, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	msg := kafka.Message{
		Key:   []byte(e.Viewer),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return errors.Wrapf(err, "publish %s", e.Type)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                        { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// PublishQuietly sends e. Failures are logged, never returned.
func PublishQuietly(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		logger.Warn("analytics event dropped", "type", e.Type, "err", err)
	}
}
