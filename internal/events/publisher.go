package events

import (
	"context"
	"time"

	kafkax "github.com/ariefcatur/go-realtime-storefront/internal/kafka"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Producer is satisfied by *kafkax.Producer.
type Producer interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Publisher wraps payloads in an Envelope and hands them to a Kafka producer.
type Publisher struct {
	Producer Producer
	Service  string
	now      func() time.Time
}

func NewPublisher(p Producer, service string) *Publisher {
	return &Publisher{Producer: p, Service: service, now: time.Now}
}

func (p *Publisher) Publish(ctx context.Context, eventType, key string, payload any) {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  Version,
		OccurredAt:    p.now().UTC(),
		Producer:      p.Service,
		TraceID:       TraceID(ctx),
		CorrelationID: key,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Producer.Publish(PartitionKey(key), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

type traceKey struct{}

// WithTraceID attaches the request id that ends up in Envelope.TraceID.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(traceKey{}).(string)
	return s
}
