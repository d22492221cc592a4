package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafkax "github.com/ariefcatur/go-realtime-storefront/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	key, value []byte
	headers    []kafkago.Header
}

type fakeProducer struct{ msgs []captured }

func (f *fakeProducer) Publish(key, value []byte, headers ...kafkago.Header) {
	f.msgs = append(f.msgs, captured{key, value, headers})
}

func TestPublisherWrapsEnvelope(t *testing.T) {
	fp := &fakeProducer{}
	p := NewPublisher(fp, "storefront")
	p.now = func() time.Time { return time.Date(2026, 2, 3, 4, 5, 6, 0, time.FixedZone("CET", 3600)) }

	ctx := WithTraceID(context.Background(), "req-1")
	p.Publish(ctx, EventCartItemAdded, "p-001", CartItemPayload{ProductID: "p-001", Quantity: 2, Price: "9.5"})

	require.Len(t, fp.msgs, 1)
	msg := fp.msgs[0]
	assert.Equal(t, "p-001", string(msg.key))
	assert.Equal(t, "x-event-type", msg.headers[0].Key)
	assert.Equal(t, EventCartItemAdded, string(msg.headers[0].Value))

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.value, &env))
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, EventCartItemAdded, env.EventType)
	assert.Equal(t, Version, env.EventVersion)
	assert.Equal(t, "storefront", env.Producer)
	assert.Equal(t, "req-1", env.TraceID)
	assert.Equal(t, "p-001", env.CorrelationID)
	assert.Equal(t, time.UTC, env.OccurredAt.Location())

	payload, err := kafkax.UnwrapPayload[CartItemPayload](env.Payload)
	require.NoError(t, err)
	assert.Equal(t, 2, payload.Quantity)
	assert.Equal(t, "9.5", payload.Price)
}

func TestTraceIDMissing(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
}
