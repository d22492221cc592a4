package activity

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-realtime-storefront/internal/events"
	kafkax "github.com/ariefcatur/go-realtime-storefront/internal/kafka"
	"github.com/ariefcatur/go-realtime-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupActivityTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func message(t *testing.T, id, typ string, payload any) kafkago.Message {
	t.Helper()
	env := events.Envelope{EventID: id, EventType: typ, EventVersion: 1, Payload: kafkax.MustMarshal(payload)}
	b, err := json.Marshal(env)
	require.NoError(t, err)
	return kafkago.Message{Value: b}
}

func TestHandleShoppingEvent(t *testing.T) {
	ctx := context.Background()
	_, rdb := setupActivityTestRedis(t)
	svc := &Service{Redis: rdb, ServiceName: "activity", Log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	msgs := []kafkago.Message{
		message(t, "e1", events.EventCartItemAdded, events.CartItemPayload{ProductID: "p-1", Quantity: 2}),
		message(t, "e2", events.EventCartItemAdded, events.CartItemPayload{ProductID: "p-2", Quantity: 1}),
		message(t, "e3", events.EventFavoriteAdded, events.FavoritePayload{ProductID: "p-2"}),
		message(t, "e4", events.EventFavoriteAdded, events.FavoritePayload{ProductID: "p-1"}),
		message(t, "e5", events.EventFavoriteRemoved, events.FavoritePayload{ProductID: "p-1"}),
		message(t, "e6", events.EventCartCleared, events.CartClearedPayload{Lines: 2}),
	}
	for _, m := range msgs {
		require.NoError(t, svc.HandleShoppingEvent(ctx, m))
	}
	// redelivery of e1 is ignored
	require.NoError(t, svc.HandleShoppingEvent(ctx, msgs[0]))

	cart, err := Popular(ctx, rdb, redisx.KeyPopularityCart, 10)
	require.NoError(t, err)
	assert.Equal(t, []Score{{"p-1", 2}, {"p-2", 1}}, cart)

	favs, err := Popular(ctx, rdb, redisx.KeyPopularityFavorites, 10)
	require.NoError(t, err)
	assert.Equal(t, []Score{{"p-2", 1}}, favs)
}

func TestHandleShoppingEvent_PoisonMessageIsSkipped(t *testing.T) {
	_, rdb := setupActivityTestRedis(t)
	svc := &Service{Redis: rdb, ServiceName: "activity"}
	assert.NoError(t, svc.HandleShoppingEvent(context.Background(), kafkago.Message{Value: []byte("nope")}))
}

func TestHandleShoppingEvent_FailureReleasesDedup(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setupActivityTestRedis(t)
	svc := &Service{Redis: rdb, ServiceName: "activity", Log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	// payload of the wrong shape fails decoding
	bad := events.Envelope{EventID: "e9", EventType: events.EventCartItemAdded, Payload: json.RawMessage(`"x"`)}
	b, _ := json.Marshal(bad)
	require.Error(t, svc.HandleShoppingEvent(ctx, kafkago.Message{Value: b}))
	assert.False(t, mr.Exists("dedup:activity:e9"))
}

func TestPopular_ClampsLimit(t *testing.T) {
	ctx := context.Background()
	_, rdb := setupActivityTestRedis(t)
	for i := 1; i <= MaxPopularLimit+10; i++ {
		require.NoError(t, rdb.ZAdd(ctx, redisx.KeyPopularityCart, redis.Z{Score: float64(i), Member: "p-" + strconv.Itoa(i)}).Err())
	}

	top, err := Popular(ctx, rdb, redisx.KeyPopularityCart, 1_000_000_000)
	require.NoError(t, err)
	assert.Len(t, top, MaxPopularLimit)
	assert.Equal(t, "p-60", top[0].ProductID)

	top, err = Popular(ctx, rdb, redisx.KeyPopularityCart, 0)
	require.NoError(t, err)
	assert.Len(t, top, DefaultPopularLimit)
}
