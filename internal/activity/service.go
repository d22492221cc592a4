package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ariefcatur/go-realtime-storefront/internal/events"
	kafkax "github.com/ariefcatur/go-realtime-storefront/internal/kafka"
	"github.com/ariefcatur/go-realtime-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// Service turns shopping events into product popularity scores.
type Service struct {
	Redis       redis.Cmdable
	ServiceName string
	Log         *slog.Logger
}

// HandleShoppingEvent is installed as the consumer handler.
func (s *Service) HandleShoppingEvent(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		s.logger().Warn("skip undecodable event", "offset", m.Offset, "err", err)
		return nil // poison message, commit and move on
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	first, err := redisx.MarkOnce(ctx, s.Redis, dkey, redisx.TTLDedup)
	if err != nil {
		return fmt.Errorf("dedup: %w", err)
	}
	if !first {
		return nil
	}

	if err := s.apply(ctx, env); err != nil {
		// allow the redelivery to be processed
		_ = s.Redis.Del(ctx, dkey).Err()
		return err
	}
	return nil
}

func (s *Service) apply(ctx context.Context, env events.Envelope) error {
	switch env.EventType {
	case events.EventCartItemAdded:
		p, err := kafkax.UnwrapPayload[events.CartItemPayload](env.Payload)
		if err != nil {
			return err
		}
		return s.Redis.ZIncrBy(ctx, redisx.KeyPopularityCart, float64(p.Quantity), p.ProductID).Err()
	case events.EventFavoriteAdded, events.EventFavoriteRemoved:
		p, err := kafkax.UnwrapPayload[events.FavoritePayload](env.Payload)
		if err != nil {
			return err
		}
		delta := 1.0
		if env.EventType == events.EventFavoriteRemoved {
			delta = -1
		}
		return s.Redis.ZIncrBy(ctx, redisx.KeyPopularityFavorites, delta, p.ProductID).Err()
	}
	return nil // other events carry no popularity signal
}

func (s *Service) logger() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}

type Score struct {
	ProductID string  `json:"product_id"`
	Score     float64 `json:"score"`
}

const (
	DefaultPopularLimit = 10
	MaxPopularLimit     = 50
)

// Popular returns the top limit products of a popularity set, highest first.
// limit is clamped to 1..MaxPopularLimit; zero or less means the default.
func Popular(ctx context.Context, rdb redis.Cmdable, key string, limit int) ([]Score, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	limit = min(limit, MaxPopularLimit)
	zs, err := rdb.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Score, 0, len(zs))
	for _, z := range zs {
		if z.Score <= 0 {
			continue
		}
		id, _ := z.Member.(string)
		out = append(out, Score{ProductID: id, Score: z.Score})
	}
	return out, nil
}
