package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Service wraps a Store with JSON encoding and the forgiving error policy of
// the client: failures are logged, loads fall back to defaults and saves never
// surface to the caller.
type Service struct {
	store Store
	log   *slog.Logger
}

func NewService(store Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, log: log}
}

// Load decodes bucket b into a value of type T, returning def when the bucket
// is empty, unreadable or corrupt.
func Load[T any](ctx context.Context, s *Service, b Bucket, def T) T {
	raw, err := s.store.Load(ctx, b)
	if errors.Is(err, ErrNotFound) {
		return def
	}
	if err != nil {
		s.log.Error("load bucket", "bucket", b, "err", err)
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.log.Error("decode bucket", "bucket", b, "err", err)
		return def
	}
	return v
}

// encode serializes v for bucket b; it reports false (and logs) when v cannot
// be encoded.
func (s *Service) encode(b Bucket, v any) ([]byte, bool) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Error("encode bucket", "bucket", b, "err", err)
		return nil, false
	}
	return raw, true
}

// Save writes v synchronously. The in-memory caller state is the source of
// truth, so errors are only logged.
func (s *Service) Save(ctx context.Context, b Bucket, v any) {
	raw, ok := s.encode(b, v)
	if !ok {
		return
	}
	if err := s.store.Save(ctx, b, raw); err != nil {
		s.log.Error("save bucket", "bucket", b, "err", err)
	}
}

func (s *Service) LoadPreferences(ctx context.Context) Preferences {
	return Load(ctx, s, BucketPreferences, DefaultPreferences()).withDefaults()
}

func (s *Service) SavePreferences(ctx context.Context, p Preferences) {
	s.Save(ctx, BucketPreferences, p.withDefaults())
}

// AppData returns every bucket as raw JSON, substituting defaults for empty
// or unreadable buckets.
func (s *Service) AppData(ctx context.Context) map[Bucket]json.RawMessage {
	out := make(map[Bucket]json.RawMessage, len(Buckets))
	for _, b := range []Bucket{BucketCart, BucketFavorites, BucketSearchHistory} {
		out[b] = Load(ctx, s, b, json.RawMessage("[]"))
	}
	if prefs, ok := s.encode(BucketPreferences, s.LoadPreferences(ctx)); ok {
		out[BucketPreferences] = prefs
	}
	return out
}

// Size reports the serialized size of AppData, e.g. "1.25 KB".
func (s *Service) Size(ctx context.Context) string {
	raw, err := json.Marshal(s.AppData(ctx))
	if err != nil {
		s.log.Error("measure storage", "err", err)
		return "Unknown"
	}
	return fmt.Sprintf("%.2f KB", float64(len(raw))/1024)
}
