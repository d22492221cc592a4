package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Bucket is a named partition of persisted client state.
type Bucket string

const (
	BucketCart          Bucket = "cart"
	BucketFavorites     Bucket = "favorites"
	BucketSearchHistory Bucket = "search-history"
	BucketPreferences   Bucket = "preferences"
)

var Buckets = []Bucket{BucketCart, BucketFavorites, BucketSearchHistory, BucketPreferences}

func (b Bucket) Valid() bool {
	switch b {
	case BucketCart, BucketFavorites, BucketSearchHistory, BucketPreferences:
		return true
	}
	return false
}

var (
	ErrNotFound      = errors.New("bucket is empty")
	ErrUnknownBucket = errors.New("unknown bucket")
)

// Store is the key-value collaborator behind the client state. Values are
// opaque serialized documents, one per bucket.
type Store interface {
	Save(ctx context.Context, b Bucket, value []byte) error
	// Load returns ErrNotFound when nothing was saved for b.
	Load(ctx context.Context, b Bucket) ([]byte, error)
	Clear(ctx context.Context, b Bucket) error
}

func checkBucket(b Bucket) error {
	if !b.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownBucket, b)
	}
	return nil
}

// MemoryStore is a volatile Store used in development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[Bucket][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[Bucket][]byte{}}
}

func (m *MemoryStore) Save(_ context.Context, b Bucket, value []byte) error {
	if err := checkBucket(b); err != nil {
		return err
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	m.mu.Lock()
	m.data[b] = cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Load(_ context.Context, b Bucket) ([]byte, error) {
	if err := checkBucket(b); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[b]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

func (m *MemoryStore) Clear(_ context.Context, b Bucket) error {
	if err := checkBucket(b); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.data, b)
	m.mu.Unlock()
	return nil
}
