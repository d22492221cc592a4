package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type op struct {
	bucket Bucket
	value  []byte
	clear  bool
}

// Syncer writes snapshots to a Store from one background goroutine. Each
// bucket holds at most one pending write, the latest one, so enqueueing
// never blocks however slow the store is. Failures are logged and dropped.
type Syncer struct {
	store   Store
	log     *slog.Logger
	timeout time.Duration

	mu      sync.Mutex
	pending map[Bucket]op
	order   []Bucket // buckets with a pending write, oldest first
	closed  bool

	wake      chan struct{}
	stop      chan struct{}
	closeCh   chan struct{}
	closeOnce sync.Once
}

func NewSyncer(store Store, log *slog.Logger) *Syncer {
	if log == nil {
		log = slog.Default()
	}
	return &Syncer{
		store:   store,
		log:     log,
		timeout: 3 * time.Second,
		pending: map[Bucket]op{},
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		closeCh: make(chan struct{}),
	}
}

func (s *Syncer) Start(ctx context.Context) {
	go func() {
		defer close(s.closeCh)
		for {
			s.drain()
			select {
			case <-s.wake:
			case <-s.stop:
				s.drain()
				return
			case <-ctx.Done():
				s.Close()
				s.drain()
				return
			}
		}
	}()
}

func (s *Syncer) drain() {
	for {
		o, ok := s.next()
		if !ok {
			return
		}
		s.apply(o)
	}
}

func (s *Syncer) next() (op, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) == 0 {
		return op{}, false
	}
	b := s.order[0]
	s.order = s.order[1:]
	o := s.pending[b]
	delete(s.pending, b)
	return o, true
}

func (s *Syncer) apply(o op) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	var err error
	if o.clear {
		err = s.store.Clear(ctx, o.bucket)
	} else {
		err = s.store.Save(ctx, o.bucket, o.value)
	}
	if err != nil {
		s.log.Error("persist bucket", "bucket", o.bucket, "clear", o.clear, "err", err)
	}
}

func (s *Syncer) enqueue(o op) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.log.Warn("syncer closed, write dropped", "bucket", o.bucket, "clear", o.clear)
		return
	}
	if _, ok := s.pending[o.bucket]; !ok {
		s.order = append(s.order, o.bucket)
	}
	s.pending[o.bucket] = o
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Save queues value for bucket b, replacing any write of b not yet applied.
func (s *Syncer) Save(b Bucket, value []byte) { s.enqueue(op{bucket: b, value: value}) }

// Clear queues removal of bucket b.
func (s *Syncer) Clear(b Bucket) { s.enqueue(op{bucket: b, clear: true}) }

// ClearAll queues removal of cart, favorites and search history.
// Preferences survive.
func (s *Syncer) ClearAll() {
	for _, b := range []Bucket{BucketCart, BucketFavorites, BucketSearchHistory} {
		s.Clear(b)
	}
}

// Close stops accepting work; pending writes are flushed before the
// goroutine exits. Later Save and Clear calls are dropped.
func (s *Syncer) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.stop)
	})
}

// WaitClosed blocks until the writer goroutine has finished.
func (s *Syncer) WaitClosed() { <-s.closeCh }
