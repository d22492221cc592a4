package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
)

func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case Success, Error, Warning:
		return Severity(s)
	}
	return Info
}

type Toast struct {
	ID       string        `json:"id"`
	Message  string        `json:"message"`
	Severity Severity      `json:"severity"`
	TTL      time.Duration `json:"-"`
	TTLMilli int64         `json:"duration_ms"`
	PostedAt time.Time     `json:"posted_at"`
}

// Bus is a publish/subscribe channel of transient notifications. Every change
// delivers the full current list to each subscriber; a subscriber that falls
// behind only ever holds the latest list.
type Bus struct {
	now func() time.Time

	mu     sync.Mutex
	toasts []Toast
	timers map[string]*time.Timer
	subs   map[int]chan []Toast
	nextID int
	closed bool
}

func NewBus() *Bus {
	return &Bus{
		now:    time.Now,
		timers: map[string]*time.Timer{},
		subs:   map[int]chan []Toast{},
	}
}

// Post adds a toast and returns its id. ttl > 0 schedules its removal.
func (b *Bus) Post(message string, sev Severity, ttl time.Duration) string {
	t := Toast{
		ID:       uuid.NewString(),
		Message:  message,
		Severity: ParseSeverity(string(sev)),
		TTL:      ttl,
		TTLMilli: ttl.Milliseconds(),
		PostedAt: b.now(),
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return t.ID
	}
	b.toasts = append(b.toasts, t)
	if ttl > 0 {
		b.timers[t.ID] = time.AfterFunc(ttl, func() { b.Dismiss(t.ID) })
	}
	b.broadcastLocked()
	return t.ID
}

// Dismiss removes a toast early. Unknown ids are ignored.
func (b *Bus) Dismiss(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, t := range b.toasts {
		if t.ID != id {
			continue
		}
		b.toasts = append(b.toasts[:i:i], b.toasts[i+1:]...)
		if tm, ok := b.timers[id]; ok {
			tm.Stop()
			delete(b.timers, id)
		}
		b.broadcastLocked()
		return
	}
}

func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopTimersLocked()
	if len(b.toasts) == 0 {
		return
	}
	b.toasts = nil
	b.broadcastLocked()
}

func (b *Bus) Snapshot() []Toast {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// Subscribe returns a channel that first carries the current list and then
// one list per change. cancel releases the subscription and closes the
// channel.
func (b *Bus) Subscribe() (<-chan []Toast, func()) {
	ch := make(chan []Toast, 1)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	ch <- b.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Close stops pending timers and ends every subscription.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.stopTimersLocked()
	for id, c := range b.subs {
		delete(b.subs, id)
		close(c)
	}
}

func (b *Bus) stopTimersLocked() {
	for id, tm := range b.timers {
		tm.Stop()
		delete(b.timers, id)
	}
}

func (b *Bus) snapshotLocked() []Toast {
	return append([]Toast{}, b.toasts...)
}

// broadcastLocked replaces any undelivered list with the current one, so
// sends never block.
func (b *Bus) broadcastLocked() {
	for _, c := range b.subs {
		snap := b.snapshotLocked()
		select {
		case <-c:
		default:
		}
		c <- snap
	}
}
