package searchhistory

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ariefcatur/go-realtime-storefront/internal/storage"
)

const (
	MaxEntries = 20
	shortList  = 5
)

type Entry struct {
	Query     string `json:"query"`
	Timestamp int64  `json:"timestamp"` // unix millis
	Frequency int    `json:"frequency,omitempty"`
}

func (e Entry) freq() int {
	if e.Frequency <= 0 {
		return 1
	}
	return e.Frequency
}

// Persister receives the serialized history after each change.
type Persister interface {
	Save(b storage.Bucket, value []byte)
	Clear(b storage.Bucket)
}

// History keeps the most recent distinct searches, newest first.
type History struct {
	persist Persister
	log     *slog.Logger
	now     func() time.Time

	mu      sync.RWMutex
	entries []Entry
}

func New(p Persister, log *slog.Logger) *History {
	if log == nil {
		log = slog.Default()
	}
	return &History{persist: p, log: log, now: time.Now}
}

func Normalize(q string) string { return strings.ToLower(strings.TrimSpace(q)) }

// Load replaces the entries with the persisted ones.
func (h *History) Load(ctx context.Context, svc *storage.Service) {
	loaded := storage.Load(ctx, svc, storage.BucketSearchHistory, []Entry{})
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = h.entries[:0]
	for _, e := range loaded {
		e.Query = Normalize(e.Query)
		if e.Query == "" || h.indexLocked(e.Query) >= 0 {
			continue
		}
		h.entries = append(h.entries, e)
		if len(h.entries) == MaxEntries {
			break
		}
	}
}

// Add records a search. Blank queries are ignored; repeats move to the front
// with their frequency incremented.
func (h *History) Add(query string) {
	q := Normalize(query)
	if q == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	e := Entry{Query: q, Timestamp: h.now().UnixMilli(), Frequency: 1}
	if i := h.indexLocked(q); i >= 0 {
		e.Frequency = h.entries[i].freq() + 1
		h.entries = slices.Delete(h.entries, i, i+1)
	}
	h.entries = slices.Insert(h.entries, 0, e)
	if len(h.entries) > MaxEntries {
		h.entries = h.entries[:MaxEntries]
	}
	h.saveLocked()
}

func (h *History) Remove(query string) {
	q := Normalize(query)
	h.mu.Lock()
	defer h.mu.Unlock()
	i := h.indexLocked(q)
	if i < 0 {
		return
	}
	h.entries = slices.Delete(h.entries, i, i+1)
	h.saveLocked()
}

func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	if h.persist != nil {
		h.persist.Clear(storage.BucketSearchHistory)
	}
}

func (h *History) Entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Entry{}, h.entries...)
}

// Recent returns the five newest searches.
func (h *History) Recent() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.recentLocked()
}

func (h *History) recentLocked() []Entry {
	n := min(shortList, len(h.entries))
	return append([]Entry{}, h.entries[:n]...)
}

// Popular returns the five most frequent searches; ties keep recency order.
func (h *History) Popular() []Entry {
	h.mu.RLock()
	all := append([]Entry{}, h.entries...)
	h.mu.RUnlock()
	slices.SortStableFunc(all, func(a, b Entry) int { return b.freq() - a.freq() })
	return all[:min(shortList, len(all))]
}

// Suggestions returns the searches containing input; blank input yields
// Recent.
func (h *History) Suggestions(input string) []Entry {
	q := Normalize(input)
	h.mu.RLock()
	defer h.mu.RUnlock()
	if q == "" {
		return h.recentLocked()
	}
	out := []Entry{}
	for _, e := range h.entries {
		if strings.Contains(e.Query, q) {
			out = append(out, e)
		}
	}
	return out
}

func (h *History) indexLocked(q string) int {
	return slices.IndexFunc(h.entries, func(e Entry) bool { return e.Query == q })
}

func (h *History) saveLocked() {
	if h.persist == nil {
		return
	}
	entries := h.entries
	if entries == nil {
		entries = []Entry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		h.log.Error("encode search history", "err", err)
		return
	}
	h.persist.Save(storage.BucketSearchHistory, raw)
}
