package searchhistory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ariefcatur/go-realtime-storefront/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queries(es []Entry) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.Query)
	}
	return out
}

func newTestHistory(p Persister) *History {
	h := New(p, slog.New(slog.NewTextHandler(io.Discard, nil)))
	tick := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	h.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return h
}

func TestAdd_NormalizesAndDedupes(t *testing.T) {
	h := newTestHistory(nil)
	h.Add("  Shoes ")
	h.Add("bag")
	h.Add("SHOES")
	h.Add("   ")

	es := h.Entries()
	require.Len(t, es, 2)
	assert.Equal(t, "shoes", es[0].Query)
	assert.Equal(t, 2, es[0].Frequency)
	assert.Equal(t, "bag", es[1].Query)
	assert.Equal(t, 1, es[1].Frequency)
	assert.Greater(t, es[0].Timestamp, es[1].Timestamp)
}

func TestAdd_CapsAtTwenty(t *testing.T) {
	h := newTestHistory(nil)
	for i := 0; i < 25; i++ {
		h.Add(fmt.Sprintf("q%d", i))
	}
	es := h.Entries()
	require.Len(t, es, MaxEntries)
	assert.Equal(t, "q24", es[0].Query)
	assert.Equal(t, "q5", es[MaxEntries-1].Query)
}

func TestRecentPopularSuggestions(t *testing.T) {
	h := newTestHistory(nil)
	for _, q := range []string{"yoga mat", "sneakers", "yoga", "bag", "hat", "sunglasses", "yoga"} {
		h.Add(q)
	}

	assert.Equal(t, []string{"yoga", "sunglasses", "hat", "bag", "sneakers"}, queries(h.Recent()))
	pop := h.Popular()
	require.Len(t, pop, 5)
	assert.Equal(t, "yoga", pop[0].Query)
	assert.Equal(t, 2, pop[0].Frequency)

	assert.Equal(t, []string{"yoga", "yoga mat"}, queries(h.Suggestions("YOGA")))
	assert.Equal(t, queries(h.Recent()), queries(h.Suggestions(" ")))
	assert.Empty(t, h.Suggestions("tent"))
}

func TestRemoveAndClear(t *testing.T) {
	h := newTestHistory(nil)
	h.Add("a")
	h.Add("b")
	h.Remove("A ")
	h.Remove("missing")
	assert.Equal(t, []string{"b"}, queries(h.Entries()))

	h.Clear()
	assert.Empty(t, h.Entries())
	assert.NotNil(t, h.Entries())
}

func TestPersistsThroughSyncer(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mem := storage.NewMemoryStore()
	syncer := storage.NewSyncer(mem, log)
	syncer.Start(ctx)

	h := newTestHistory(syncer)
	h.Add("Boots")
	h.Add("boots")
	h.Add("scarf")
	syncer.Close()
	syncer.WaitClosed()

	restored := newTestHistory(nil)
	restored.Load(ctx, storage.NewService(mem, log))
	es := restored.Entries()
	require.Len(t, es, 2)
	assert.Equal(t, "scarf", es[0].Query)
	assert.Equal(t, 2, es[1].Frequency)
}

func TestClearWipesBucket(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mem := storage.NewMemoryStore()
	syncer := storage.NewSyncer(mem, log)
	syncer.Start(ctx)

	h := newTestHistory(syncer)
	h.Add("x")
	h.Clear()
	syncer.Close()
	syncer.WaitClosed()

	_, err := mem.Load(ctx, storage.BucketSearchHistory)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
