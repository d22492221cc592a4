package kafka

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestProducer_PublishDoesNotBlockWhenInboxFull(t *testing.T) {
	var out syncBuffer
	// never started, so nothing drains the inbox
	p := NewProducer([]string{"127.0.0.1:1"}, "storefront.test", 1, slog.New(slog.NewTextHandler(&out, nil)))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			p.Publish([]byte("p-1"), []byte("{}"))
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full inbox")
	}
	assert.Len(t, p.inbox, 1)
	assert.Contains(t, out.String(), "producer inbox full")
}

func TestProducer_PublishAfterCloseIsDropped(t *testing.T) {
	var out syncBuffer
	p := NewProducer([]string{"127.0.0.1:1"}, "storefront.test", 4, slog.New(slog.NewTextHandler(&out, nil)))
	p.Close()
	p.Close()

	assert.NotPanics(t, func() { p.Publish([]byte("p-1"), []byte("{}")) })
	assert.Contains(t, out.String(), "producer closed")
}
