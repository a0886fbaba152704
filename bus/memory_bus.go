package bus

import (
	"errors"
	"log/slog"
	"sync"
)

// ErrClosed is returned by Broadcast after Close.
var ErrClosed = errors.New("bus is closed")

// DefaultBuffer is the per-subscriber channel size used by NewMemoryBus.
const DefaultBuffer = 256

// MemoryBus is the in-memory implementation of Bus.
// Every subscriber gets its own buffered channel and receives every event.
type MemoryBus struct {
	subscribers []chan *Event
	buffer      int

	// guards subscribers and isClosed
	mu sync.RWMutex

	isClosed bool
}

// NewMemoryBus creates a MemoryBus; buffer <= 0 means DefaultBuffer.
func NewMemoryBus(buffer int) *MemoryBus {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &MemoryBus{
		subscribers: make([]chan *Event, 0),
		buffer:      buffer,
	}
}

// Broadcast never blocks. A subscriber whose buffer is full misses the event.
func (b *MemoryBus) Broadcast(e *Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.isClosed {
		return ErrClosed
	}

	for _, ch := range b.subscribers {
		select {
		case ch <- e:
		default:
			slog.Warn("bus subscriber is full, dropping event", "kind", e.Kind)
		}
	}

	return nil
}

// Subscribe returns a channel receiving every later event. The channel is
// closed by Close; subscribing to a closed bus yields a closed channel.
func (b *MemoryBus) Subscribe() <-chan *Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan *Event, b.buffer)

	if b.isClosed {
		close(ch)
		return ch
	}

	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Close closes every subscriber channel. It is safe to call more than once.
func (b *MemoryBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.isClosed {
		b.isClosed = true
		for _, ch := range b.subscribers {
			close(ch)
		}
		b.subscribers = nil
	}
}

var _ Bus = (*MemoryBus)(nil)
