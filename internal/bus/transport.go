package bus

import (
	"sync"

	"github.com/pinebranch-games/tally/pkg/types"
)

// Transport is the process-wide broadcast primitive the Bus rides on.
// Implementations deliver every published event to every subscriber,
// including subscribers in the publishing process; self-echo suppression
// is the Bus's job, not the transport's.
type Transport interface {
	// Publish broadcasts one event. An error means the broadcast
	// channel is unavailable; delivery is otherwise best-effort.
	Publish(ev types.ChangeEvent) error

	// Subscribe registers a receiver and returns a cancel function.
	Subscribe(fn func(types.ChangeEvent)) (cancel func())

	// Close tears the transport down. Idempotent.
	Close() error
}

// Loopback is an in-process Transport: events fan out asynchronously to
// every registered subscriber. Multiple Buses sharing one Loopback model
// multiple windows sharing one broadcast channel.
type Loopback struct {
	mu     sync.Mutex
	subs   map[int]func(types.ChangeEvent)
	nextID int
	closed bool
}

// NewLoopback creates an empty in-process transport.
func NewLoopback() *Loopback {
	return &Loopback{subs: make(map[int]func(types.ChangeEvent))}
}

// Publish delivers the event to every subscriber on its own goroutine.
// Returns ErrChannelClosed after Close.
func (l *Loopback) Publish(ev types.ChangeEvent) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return types.ErrChannelClosed
	}
	receivers := make([]func(types.ChangeEvent), 0, len(l.subs))
	for _, fn := range l.subs {
		receivers = append(receivers, fn)
	}
	l.mu.Unlock()

	for _, fn := range receivers {
		go fn(ev)
	}
	return nil
}

// Subscribe registers a receiver. The cancel function is idempotent.
func (l *Loopback) Subscribe(fn func(types.ChangeEvent)) (cancel func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	l.subs[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.subs, id)
	}
}

// Close drops all subscribers and rejects further publishes.
func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.subs = make(map[int]func(types.ChangeEvent))
	return nil
}
