// Package bus propagates projection-change events between windows. Each
// window owns one Bus with a random origin identity; the wire delivers
// every event to every window, including the one that published it, and
// the Bus suppresses that self-echo before coalescing the rest.
package bus

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pinebranch-games/tally/pkg/types"
)

// Bus publishes and receives change events for one window process.
// Notification is best-effort: local correctness never depends on an
// event being delivered.
type Bus struct {
	origin    string
	transport Transport
	delay     time.Duration
	log       *slog.Logger
}

// New creates a Bus over the given transport with the given coalescing
// delay. The origin identity is generated once here and never persisted.
// A nil logger falls back to slog.Default.
func New(t Transport, delay time.Duration, log *slog.Logger) *Bus {
	if log == nil {
		log = slog.Default()
	}
	return &Bus{
		origin:    types.NewOrigin(),
		transport: t,
		delay:     delay,
		log:       log,
	}
}

// Origin returns this window's identity.
func (b *Bus) Origin() string {
	return b.origin
}

// Publish announces that a game's projection changed. Transport failures
// are logged and swallowed; the write that triggered the event has
// already succeeded locally.
func (b *Bus) Publish(gameID string, payload any) {
	ev := types.ChangeEvent{
		Topic:        types.TopicScoreUpdated,
		GameID:       gameID,
		SourceOrigin: b.origin,
		Payload:      payload,
		EmittedAt:    time.Now().UTC(),
	}
	if err := b.transport.Publish(ev); err != nil {
		b.log.Warn("change event not published", "gameId", gameID, "error", err)
	}
}

// Subscribe registers a handler for non-self events. Self-echo is
// discarded immediately: the originating window already refreshed
// synchronously on its write path. Remaining events pass through a
// per-subscriber coalescing state machine (Idle -> PendingRefresh ->
// Idle): the first event of a burst arms a timer, later events only
// replace the recorded event, and on expiry the handler runs once with
// the last event. The returned cancel stops delivery and any pending
// timer.
func (b *Bus) Subscribe(handler func(types.ChangeEvent)) (cancel func()) {
	sub := &subscription{bus: b, handler: handler}
	transportCancel := b.transport.Subscribe(sub.receive)
	return func() {
		transportCancel()
		sub.close()
	}
}

// Subscriber coalescing states.
type subState int

const (
	stateIdle subState = iota
	statePendingRefresh
)

type subscription struct {
	bus     *Bus
	handler func(types.ChangeEvent)

	mu      sync.Mutex
	state   subState
	pending types.ChangeEvent
	timer   *time.Timer
	closed  bool
}

func (s *subscription) receive(ev types.ChangeEvent) {
	if ev.SourceOrigin == s.bus.origin {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = ev
	if s.state == stateIdle {
		s.state = statePendingRefresh
		s.timer = time.AfterFunc(s.bus.delay, s.fire)
	}
}

func (s *subscription) fire() {
	s.mu.Lock()
	ev := s.pending
	s.state = stateIdle
	closed := s.closed
	s.mu.Unlock()

	if !closed {
		s.handler(ev)
	}
}

func (s *subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.state = stateIdle
}
