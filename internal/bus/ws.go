package bus

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/pinebranch-games/tally/pkg/types"
)

// WSTransport is a Transport over a websocket connection to a relay.
// The relay echoes every frame to every connected window, the sender
// included, so the self-echo contract holds on this transport too.
type WSTransport struct {
	conn *websocket.Conn
	log  *slog.Logger

	writeMu sync.Mutex

	mu     sync.Mutex
	subs   map[int]func(types.ChangeEvent)
	nextID int
	closed bool
}

// DialRelay connects to a relay at the given websocket URL
// (e.g. "ws://127.0.0.1:7474/bus") and starts the read pump.
func DialRelay(url string, log *slog.Logger) (*WSTransport, error) {
	if log == nil {
		log = slog.Default()
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial relay: %w", err)
	}
	t := &WSTransport{
		conn: conn,
		log:  log,
		subs: make(map[int]func(types.ChangeEvent)),
	}
	go t.readPump()
	return t, nil
}

// Publish writes the event to the relay as one JSON frame.
func (t *WSTransport) Publish(ev types.ChangeEvent) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return types.ErrChannelClosed
	}
	t.mu.Unlock()

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if err := t.conn.WriteJSON(ev); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

// Subscribe registers a receiver for relayed events.
func (t *WSTransport) Subscribe(fn func(types.ChangeEvent)) (cancel func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.subs[id] = fn
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subs, id)
	}
}

// Close closes the connection and stops the read pump.
func (t *WSTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.subs = make(map[int]func(types.ChangeEvent))
	t.mu.Unlock()
	return t.conn.Close()
}

// readPump dispatches inbound frames to subscribers until the
// connection drops. Malformed frames are logged and skipped.
func (t *WSTransport) readPump() {
	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			t.mu.Lock()
			closed := t.closed
			t.mu.Unlock()
			if !closed {
				t.log.Warn("relay connection lost", "error", err)
				_ = t.Close()
			}
			return
		}
		var ev types.ChangeEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			t.log.Warn("malformed relay frame", "error", err)
			continue
		}
		t.mu.Lock()
		receivers := make([]func(types.ChangeEvent), 0, len(t.subs))
		for _, fn := range t.subs {
			receivers = append(receivers, fn)
		}
		t.mu.Unlock()
		for _, fn := range receivers {
			fn(ev)
		}
	}
}
