// Unit tests for self-echo suppression and burst coalescing over the
// in-process transport.
package bus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinebranch-games/tally/pkg/types"
)

// collector records delivered events behind a lock.
type collector struct {
	mu     sync.Mutex
	events []types.ChangeEvent
}

func (c *collector) handle(ev types.ChangeEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *collector) snapshot() []types.ChangeEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]types.ChangeEvent, len(c.events))
	copy(out, c.events)
	return out
}

// waitFor polls until cond returns true or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.Fail(t, "condition not reached before deadline")
}

func TestSelfEchoSuppressed(t *testing.T) {
	wire := NewLoopback()
	publisher := New(wire, 10*time.Millisecond, nil)
	listener := New(wire, 10*time.Millisecond, nil)

	var own, other collector
	cancelOwn := publisher.Subscribe(own.handle)
	defer cancelOwn()
	cancelOther := listener.Subscribe(other.handle)
	defer cancelOther()

	publisher.Publish("game-1", nil)

	waitFor(t, func() bool { return len(other.snapshot()) == 1 })
	assert.Empty(t, own.snapshot(), "publisher must not hear its own event")
	assert.Equal(t, publisher.Origin(), other.snapshot()[0].SourceOrigin)
}

func TestBurstCoalescesToOneRefresh(t *testing.T) {
	wire := NewLoopback()
	publisher := New(wire, 50*time.Millisecond, nil)
	listener := New(wire, 50*time.Millisecond, nil)

	var got collector
	cancel := listener.Subscribe(got.handle)
	defer cancel()

	for i := 0; i < 10; i++ {
		publisher.Publish("game-1", map[string]any{"seq": i})
	}

	waitFor(t, func() bool { return len(got.snapshot()) >= 1 })
	// Give a late duplicate delivery time to show up if one were coming.
	time.Sleep(100 * time.Millisecond)

	events := got.snapshot()
	require.Len(t, events, 1, "a burst collapses into a single refresh")
	assert.Equal(t, "game-1", events[0].GameID)
}

func TestSeparatedEventsEachDelivered(t *testing.T) {
	wire := NewLoopback()
	publisher := New(wire, 10*time.Millisecond, nil)
	listener := New(wire, 10*time.Millisecond, nil)

	var got collector
	cancel := listener.Subscribe(got.handle)
	defer cancel()

	publisher.Publish("game-1", nil)
	waitFor(t, func() bool { return len(got.snapshot()) == 1 })

	publisher.Publish("game-2", nil)
	waitFor(t, func() bool { return len(got.snapshot()) == 2 })

	events := got.snapshot()
	assert.Equal(t, "game-1", events[0].GameID)
	assert.Equal(t, "game-2", events[1].GameID)
}

func TestCancelStopsDelivery(t *testing.T) {
	wire := NewLoopback()
	publisher := New(wire, 10*time.Millisecond, nil)
	listener := New(wire, 10*time.Millisecond, nil)

	var got collector
	cancel := listener.Subscribe(got.handle)
	cancel()

	publisher.Publish("game-1", nil)
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, got.snapshot())
}

func TestCancelDropsPendingTimer(t *testing.T) {
	wire := NewLoopback()
	publisher := New(wire, 100*time.Millisecond, nil)
	listener := New(wire, 100*time.Millisecond, nil)

	var got collector
	cancel := listener.Subscribe(got.handle)

	publisher.Publish("game-1", nil)
	// Cancel while the coalescing timer is still armed.
	time.Sleep(20 * time.Millisecond)
	cancel()

	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, got.snapshot(), "pending refresh must not fire after cancel")
}

func TestPublishAfterTransportCloseIsBestEffort(t *testing.T) {
	wire := NewLoopback()
	b := New(wire, 10*time.Millisecond, nil)

	require.NoError(t, wire.Close())

	// Must not panic or surface the transport error.
	b.Publish("game-1", nil)
}

func TestDistinctOrigins(t *testing.T) {
	wire := NewLoopback()
	a := New(wire, time.Millisecond, nil)
	b := New(wire, time.Millisecond, nil)

	assert.NotEmpty(t, a.Origin())
	assert.NotEqual(t, a.Origin(), b.Origin())
}

func TestTwoWindowsHearEachOther(t *testing.T) {
	wire := NewLoopback()
	left := New(wire, 10*time.Millisecond, nil)
	right := New(wire, 10*time.Millisecond, nil)

	var atLeft, atRight collector
	cancelLeft := left.Subscribe(atLeft.handle)
	defer cancelLeft()
	cancelRight := right.Subscribe(atRight.handle)
	defer cancelRight()

	left.Publish("game-1", nil)
	right.Publish("game-2", nil)

	waitFor(t, func() bool { return len(atLeft.snapshot()) >= 1 && len(atRight.snapshot()) >= 1 })

	for _, ev := range atLeft.snapshot() {
		assert.Equal(t, right.Origin(), ev.SourceOrigin)
	}
	for _, ev := range atRight.snapshot() {
		assert.Equal(t, left.Origin(), ev.SourceOrigin)
	}
}
