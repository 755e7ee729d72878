// Tests for the websocket relay and transport against a live test
// server.
package bus

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinebranch-games/tally/pkg/types"
)

// setupRelay serves a relay hub and returns its websocket URL.
func setupRelay(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(NewRelay(nil).Handler())
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialTransport(t *testing.T, url string) *WSTransport {
	t.Helper()
	tr, err := DialRelay(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { tr.Close() })
	return tr
}

func TestRelayEchoesToEveryWindow(t *testing.T) {
	url := setupRelay(t)
	sender := dialTransport(t, url)
	peer := dialTransport(t, url)

	var atSender, atPeer collector
	cancelSender := sender.Subscribe(atSender.handle)
	defer cancelSender()
	cancelPeer := peer.Subscribe(atPeer.handle)
	defer cancelPeer()

	require.NoError(t, sender.Publish(types.ChangeEvent{
		Topic:        types.TopicScoreUpdated,
		GameID:       "game-1",
		SourceOrigin: "window-a",
	}))

	// The relay echoes to all connections, the sender included; the
	// transport does not filter.
	waitFor(t, func() bool {
		return len(atSender.snapshot()) == 1 && len(atPeer.snapshot()) == 1
	})
	assert.Equal(t, "window-a", atPeer.snapshot()[0].SourceOrigin)
	assert.Equal(t, "game-1", atPeer.snapshot()[0].GameID)
}

func TestBusOverRelaySuppressesSelfEcho(t *testing.T) {
	url := setupRelay(t)
	publisher := New(dialTransport(t, url), 10*time.Millisecond, nil)
	listener := New(dialTransport(t, url), 10*time.Millisecond, nil)

	var own, other collector
	cancelOwn := publisher.Subscribe(own.handle)
	defer cancelOwn()
	cancelOther := listener.Subscribe(other.handle)
	defer cancelOther()

	publisher.Publish("game-1", map[string]any{"players": float64(3)})

	waitFor(t, func() bool { return len(other.snapshot()) == 1 })
	assert.Empty(t, own.snapshot(), "echoed frame carries our origin and is dropped")
	assert.Equal(t, publisher.Origin(), other.snapshot()[0].SourceOrigin)
}

func TestRelaySurvivesDisconnect(t *testing.T) {
	url := setupRelay(t)
	leaver := dialTransport(t, url)
	stayer := dialTransport(t, url)

	var got collector
	cancel := stayer.Subscribe(got.handle)
	defer cancel()

	require.NoError(t, leaver.Close())

	// The remaining window still hears its own frames via the echo.
	require.NoError(t, stayer.Publish(types.ChangeEvent{
		Topic:        types.TopicScoreUpdated,
		GameID:       "game-1",
		SourceOrigin: "window-b",
	}))
	waitFor(t, func() bool { return len(got.snapshot()) == 1 })
}

func TestTransportPublishAfterClose(t *testing.T) {
	url := setupRelay(t)
	tr := dialTransport(t, url)

	require.NoError(t, tr.Close())
	err := tr.Publish(types.ChangeEvent{Topic: types.TopicScoreUpdated})
	assert.ErrorIs(t, err, types.ErrChannelClosed)
}

func TestTransportCloseIdempotent(t *testing.T) {
	url := setupRelay(t)
	tr := dialTransport(t, url)

	require.NoError(t, tr.Close())
	assert.NoError(t, tr.Close())
}
