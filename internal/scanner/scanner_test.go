// Unit tests for scanner input normalization: debounce timing and token
// validation.
package scanner

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenSink collects emitted tokens behind a lock.
type tokenSink struct {
	mu     sync.Mutex
	tokens []string
}

func (ts *tokenSink) emit(token string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.tokens = append(ts.tokens, token)
}

func (ts *tokenSink) snapshot() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := make([]string, len(ts.tokens))
	copy(out, ts.tokens)
	return out
}

// feed types a string as a rapid keystroke burst.
func feed(n *Normalizer, s string) {
	for _, r := range s {
		n.KeyPress(r)
	}
}

// settleWait sleeps long enough for a short test debounce to expire.
func settleWait() { time.Sleep(50 * time.Millisecond) }

func newTestNormalizer(sink *tokenSink, opts ...Option) *Normalizer {
	opts = append([]Option{WithDebounce(10 * time.Millisecond)}, opts...)
	return New(sink.emit, opts...)
}

func TestValidScanEmitsOnce(t *testing.T) {
	var sink tokenSink
	n := newTestNormalizer(&sink)

	feed(n, "0badF00d")
	settleWait()

	assert.Equal(t, []string{"0badF00d"}, sink.snapshot())
}

func TestInvalidTokensDroppedSilently(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"too short", "abc1234"},
		{"too long", "abc123456"},
		{"non-hex character", "abc1234g"},
		{"embedded space", "abc 1234"},
		{"empty burst", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sink tokenSink
			n := newTestNormalizer(&sink)

			feed(n, tt.input)
			settleWait()

			assert.Empty(t, sink.snapshot())
		})
	}
}

func TestPauseSplitsBursts(t *testing.T) {
	var sink tokenSink
	n := newTestNormalizer(&sink)

	feed(n, "deadbeef")
	settleWait()
	feed(n, "cafe0042")
	settleWait()

	assert.Equal(t, []string{"deadbeef", "cafe0042"}, sink.snapshot())
}

func TestKeypressRestartsDebounce(t *testing.T) {
	var sink tokenSink
	n := New(sink.emit, WithDebounce(40*time.Millisecond))

	// Keep the gap between presses under the debounce window so the
	// burst never settles mid-token.
	for _, r := range "deadbeef" {
		n.KeyPress(r)
		time.Sleep(10 * time.Millisecond)
	}
	require.Empty(t, sink.snapshot(), "token must not emit while keys keep arriving")

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{"deadbeef"}, sink.snapshot())
}

func TestDisableDropsPendingBurst(t *testing.T) {
	var sink tokenSink
	n := newTestNormalizer(&sink)

	feed(n, "deadbeef")
	n.Disable()
	settleWait()

	assert.Empty(t, sink.snapshot(), "disable mid-accumulation discards the buffer")
}

func TestDisabledIgnoresKeys(t *testing.T) {
	var sink tokenSink
	n := newTestNormalizer(&sink)
	n.Disable()

	feed(n, "deadbeef")
	settleWait()
	require.Empty(t, sink.snapshot())

	n.Enable()
	feed(n, "deadbeef")
	settleWait()
	assert.Equal(t, []string{"deadbeef"}, sink.snapshot())
}

func TestCustomTokenLength(t *testing.T) {
	var sink tokenSink
	n := newTestNormalizer(&sink, WithTokenLength(4))

	feed(n, "beef")
	settleWait()
	feed(n, "deadbeef")
	settleWait()

	assert.Equal(t, []string{"beef"}, sink.snapshot())
}
