// Package scanner normalizes bursty keystroke input from badge scanners
// (RFID/QR) into validated identifier tokens. The hardware types faster
// than a human and pauses longer than the debounce window between scans;
// timing and format are the only discriminators used.
package scanner

import (
	"regexp"
	"strings"
	"sync"
	"time"
)

// Defaults.
const (
	DefaultTokenLength = 8
	DefaultDebounce    = 100 * time.Millisecond
)

var hexToken = regexp.MustCompile(`^[0-9A-Fa-f]+$`)

// Normalizer accumulates single-character key events and emits a token
// when the burst settles. States: idle, accumulating; a settled buffer
// either emits (exact length, strictly hexadecimal) or is silently
// discarded.
type Normalizer struct {
	length   int
	debounce time.Duration
	emit     func(token string)

	mu      sync.Mutex
	enabled bool
	buf     strings.Builder
	timer   *time.Timer
}

// Option adjusts a Normalizer at construction.
type Option func(*Normalizer)

// WithTokenLength overrides the expected token length.
func WithTokenLength(n int) Option {
	return func(s *Normalizer) { s.length = n }
}

// WithDebounce overrides the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(s *Normalizer) { s.debounce = d }
}

// New creates an enabled Normalizer that calls emit for each validated
// token.
func New(emit func(token string), opts ...Option) *Normalizer {
	s := &Normalizer{
		length:   DefaultTokenLength,
		debounce: DefaultDebounce,
		emit:     emit,
		enabled:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// KeyPress feeds one raw character event. Each press appends to the
// buffer and restarts the debounce timer. Presses while disabled are
// dropped.
func (s *Normalizer) KeyPress(r rune) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return
	}
	s.buf.WriteRune(r)
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.settle)
}

// Enable turns the normalizer on. Idempotent.
func (s *Normalizer) Enable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = true
}

// Disable turns the normalizer off, clearing any pending timer and
// buffer without emitting.
func (s *Normalizer) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enabled = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.buf.Reset()
}

// settle runs on debounce expiry: emit the buffer iff it is exactly the
// expected length and strictly hexadecimal; otherwise drop it silently.
func (s *Normalizer) settle() {
	s.mu.Lock()
	token := s.buf.String()
	s.buf.Reset()
	s.timer = nil
	enabled := s.enabled
	s.mu.Unlock()

	if !enabled {
		return
	}
	if len(token) != s.length || !hexToken.MatchString(token) {
		return
	}
	if s.emit != nil {
		s.emit(token)
	}
}
