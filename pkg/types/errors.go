package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Channel lifecycle errors.
var (
	ErrChannelNotReady = errors.New("command channel is not ready")
	ErrChannelClosed   = errors.New("command channel is closed")
)

// Entity operation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidID     = errors.New("invalid entity ID")
	ErrTableNotFound = errors.New("table not found")
)

// Asset errors.
var (
	ErrAssetNotFound = errors.New("asset not found")
)

// ValidationError reports caller-supplied data that failed shape checks
// before reaching the bridge. Fields maps a field name to a message.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError over a field-keyed message map.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Error renders the field messages in a stable order.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
