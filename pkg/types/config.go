package types

import (
	"errors"
	"time"
)

// Config holds the parameters for one window process.
type Config struct {
	DataDir            string `json:"data_dir" yaml:"data_dir"`
	RelayAddr          string `json:"relay_addr" yaml:"relay_addr"`
	CoalesceMillis     int    `json:"coalesce_millis" yaml:"coalesce_millis"`
	ScanDebounceMillis int    `json:"scan_debounce_millis" yaml:"scan_debounce_millis"`
	TokenLength        int    `json:"token_length" yaml:"token_length"`
	CacheTTLHours      int    `json:"cache_ttl_hours" yaml:"cache_ttl_hours"`
	CacheCeilingBytes  int64  `json:"cache_ceiling_bytes" yaml:"cache_ceiling_bytes"`
}

// Configuration defaults.
const (
	DefaultCoalesceMillis     = 50
	DefaultScanDebounceMillis = 100
	DefaultTokenLength        = 8
	DefaultCacheTTLHours      = 24
	DefaultCacheCeilingBytes  = 32 << 20
)

// Config validation errors.
var (
	ErrDataDirEmpty        = errors.New("data directory must not be empty")
	ErrCoalesceInvalid     = errors.New("coalesce delay must not be negative")
	ErrScanDebounceInvalid = errors.New("scan debounce must not be negative")
	ErrTokenLengthInvalid  = errors.New("token length must be positive")
	ErrCacheBoundsInvalid  = errors.New("cache TTL and ceiling must be positive")
)

// WithDefaults returns a copy of c with zero-valued tunables replaced by
// their defaults. DataDir and RelayAddr are left as-is.
func (c Config) WithDefaults() Config {
	if c.CoalesceMillis == 0 {
		c.CoalesceMillis = DefaultCoalesceMillis
	}
	if c.ScanDebounceMillis == 0 {
		c.ScanDebounceMillis = DefaultScanDebounceMillis
	}
	if c.TokenLength == 0 {
		c.TokenLength = DefaultTokenLength
	}
	if c.CacheTTLHours == 0 {
		c.CacheTTLHours = DefaultCacheTTLHours
	}
	if c.CacheCeilingBytes == 0 {
		c.CacheCeilingBytes = DefaultCacheCeilingBytes
	}
	return c
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.CoalesceMillis < 0 {
		return ErrCoalesceInvalid
	}
	if c.ScanDebounceMillis < 0 {
		return ErrScanDebounceInvalid
	}
	if c.TokenLength <= 0 {
		return ErrTokenLengthInvalid
	}
	if c.CacheTTLHours <= 0 || c.CacheCeilingBytes <= 0 {
		return ErrCacheBoundsInvalid
	}
	return nil
}

// CoalesceDelay returns the coalescing delay as a duration.
func (c Config) CoalesceDelay() time.Duration {
	return time.Duration(c.CoalesceMillis) * time.Millisecond
}

// ScanDebounce returns the scanner debounce window as a duration.
func (c Config) ScanDebounce() time.Duration {
	return time.Duration(c.ScanDebounceMillis) * time.Millisecond
}

// CacheTTL returns the asset cache time-to-live as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}
