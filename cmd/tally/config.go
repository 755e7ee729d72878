// Config loading for the tally CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/pinebranch-games/tally/internal/paths"
	"github.com/pinebranch-games/tally/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDataDir      = "data_dir"
	cfgKeyRelayAddr    = "relay_addr"
	cfgKeyCoalesce     = "coalesce_millis"
	cfgKeyScanDebounce = "scan_debounce_millis"
	cfgKeyTokenLength  = "token_length"
	cfgKeyCacheTTL     = "cache_ttl_hours"
	cfgKeyCacheCeiling = "cache_ceiling_bytes"

	defaultRelayAddr = "127.0.0.1:7474"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Tally configuration

# Notification relay address
relay_addr: 127.0.0.1:7474

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Coalescing delay for cross-window refreshes, in milliseconds
coalesce_millis: 50

# Badge scanner debounce window, in milliseconds
scan_debounce_millis: 100

# Badge token length (hex characters)
token_length: 8

# Asset cache bounds
cache_ttl_hours: 24
cache_ceiling_bytes: 33554432
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper and folds it into a validated types.Config. It creates the
// config directory and a default config.yaml on first run; a missing
// config.yaml is not an error.
func loadConfig() (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	if err := ensureConfigDir(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyRelayAddr, defaultRelayAddr)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		DataDir:            dataDir,
		RelayAddr:          v.GetString(cfgKeyRelayAddr),
		CoalesceMillis:     v.GetInt(cfgKeyCoalesce),
		ScanDebounceMillis: v.GetInt(cfgKeyScanDebounce),
		TokenLength:        v.GetInt(cfgKeyTokenLength),
		CacheTTLHours:      v.GetInt(cfgKeyCacheTTL),
		CacheCeilingBytes:  v.GetInt64(cfgKeyCacheCeiling),
	}.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
