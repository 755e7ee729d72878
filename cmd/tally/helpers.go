// Shared helpers for tally CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pinebranch-games/tally/internal/bridge"
	"github.com/pinebranch-games/tally/internal/engine"
	"github.com/pinebranch-games/tally/internal/sqlite"
	"github.com/pinebranch-games/tally/internal/store"
	"github.com/pinebranch-games/tally/pkg/types"
)

// validTableNames lists the entity table names for error messages.
var validTableNames = []string{
	types.TableGames,
	types.TablePlayers,
	types.TableRosters,
}

// validTableNamesStr is a comma-separated list for error output.
var validTableNamesStr = strings.Join(validTableNames, ", ")

// window bundles one process's view of the store: the channel, the
// bridge over it, and the layers above.
type window struct {
	backend *sqlite.Backend
	store   *store.Store
	engine  *engine.Engine
	cfg     types.Config
}

// openWindow loads config, opens the command channel, and wires the
// bridge, store, and engine. The caller must defer w.close().
func openWindow() (*window, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	backend, err := sqlite.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	br := bridge.Connect(backend, nil)
	return &window{
		backend: backend,
		store:   store.New(br),
		engine:  engine.New(br),
		cfg:     cfg,
	}, nil
}

func (w *window) close() {
	_ = w.backend.Close()
}

// printJSON renders v as indented JSON on stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
