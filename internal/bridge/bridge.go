// Package bridge adapts a generic statement/parameter/result-shape
// contract onto the opaque command channel. It owns no state beyond the
// lazily established channel handle; it never retries and never rewrites
// a statement.
package bridge

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pinebranch-games/tally/pkg/types"
)

// Mode selects the result shape of Execute.
type Mode string

const (
	// ModeAll returns every row of a read statement.
	ModeAll Mode = "all"
	// ModeOne returns at most the first row.
	ModeOne Mode = "one"
)

// Rows is an ordered list of positional value tuples. Field names from
// the channel are stripped; callers address values by position.
type Rows [][]any

// Connector establishes the underlying command channel. It is invoked
// lazily on first use and again on a later call if it failed.
type Connector func() (types.Channel, error)

// Bridge executes parameterized statements over the command channel.
// Safe for concurrent use; concurrent early callers share a single
// channel initialization.
type Bridge struct {
	connector Connector
	log       *slog.Logger

	mu sync.Mutex
	ch types.Channel
}

// New creates a Bridge over the given connector. A nil logger falls back
// to slog.Default.
func New(connector Connector, log *slog.Logger) *Bridge {
	if log == nil {
		log = slog.Default()
	}
	return &Bridge{connector: connector, log: log}
}

// Connect creates a Bridge over an already established channel.
func Connect(ch types.Channel, log *slog.Logger) *Bridge {
	b := New(func() (types.Channel, error) { return ch, nil }, log)
	b.ch = ch
	return b
}

// channel returns the established channel, connecting on first use.
// Callers racing here serialize on the mutex, so the connector runs at
// most once per successful initialization. A failed initialization is
// not cached; the next call retries.
func (b *Bridge) channel() (types.Channel, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ch != nil {
		return b.ch, nil
	}
	ch, err := b.connector()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrChannelNotReady, err)
	}
	b.ch = ch
	return ch, nil
}

// Close closes the underlying channel if one was established.
func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ch == nil {
		return nil
	}
	err := b.ch.Close()
	b.ch = nil
	return err
}

// IsRead reports whether a statement is routed to the channel's query
// primitive. Classification is a prefix test, nothing more.
func IsRead(statement string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(statement)), "SELECT")
}

// Execute runs one statement with positional parameters and returns
// positional row tuples.
//
// Reads return the matching rows (at most one in ModeOne). Writes return
// a single synthetic {generated key} row when the channel reports one,
// otherwise an empty row set; callers needing the created entity must
// re-read by a unique field. Channel rejections are logged once and
// returned unchanged.
func (b *Bridge) Execute(statement string, params []any, mode Mode) (Rows, error) {
	ch, err := b.channel()
	if err != nil {
		return nil, err
	}

	if IsRead(statement) {
		records, err := ch.QueryRows(statement, params)
		if err != nil {
			b.log.Error("query rejected", "statement", statement, "error", err)
			return nil, err
		}
		rows := make(Rows, 0, len(records))
		for _, rec := range records {
			rows = append(rows, rec.Tuple())
		}
		if mode == ModeOne && len(rows) > 1 {
			rows = rows[:1]
		}
		return rows, nil
	}

	res, err := ch.ExecuteStatement(statement, params)
	if err != nil {
		b.log.Error("statement rejected", "statement", statement, "error", err)
		return nil, err
	}
	if res.KeyGenerated {
		return Rows{{res.GeneratedKey}}, nil
	}
	return Rows{}, nil
}
