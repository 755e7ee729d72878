package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/pinebranch-games/tally/pkg/types"
)

// DBFileName is the SQLite database file created inside the data directory.
const DBFileName = "tally.db"

// Backend implements types.Channel over an embedded SQLite database.
// One Backend is shared by every window-side component in a process.
type Backend struct {
	mu   sync.RWMutex
	db   *sql.DB
	open bool
}

// Open creates the data directory if needed, opens the database, and
// applies the schema. An existing database is reopened intact.
func Open(dataDir string) (*Backend, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply indexes: %w", err)
		}
	}

	return &Backend{db: db, open: true}, nil
}

// QueryRows runs a read statement and returns field-named records in
// result order.
func (b *Backend) QueryRows(statement string, params []any) ([]types.Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.open {
		return nil, types.ErrChannelClosed
	}

	rows, err := b.db.Query(statement, params...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	var records []types.Record
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rec := types.Record{
			Fields: cols,
			Values: make(map[string]any, len(cols)),
		}
		for i, col := range cols {
			// The driver hands TEXT back as string and BLOB as
			// []byte; normalize []byte so records are comparable.
			if bs, ok := values[i].([]byte); ok {
				values[i] = string(bs)
			}
			rec.Values[col] = values[i]
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ExecuteStatement runs a write statement. For INSERTs the assigned
// primary key is reported back; for other statements no key is reported
// even though SQLite tracks a last-insert rowid per connection.
func (b *Backend) ExecuteStatement(statement string, params []any) (types.ExecResult, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.open {
		return types.ExecResult{}, types.ErrChannelClosed
	}

	res, err := b.db.Exec(statement, params...)
	if err != nil {
		return types.ExecResult{}, fmt.Errorf("execute: %w", err)
	}

	if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(statement)), "INSERT") {
		return types.ExecResult{}, nil
	}
	key, err := res.LastInsertId()
	if err != nil {
		return types.ExecResult{}, nil
	}
	return types.ExecResult{GeneratedKey: key, KeyGenerated: true}, nil
}

// Close releases the database handle. Idempotent.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return nil
	}
	b.open = false
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
		b.db = nil
	}
	return nil
}
