package types

// Record is one field-named row as delivered by the command channel.
// Fields preserves the column order of the originating statement so
// callers can recover positional shape.
type Record struct {
	Fields []string       // Column names in statement order.
	Values map[string]any // Value per column name.
}

// Tuple returns the record's values in field order.
func (r Record) Tuple() []any {
	tuple := make([]any, len(r.Fields))
	for i, f := range r.Fields {
		tuple[i] = r.Values[f]
	}
	return tuple
}

// ExecResult reports the outcome of a non-query statement.
type ExecResult struct {
	GeneratedKey int64 // Primary key assigned by the store, if any.
	KeyGenerated bool  // Whether GeneratedKey is meaningful.
}

// Channel is the asynchronous command channel to the embedded store.
// It is the only path to persisted data; there is no shared memory with
// the store process. Implementations must be safe for concurrent use.
type Channel interface {
	// QueryRows runs a read statement and returns field-named records.
	QueryRows(statement string, params []any) ([]Record, error)

	// ExecuteStatement runs a write statement. The result carries the
	// generated primary key when the store assigned one.
	ExecuteStatement(statement string, params []any) (ExecResult, error)

	// FetchAsset returns the named binary asset as a data URI.
	// Returns ErrAssetNotFound if no such asset is stored.
	FetchAsset(name string) (string, error)

	// StoreAsset persists a binary asset under the given name,
	// replacing any previous payload.
	StoreAsset(name string, data []byte) error

	// DeleteAsset removes the named asset. Deleting a missing asset
	// is not an error.
	DeleteAsset(name string) error

	// Close releases channel resources. Idempotent.
	Close() error
}
