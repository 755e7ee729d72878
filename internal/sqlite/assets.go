package sqlite

import (
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/pinebranch-games/tally/pkg/types"
)

// dataURIPrefix is the encoding applied to every stored asset payload.
// Assets cross the channel boundary as data URIs, never as raw bytes.
const dataURIPrefix = "data:application/octet-stream;base64,"

// FetchAsset returns the named asset as a data URI.
// Returns types.ErrAssetNotFound if no such asset is stored.
func (b *Backend) FetchAsset(name string) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.open {
		return "", types.ErrChannelClosed
	}

	var payload string
	err := b.db.QueryRow(`SELECT payload FROM assets WHERE name = ?`, name).Scan(&payload)
	if err == sql.ErrNoRows {
		return "", types.ErrAssetNotFound
	}
	if err != nil {
		return "", fmt.Errorf("fetch asset %q: %w", name, err)
	}
	return payload, nil
}

// StoreAsset persists a binary asset as a data URI, replacing any
// previous payload under the same name.
func (b *Backend) StoreAsset(name string, data []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.open {
		return types.ErrChannelClosed
	}

	payload := dataURIPrefix + base64.StdEncoding.EncodeToString(data)
	_, err := b.db.Exec(`
		INSERT INTO assets (name, payload, stored_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			payload = excluded.payload,
			stored_at = excluded.stored_at`,
		name, payload, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store asset %q: %w", name, err)
	}
	return nil
}

// DeleteAsset removes the named asset. Deleting a missing asset succeeds.
func (b *Backend) DeleteAsset(name string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.open {
		return types.ErrChannelClosed
	}

	if _, err := b.db.Exec(`DELETE FROM assets WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete asset %q: %w", name, err)
	}
	return nil
}
