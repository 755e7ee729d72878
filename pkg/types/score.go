package types

import "time"

// ScoreRecord is one row of the append-only score ledger. Rows are never
// updated; the current score for a (game, player) pair is the row with
// the highest ID among all rows for that pair.
type ScoreRecord struct {
	ID        int64  // Monotonic ledger position (store-assigned).
	Snowflake string // Time-ordered external identifier.
	Player    string // Player snowflake.
	Game      string // Game snowflake.
	UnitID    int64  // Scoring unit within the game.
	UnitType  string // Kind of scoring unit (e.g. "score").
	Datum     int64  // The recorded value.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Projection is the derived current-leaderboard view for one game:
// exactly one record per distinct player, ordered by player name
// (case-insensitive) then datum. It is recomputed in full from the
// ledger, never patched incrementally.
type Projection []ScoreRecord
