package types

import "time"

// Game is a scored activity with a configuration blob and an optional
// roster restricting who may appear on its board.
type Game struct {
	ID          int64          // Internal sequential key.
	Snowflake   string         // Time-ordered external identifier.
	Name        string         // Human-readable name (required).
	Description string         // Free-form description.
	Data        map[string]any // JSON-shaped configuration blob.
	Roster      string         // Snowflake of the governing roster, if any.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Player is a scoring participant.
type Player struct {
	ID        int64
	Snowflake string
	Name      string
	Data      map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Roster is a named membership policy: explicit allow/deny lists plus
// player-driven opt-in/opt-out lists, all holding player snowflakes.
type Roster struct {
	ID          int64
	Snowflake   string
	Name        string
	Description string
	Allow       []string
	Deny        []string
	OptIn       []string
	OptOut      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Entity table names.
const (
	TableGames   = "games"
	TablePlayers = "players"
	TableRosters = "rosters"
	TableScores  = "scores"
)
