// Package sqlite implements the command channel over an embedded SQLite
// store. It is the host-runtime side of the boundary: the bridge and the
// asset cache talk to it only through the types.Channel contract.
package sqlite

// Schema DDL. Statements use IF NOT EXISTS so an existing scoreboard
// database is reopened intact.
const (
	createGames = `CREATE TABLE IF NOT EXISTS games (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    snowflake TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    description TEXT,
    data TEXT,
    roster TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createPlayers = `CREATE TABLE IF NOT EXISTS players (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    snowflake TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    data TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createRosters = `CREATE TABLE IF NOT EXISTS rosters (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    snowflake TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    description TEXT,
    allow TEXT,
    deny TEXT,
    opt_in TEXT,
    opt_out TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createScores = `CREATE TABLE IF NOT EXISTS scores (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    snowflake TEXT NOT NULL UNIQUE,
    player TEXT NOT NULL REFERENCES players(snowflake),
    game TEXT NOT NULL REFERENCES games(snowflake),
    unit_id INTEGER NOT NULL,
    unit_type TEXT NOT NULL,
    datum INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createAssets = `CREATE TABLE IF NOT EXISTS assets (
    name TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    stored_at TEXT NOT NULL
);`
)

// Index DDL. The (game, player, id) index backs the current-score
// derivation; without it the correlated MAX(id) scan is linear in the
// ledger.
const (
	idxScoresGamePlayerID = `CREATE INDEX IF NOT EXISTS idx_scores_game_player_id ON scores(game, player, id);`
	idxScoresGameUnit     = `CREATE INDEX IF NOT EXISTS idx_scores_game_unit ON scores(game, unit_id);`
	idxPlayersName        = `CREATE INDEX IF NOT EXISTS idx_players_name ON players(name);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createGames,
	createPlayers,
	createRosters,
	createScores,
	createAssets,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxScoresGamePlayerID,
	idxScoresGameUnit,
	idxPlayersName,
}
