// Package engine derives the current-leaderboard projection from the
// append-only score ledger. Currency is a query-time derivation: the
// current score for a (game, player) pair is the ledger row with the
// highest id for that pair, never a stored flag. Projections are rebuilt
// in full on every write, not patched incrementally.
package engine

import (
	"fmt"
	"sync"

	"github.com/pinebranch-games/tally/internal/bridge"
	"github.com/pinebranch-games/tally/pkg/types"
)

const scoreColumns = "s.id, s.snowflake, s.player, s.game, s.unit_id, s.unit_type, s.datum, s.created_at, s.updated_at"

// deriveStatement selects, for one game, the ledger row with the maximum
// id per player, ordered by player name (case-insensitive) then datum.
// The trailing id sort makes equal-name, equal-datum orderings stable.
const deriveStatement = `SELECT ` + scoreColumns + `
FROM scores s
JOIN players p ON p.snowflake = s.player
WHERE s.game = ?
  AND s.id IN (SELECT MAX(id) FROM scores WHERE game = ? GROUP BY player)
ORDER BY LOWER(p.name) ASC, s.datum ASC, s.id ASC`

// Engine owns the in-memory projection cache, keyed by game snowflake.
// Invalidation and rebuild happen only under its lock; everything else
// goes through the bridge.
type Engine struct {
	bridge *bridge.Bridge

	mu          sync.Mutex
	projections map[string]types.Projection
}

// New creates an Engine over the given bridge.
func New(b *bridge.Bridge) *Engine {
	return &Engine{
		bridge:      b,
		projections: make(map[string]types.Projection),
	}
}

// AddScore appends a ledger row and synchronously re-derives the
// projection for the affected game. Insert and derivation are two
// separate round trips; the derivation query is self-consistent at the
// time it runs. Referential failures from the store propagate unchanged.
func (e *Engine) AddScore(rec *types.ScoreRecord) (types.Projection, error) {
	if err := validateScore(rec); err != nil {
		return nil, err
	}
	if rec.Snowflake == "" {
		rec.Snowflake = types.NewSnowflake()
	}

	ts := timestamp()
	rows, err := e.bridge.Execute(
		`INSERT INTO scores (snowflake, player, game, unit_id, unit_type, datum, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		[]any{rec.Snowflake, rec.Player, rec.Game, rec.UnitID, rec.UnitType, rec.Datum, ts, ts},
		bridge.ModeOne)
	if err != nil {
		return nil, err
	}
	if len(rows) == 1 && len(rows[0]) == 1 {
		if id, ok := rows[0][0].(int64); ok {
			rec.ID = id
		}
	}

	return e.Refresh(rec.Game)
}

// CurrentScores returns the projection for a game: exactly one record
// per distinct player. A cached projection is served when present; an
// unknown game yields an empty projection, not an error.
func (e *Engine) CurrentScores(game string) (types.Projection, error) {
	e.mu.Lock()
	cached, ok := e.projections[game]
	e.mu.Unlock()
	if ok {
		return cached, nil
	}
	return e.Refresh(game)
}

// Refresh re-derives the projection for a game from the ledger and
// replaces the cached copy.
func (e *Engine) Refresh(game string) (types.Projection, error) {
	rows, err := e.bridge.Execute(deriveStatement, []any{game, game}, bridge.ModeAll)
	if err != nil {
		return nil, err
	}

	projection := make(types.Projection, 0, len(rows))
	for _, row := range rows {
		rec, err := scanScore(row)
		if err != nil {
			return nil, err
		}
		projection = append(projection, *rec)
	}

	e.mu.Lock()
	e.projections[game] = projection
	e.mu.Unlock()
	return projection, nil
}

// Invalidate drops the cached projection for a game so the next read
// re-derives it.
func (e *Engine) Invalidate(game string) {
	e.mu.Lock()
	delete(e.projections, game)
	e.mu.Unlock()
}

// PurgeUnit deletes every ledger row for a scoring unit within a game.
// This is the only bulk mutation of historical rows and it is
// irreversible. The game's projection is re-derived afterwards.
func (e *Engine) PurgeUnit(unitID int64, game string) error {
	_, err := e.bridge.Execute(
		"DELETE FROM scores WHERE game = ? AND unit_id = ?",
		[]any{game, unitID}, bridge.ModeOne)
	if err != nil {
		return err
	}
	_, err = e.Refresh(game)
	return err
}

// LedgerCount returns the total number of ledger rows for a game.
func (e *Engine) LedgerCount(game string) (int64, error) {
	rows, err := e.bridge.Execute(
		"SELECT COUNT(*) FROM scores WHERE game = ?",
		[]any{game}, bridge.ModeOne)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	n, _ := rows[0][0].(int64)
	return n, nil
}

func validateScore(rec *types.ScoreRecord) error {
	if rec == nil {
		return types.NewValidationError(map[string]string{"score": "must not be nil"})
	}
	fields := make(map[string]string)
	if rec.Game == "" {
		fields["game"] = "must not be empty"
	}
	if rec.Player == "" {
		fields["player"] = "must not be empty"
	}
	if rec.UnitType == "" {
		fields["unitType"] = "must not be empty"
	}
	if len(fields) > 0 {
		return types.NewValidationError(fields)
	}
	return nil
}

func scanScore(row []any) (*types.ScoreRecord, error) {
	if len(row) != 9 {
		return nil, fmt.Errorf("scanning score: expected 9 columns, got %d", len(row))
	}
	return &types.ScoreRecord{
		ID:        asInt64(row[0]),
		Snowflake: asString(row[1]),
		Player:    asString(row[2]),
		Game:      asString(row[3]),
		UnitID:    asInt64(row[4]),
		UnitType:  asString(row[5]),
		Datum:     asInt64(row[6]),
		CreatedAt: asTime(row[7]),
		UpdatedAt: asTime(row[8]),
	}, nil
}
