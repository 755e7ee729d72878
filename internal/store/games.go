package store

import (
	"fmt"

	"github.com/pinebranch-games/tally/internal/bridge"
	"github.com/pinebranch-games/tally/pkg/types"
)

const gameColumns = "id, snowflake, name, description, data, roster, created_at, updated_at"

// CreateGame validates and inserts a new game, assigns a snowflake, and
// returns the stored entity re-read through the bridge.
func (s *Store) CreateGame(g *types.Game) (*types.Game, error) {
	if err := validateGame(g); err != nil {
		return nil, err
	}

	blob, err := marshalBlob(g.Data)
	if err != nil {
		return nil, err
	}

	snowflake := types.NewSnowflake()
	ts := now()
	_, err = s.bridge.Execute(
		`INSERT INTO games (snowflake, name, description, data, roster, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		[]any{snowflake, g.Name, g.Description, blob, g.Roster, ts, ts},
		bridge.ModeOne)
	if err != nil {
		return nil, err
	}

	return s.GetGame(snowflake)
}

// GetGame retrieves a game by snowflake.
// Returns types.ErrNotFound if no game matches.
func (s *Store) GetGame(snowflake string) (*types.Game, error) {
	if snowflake == "" {
		return nil, types.ErrInvalidID
	}
	rows, err := s.bridge.Execute(
		"SELECT "+gameColumns+" FROM games WHERE snowflake = ?",
		[]any{snowflake}, bridge.ModeOne)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, types.ErrNotFound
	}
	return scanGame(rows[0])
}

// ListGames returns every game ordered by name.
func (s *Store) ListGames() ([]*types.Game, error) {
	rows, err := s.bridge.Execute(
		"SELECT "+gameColumns+" FROM games ORDER BY LOWER(name) ASC",
		nil, bridge.ModeAll)
	if err != nil {
		return nil, err
	}
	games := make([]*types.Game, 0, len(rows))
	for _, row := range rows {
		g, err := scanGame(row)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, nil
}

// UpdateGame overwrites the mutable fields of an existing game.
// Returns types.ErrNotFound if the snowflake does not exist.
func (s *Store) UpdateGame(g *types.Game) (*types.Game, error) {
	if g.Snowflake == "" {
		return nil, types.ErrInvalidID
	}
	if err := validateGame(g); err != nil {
		return nil, err
	}
	if _, err := s.GetGame(g.Snowflake); err != nil {
		return nil, err
	}

	blob, err := marshalBlob(g.Data)
	if err != nil {
		return nil, err
	}
	_, err = s.bridge.Execute(
		`UPDATE games SET name = ?, description = ?, data = ?, roster = ?, updated_at = ?
		 WHERE snowflake = ?`,
		[]any{g.Name, g.Description, blob, g.Roster, now(), g.Snowflake},
		bridge.ModeOne)
	if err != nil {
		return nil, err
	}
	return s.GetGame(g.Snowflake)
}

// DeleteGame hard-deletes a game. There is no tombstoning; ledger rows
// referencing the game keep it alive at the store's discretion (the
// foreign key rejects the delete while scores exist).
func (s *Store) DeleteGame(snowflake string) error {
	if snowflake == "" {
		return types.ErrInvalidID
	}
	if _, err := s.GetGame(snowflake); err != nil {
		return err
	}
	_, err := s.bridge.Execute(
		"DELETE FROM games WHERE snowflake = ?",
		[]any{snowflake}, bridge.ModeOne)
	return err
}

func validateGame(g *types.Game) error {
	fields := make(map[string]string)
	if g == nil {
		return types.NewValidationError(map[string]string{"game": "must not be nil"})
	}
	if g.Name == "" {
		fields["name"] = "must not be empty"
	}
	if len(fields) > 0 {
		return types.NewValidationError(fields)
	}
	return nil
}

func scanGame(row []any) (*types.Game, error) {
	if len(row) != 8 {
		return nil, fmt.Errorf("scanning game: expected 8 columns, got %d", len(row))
	}
	data, err := unmarshalBlob(row[4])
	if err != nil {
		return nil, fmt.Errorf("scanning game: %w", err)
	}
	return &types.Game{
		ID:          tupleInt64(row[0]),
		Snowflake:   tupleString(row[1]),
		Name:        tupleString(row[2]),
		Description: tupleString(row[3]),
		Data:        data,
		Roster:      tupleString(row[5]),
		CreatedAt:   tupleTime(row[6]),
		UpdatedAt:   tupleTime(row[7]),
	}, nil
}
