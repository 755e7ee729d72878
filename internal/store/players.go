package store

import (
	"fmt"

	"github.com/pinebranch-games/tally/internal/bridge"
	"github.com/pinebranch-games/tally/pkg/types"
)

const playerColumns = "id, snowflake, name, data, created_at, updated_at"

// CreatePlayer validates and inserts a new player, assigns a snowflake,
// and returns the stored entity.
func (s *Store) CreatePlayer(p *types.Player) (*types.Player, error) {
	if err := validatePlayer(p); err != nil {
		return nil, err
	}

	blob, err := marshalBlob(p.Data)
	if err != nil {
		return nil, err
	}

	snowflake := types.NewSnowflake()
	ts := now()
	_, err = s.bridge.Execute(
		`INSERT INTO players (snowflake, name, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		[]any{snowflake, p.Name, blob, ts, ts},
		bridge.ModeOne)
	if err != nil {
		return nil, err
	}

	return s.GetPlayer(snowflake)
}

// GetPlayer retrieves a player by snowflake.
// Returns types.ErrNotFound if no player matches.
func (s *Store) GetPlayer(snowflake string) (*types.Player, error) {
	if snowflake == "" {
		return nil, types.ErrInvalidID
	}
	rows, err := s.bridge.Execute(
		"SELECT "+playerColumns+" FROM players WHERE snowflake = ?",
		[]any{snowflake}, bridge.ModeOne)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, types.ErrNotFound
	}
	return scanPlayer(rows[0])
}

// ListPlayers returns every player ordered by name.
func (s *Store) ListPlayers() ([]*types.Player, error) {
	rows, err := s.bridge.Execute(
		"SELECT "+playerColumns+" FROM players ORDER BY LOWER(name) ASC",
		nil, bridge.ModeAll)
	if err != nil {
		return nil, err
	}
	players := make([]*types.Player, 0, len(rows))
	for _, row := range rows {
		p, err := scanPlayer(row)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, nil
}

// UpdatePlayer overwrites the mutable fields of an existing player.
func (s *Store) UpdatePlayer(p *types.Player) (*types.Player, error) {
	if p.Snowflake == "" {
		return nil, types.ErrInvalidID
	}
	if err := validatePlayer(p); err != nil {
		return nil, err
	}
	if _, err := s.GetPlayer(p.Snowflake); err != nil {
		return nil, err
	}

	blob, err := marshalBlob(p.Data)
	if err != nil {
		return nil, err
	}
	_, err = s.bridge.Execute(
		`UPDATE players SET name = ?, data = ?, updated_at = ? WHERE snowflake = ?`,
		[]any{p.Name, blob, now(), p.Snowflake},
		bridge.ModeOne)
	if err != nil {
		return nil, err
	}
	return s.GetPlayer(p.Snowflake)
}

// DeletePlayer hard-deletes a player.
func (s *Store) DeletePlayer(snowflake string) error {
	if snowflake == "" {
		return types.ErrInvalidID
	}
	if _, err := s.GetPlayer(snowflake); err != nil {
		return err
	}
	_, err := s.bridge.Execute(
		"DELETE FROM players WHERE snowflake = ?",
		[]any{snowflake}, bridge.ModeOne)
	return err
}

func validatePlayer(p *types.Player) error {
	if p == nil {
		return types.NewValidationError(map[string]string{"player": "must not be nil"})
	}
	if p.Name == "" {
		return types.NewValidationError(map[string]string{"name": "must not be empty"})
	}
	return nil
}

func scanPlayer(row []any) (*types.Player, error) {
	if len(row) != 6 {
		return nil, fmt.Errorf("scanning player: expected 6 columns, got %d", len(row))
	}
	data, err := unmarshalBlob(row[3])
	if err != nil {
		return nil, fmt.Errorf("scanning player: %w", err)
	}
	return &types.Player{
		ID:        tupleInt64(row[0]),
		Snowflake: tupleString(row[1]),
		Name:      tupleString(row[2]),
		Data:      data,
		CreatedAt: tupleTime(row[4]),
		UpdatedAt: tupleTime(row[5]),
	}, nil
}
