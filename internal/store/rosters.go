package store

import (
	"fmt"
	"slices"

	"github.com/pinebranch-games/tally/internal/bridge"
	"github.com/pinebranch-games/tally/pkg/types"
)

const rosterColumns = "id, snowflake, name, description, allow, deny, opt_in, opt_out, created_at, updated_at"

// CreateRoster validates and inserts a new roster, assigns a snowflake,
// and returns the stored entity.
func (s *Store) CreateRoster(r *types.Roster) (*types.Roster, error) {
	if err := validateRoster(r); err != nil {
		return nil, err
	}

	lists, err := rosterLists(r)
	if err != nil {
		return nil, err
	}

	snowflake := types.NewSnowflake()
	ts := now()
	_, err = s.bridge.Execute(
		`INSERT INTO rosters (snowflake, name, description, allow, deny, opt_in, opt_out, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		[]any{snowflake, r.Name, r.Description, lists[0], lists[1], lists[2], lists[3], ts, ts},
		bridge.ModeOne)
	if err != nil {
		return nil, err
	}

	return s.GetRoster(snowflake)
}

// GetRoster retrieves a roster by snowflake.
// Returns types.ErrNotFound if no roster matches.
func (s *Store) GetRoster(snowflake string) (*types.Roster, error) {
	if snowflake == "" {
		return nil, types.ErrInvalidID
	}
	rows, err := s.bridge.Execute(
		"SELECT "+rosterColumns+" FROM rosters WHERE snowflake = ?",
		[]any{snowflake}, bridge.ModeOne)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, types.ErrNotFound
	}
	return scanRoster(rows[0])
}

// ListRosters returns every roster ordered by name.
func (s *Store) ListRosters() ([]*types.Roster, error) {
	rows, err := s.bridge.Execute(
		"SELECT "+rosterColumns+" FROM rosters ORDER BY LOWER(name) ASC",
		nil, bridge.ModeAll)
	if err != nil {
		return nil, err
	}
	rosters := make([]*types.Roster, 0, len(rows))
	for _, row := range rows {
		r, err := scanRoster(row)
		if err != nil {
			return nil, err
		}
		rosters = append(rosters, r)
	}
	return rosters, nil
}

// UpdateRoster overwrites the mutable fields of an existing roster.
func (s *Store) UpdateRoster(r *types.Roster) (*types.Roster, error) {
	if r.Snowflake == "" {
		return nil, types.ErrInvalidID
	}
	if err := validateRoster(r); err != nil {
		return nil, err
	}
	if _, err := s.GetRoster(r.Snowflake); err != nil {
		return nil, err
	}

	lists, err := rosterLists(r)
	if err != nil {
		return nil, err
	}
	_, err = s.bridge.Execute(
		`UPDATE rosters SET name = ?, description = ?, allow = ?, deny = ?, opt_in = ?, opt_out = ?, updated_at = ?
		 WHERE snowflake = ?`,
		[]any{r.Name, r.Description, lists[0], lists[1], lists[2], lists[3], now(), r.Snowflake},
		bridge.ModeOne)
	if err != nil {
		return nil, err
	}
	return s.GetRoster(r.Snowflake)
}

// DeleteRoster hard-deletes a roster.
func (s *Store) DeleteRoster(snowflake string) error {
	if snowflake == "" {
		return types.ErrInvalidID
	}
	if _, err := s.GetRoster(snowflake); err != nil {
		return err
	}
	_, err := s.bridge.Execute(
		"DELETE FROM rosters WHERE snowflake = ?",
		[]any{snowflake}, bridge.ModeOne)
	return err
}

// Admits reports whether the roster admits the given player snowflake.
// Deny and opt-out win over allow and opt-in; an empty allow list admits
// everyone who has not opted out or been denied.
func Admits(r *types.Roster, player string) bool {
	if slices.Contains(r.Deny, player) || slices.Contains(r.OptOut, player) {
		return false
	}
	if len(r.Allow) == 0 {
		return true
	}
	return slices.Contains(r.Allow, player) || slices.Contains(r.OptIn, player)
}

func validateRoster(r *types.Roster) error {
	if r == nil {
		return types.NewValidationError(map[string]string{"roster": "must not be nil"})
	}
	if r.Name == "" {
		return types.NewValidationError(map[string]string{"name": "must not be empty"})
	}
	return nil
}

// rosterLists encodes the four membership lists in column order.
func rosterLists(r *types.Roster) ([4]string, error) {
	var out [4]string
	for i, list := range [][]string{r.Allow, r.Deny, r.OptIn, r.OptOut} {
		enc, err := marshalList(list)
		if err != nil {
			return out, err
		}
		out[i] = enc
	}
	return out, nil
}

func scanRoster(row []any) (*types.Roster, error) {
	if len(row) != 10 {
		return nil, fmt.Errorf("scanning roster: expected 10 columns, got %d", len(row))
	}
	r := &types.Roster{
		ID:          tupleInt64(row[0]),
		Snowflake:   tupleString(row[1]),
		Name:        tupleString(row[2]),
		Description: tupleString(row[3]),
		CreatedAt:   tupleTime(row[8]),
		UpdatedAt:   tupleTime(row[9]),
	}
	var err error
	for i, dst := range []*[]string{&r.Allow, &r.Deny, &r.OptIn, &r.OptOut} {
		*dst, err = unmarshalList(row[4+i])
		if err != nil {
			return nil, fmt.Errorf("scanning roster: %w", err)
		}
	}
	return r, nil
}
