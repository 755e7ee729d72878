// Unit tests for the entity store: CRUD round trips, validation, and
// roster admission policy. Each test runs against a real database in a
// temp directory.
package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinebranch-games/tally/internal/bridge"
	"github.com/pinebranch-games/tally/internal/sqlite"
	"github.com/pinebranch-games/tally/pkg/types"
)

// setupStore wires a Store over a fresh backend, closed on cleanup.
func setupStore(t *testing.T) *Store {
	t.Helper()
	backend, err := sqlite.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return New(bridge.Connect(backend, nil))
}

func TestCreateGameRoundTrip(t *testing.T) {
	s := setupStore(t)

	created, err := s.CreateGame(&types.Game{
		Name:        "Darts",
		Description: "301 double-out",
		Data:        map[string]any{"startingScore": float64(301)},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.Snowflake)
	assert.Positive(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.GetGame(created.Snowflake)
	require.NoError(t, err)
	assert.Equal(t, "Darts", got.Name)
	assert.Equal(t, "301 double-out", got.Description)
	assert.Equal(t, map[string]any{"startingScore": float64(301)}, got.Data)
}

func TestCreateGameValidation(t *testing.T) {
	s := setupStore(t)

	_, err := s.CreateGame(&types.Game{Description: "nameless"})
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
	assert.Contains(t, err.Error(), "name")
}

func TestGetGameMissing(t *testing.T) {
	s := setupStore(t)

	_, err := s.GetGame("no-such-snowflake")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = s.GetGame("")
	assert.ErrorIs(t, err, types.ErrInvalidID)
}

func TestUpdateGame(t *testing.T) {
	s := setupStore(t)

	created, err := s.CreateGame(&types.Game{Name: "Darts"})
	require.NoError(t, err)

	created.Name = "Darts 501"
	created.Data = map[string]any{"startingScore": float64(501)}
	updated, err := s.UpdateGame(created)
	require.NoError(t, err)
	assert.Equal(t, "Darts 501", updated.Name)
	assert.Equal(t, created.Snowflake, updated.Snowflake)

	_, err = s.UpdateGame(&types.Game{Snowflake: "missing", Name: "x"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestDeleteGame(t *testing.T) {
	s := setupStore(t)

	created, err := s.CreateGame(&types.Game{Name: "Darts"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteGame(created.Snowflake))
	_, err = s.GetGame(created.Snowflake)
	assert.ErrorIs(t, err, types.ErrNotFound)

	assert.ErrorIs(t, s.DeleteGame(created.Snowflake), types.ErrNotFound)
}

func TestListGamesOrderedByName(t *testing.T) {
	s := setupStore(t)

	for _, name := range []string{"pinball", "Air Hockey", "darts"} {
		_, err := s.CreateGame(&types.Game{Name: name})
		require.NoError(t, err)
	}

	games, err := s.ListGames()
	require.NoError(t, err)
	names := make([]string, 0, len(games))
	for _, g := range games {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"Air Hockey", "darts", "pinball"}, names)
}

func TestPlayerRoundTrip(t *testing.T) {
	s := setupStore(t)

	created, err := s.CreatePlayer(&types.Player{
		Name: "Ada",
		Data: map[string]any{"badge": "A1"},
	})
	require.NoError(t, err)

	got, err := s.GetPlayer(created.Snowflake)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, map[string]any{"badge": "A1"}, got.Data)

	got.Name = "Ada L."
	updated, err := s.UpdatePlayer(got)
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.Name)

	require.NoError(t, s.DeletePlayer(created.Snowflake))
	_, err = s.GetPlayer(created.Snowflake)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestPlayerNilDataStoredAsNull(t *testing.T) {
	s := setupStore(t)

	created, err := s.CreatePlayer(&types.Player{Name: "Bob"})
	require.NoError(t, err)

	got, err := s.GetPlayer(created.Snowflake)
	require.NoError(t, err)
	assert.Nil(t, got.Data)
}

func TestRosterRoundTrip(t *testing.T) {
	s := setupStore(t)

	created, err := s.CreateRoster(&types.Roster{
		Name:  "league",
		Allow: []string{"p1", "p2"},
		Deny:  []string{"p3"},
	})
	require.NoError(t, err)

	got, err := s.GetRoster(created.Snowflake)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, got.Allow)
	assert.Equal(t, []string{"p3"}, got.Deny)
	assert.Empty(t, got.OptIn)
	assert.Empty(t, got.OptOut)

	got.OptIn = []string{"p4"}
	updated, err := s.UpdateRoster(got)
	require.NoError(t, err)
	assert.Equal(t, []string{"p4"}, updated.OptIn)

	require.NoError(t, s.DeleteRoster(created.Snowflake))
	_, err = s.GetRoster(created.Snowflake)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestAdmits(t *testing.T) {
	tests := []struct {
		name   string
		roster types.Roster
		player string
		want   bool
	}{
		{
			name:   "empty roster admits everyone",
			roster: types.Roster{},
			player: "p1",
			want:   true,
		},
		{
			name:   "allow list admits member",
			roster: types.Roster{Allow: []string{"p1"}},
			player: "p1",
			want:   true,
		},
		{
			name:   "allow list excludes outsider",
			roster: types.Roster{Allow: []string{"p1"}},
			player: "p2",
			want:   false,
		},
		{
			name:   "opt-in counts as allow",
			roster: types.Roster{Allow: []string{"p1"}, OptIn: []string{"p2"}},
			player: "p2",
			want:   true,
		},
		{
			name:   "deny wins over allow",
			roster: types.Roster{Allow: []string{"p1"}, Deny: []string{"p1"}},
			player: "p1",
			want:   false,
		},
		{
			name:   "opt-out wins over open roster",
			roster: types.Roster{OptOut: []string{"p1"}},
			player: "p1",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Admits(&tt.roster, tt.player))
		})
	}
}
