package bridge

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinebranch-games/tally/pkg/types"
)

// fakeChannel records calls and plays back canned responses.
type fakeChannel struct {
	mu         sync.Mutex
	queries    []string
	executes   []string
	records    []types.Record
	execResult types.ExecResult
	queryErr   error
	execErr    error
}

func (f *fakeChannel) QueryRows(statement string, params []any) ([]types.Record, error) {
	f.mu.Lock()
	f.queries = append(f.queries, statement)
	f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.records, nil
}

func (f *fakeChannel) ExecuteStatement(statement string, params []any) (types.ExecResult, error) {
	f.mu.Lock()
	f.executes = append(f.executes, statement)
	f.mu.Unlock()
	if f.execErr != nil {
		return types.ExecResult{}, f.execErr
	}
	return f.execResult, nil
}

func (f *fakeChannel) FetchAsset(name string) (string, error) { return "", types.ErrAssetNotFound }
func (f *fakeChannel) StoreAsset(name string, data []byte) error { return nil }
func (f *fakeChannel) DeleteAsset(name string) error             { return nil }
func (f *fakeChannel) Close() error                              { return nil }

func record(fields []string, values map[string]any) types.Record {
	return types.Record{Fields: fields, Values: values}
}

func TestIsRead(t *testing.T) {
	tests := []struct {
		statement string
		want      bool
	}{
		{"SELECT * FROM games", true},
		{"  select 1", true},
		{"\n\tSELECT name FROM players", true},
		{"INSERT INTO games (name) VALUES (?)", false},
		{"UPDATE games SET name = ?", false},
		{"DELETE FROM scores", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRead(tt.statement), tt.statement)
	}
}

func TestExecuteReadStripsFieldNames(t *testing.T) {
	ch := &fakeChannel{records: []types.Record{
		record([]string{"id", "name"}, map[string]any{"id": int64(1), "name": "Ada"}),
		record([]string{"id", "name"}, map[string]any{"id": int64(2), "name": "Bob"}),
	}}
	b := Connect(ch, nil)

	rows, err := b.Execute("SELECT id, name FROM players", nil, ModeAll)
	require.NoError(t, err)
	assert.Equal(t, Rows{{int64(1), "Ada"}, {int64(2), "Bob"}}, rows)
}

func TestExecuteModeOneTruncates(t *testing.T) {
	ch := &fakeChannel{records: []types.Record{
		record([]string{"id"}, map[string]any{"id": int64(1)}),
		record([]string{"id"}, map[string]any{"id": int64(2)}),
	}}
	b := Connect(ch, nil)

	rows, err := b.Execute("SELECT id FROM players", nil, ModeOne)
	require.NoError(t, err)
	assert.Equal(t, Rows{{int64(1)}}, rows)
}

func TestExecuteWriteSyntheticKeyRow(t *testing.T) {
	ch := &fakeChannel{execResult: types.ExecResult{GeneratedKey: 7, KeyGenerated: true}}
	b := Connect(ch, nil)

	rows, err := b.Execute("INSERT INTO players (name) VALUES (?)", []any{"Ada"}, ModeOne)
	require.NoError(t, err)
	assert.Equal(t, Rows{{int64(7)}}, rows)
	assert.Empty(t, ch.queries, "writes never hit the query primitive")
}

func TestExecuteWriteNoKey(t *testing.T) {
	ch := &fakeChannel{}
	b := Connect(ch, nil)

	rows, err := b.Execute("DELETE FROM scores WHERE game = ?", []any{"g1"}, ModeOne)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExecuteRethrowsUnchanged(t *testing.T) {
	rejection := errors.New("UNIQUE constraint failed: players.snowflake")
	ch := &fakeChannel{execErr: rejection}
	b := Connect(ch, nil)

	_, err := b.Execute("INSERT INTO players (snowflake) VALUES (?)", []any{"p1"}, ModeOne)
	assert.Equal(t, rejection, err, "rejections pass through unwrapped")

	ch2 := &fakeChannel{queryErr: rejection}
	b2 := Connect(ch2, nil)
	_, err = b2.Execute("SELECT 1", nil, ModeAll)
	assert.Equal(t, rejection, err)
}

func TestLazyConnectSharedAcrossCallers(t *testing.T) {
	var connects int
	ch := &fakeChannel{}
	b := New(func() (types.Channel, error) {
		connects++
		return ch, nil
	}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := b.Execute("SELECT 1", nil, ModeAll)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, connects, "concurrent early callers share one initialization")
}

func TestFailedConnectRetriedLazily(t *testing.T) {
	attempts := 0
	ch := &fakeChannel{}
	b := New(func() (types.Channel, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("boundary still starting")
		}
		return ch, nil
	}, nil)

	_, err := b.Execute("SELECT 1", nil, ModeAll)
	require.ErrorIs(t, err, types.ErrChannelNotReady)

	_, err = b.Execute("SELECT 1", nil, ModeAll)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}
