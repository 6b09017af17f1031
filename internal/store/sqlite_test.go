package store

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := OpenSQLite(path, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_RoundTrip(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	err := s.Set(ctx, map[string]json.RawMessage{
		"v1:usage_ledger": json.RawMessage(`{"personality/friendly":{"count":3,"last_used_ms":1700000000000}}`),
		"v1:favorites":    json.RawMessage(`{"personality":["friendly"]}`),
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, []string{"v1:usage_ledger", "v1:favorites", "v1:missing"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.JSONEq(t, `{"personality/friendly":{"count":3,"last_used_ms":1700000000000}}`, string(got["v1:usage_ledger"]))
	_, ok := got["v1:missing"]
	assert.False(t, ok)
}

func TestSQLite_SetOverwrites(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, map[string]json.RawMessage{"k": json.RawMessage(`1`)}))
	require.NoError(t, s.Set(ctx, map[string]json.RawMessage{"k": json.RawMessage(`2`)}))

	got, err := s.Get(ctx, []string{"k"})
	require.NoError(t, err)
	assert.Equal(t, "2", string(got["k"]))
}

func TestSQLite_EmptyBatches(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, nil))
	got, err := s.Get(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenSQLite_RotatesCorruptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.db")
	require.NoError(t, os.WriteFile(path, []byte("this is not a sqlite database at all"), 0o644))

	s, err := OpenSQLite(path, slog.Default())
	require.NoError(t, err, "corruption must degrade to an empty store, not an error")
	defer s.Close()

	// The store works and starts empty.
	ctx := context.Background()
	got, err := s.Get(ctx, []string{"anything"})
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, s.Set(ctx, map[string]json.RawMessage{"anything": json.RawMessage(`true`)}))

	// The damaged file was kept aside.
	entries, err := filepath.Glob(path + ".corrupt-*")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestMemory_RoundTripAndFailInjection(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, map[string]json.RawMessage{"a": json.RawMessage(`"x"`)}))

	m.FailSets = 1
	err := m.Set(ctx, map[string]json.RawMessage{"b": json.RawMessage(`"y"`)})
	require.Error(t, err)

	// The failed batch left no trace; the first key is intact.
	got, err := m.Get(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, `"x"`, string(got["a"]))
}
