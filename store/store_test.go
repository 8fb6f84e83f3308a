package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ltlcert/store"
)

func stores(t *testing.T) map[string]store.Store {
	return map[string]store.Store{
		"memory": store.NewMemoryStore(),
		"sqlite": store.NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db")),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Init(ctx))
			defer s.Close()

			first := store.Run{
				ID: "a", Input: "p.yaml", Formula: "F G a", Stage: "done", Status: "ok",
				Verdict: "sat", Implications: 14, Constants: 9,
				Counts:  map[string]int{"non_negativity": 9},
				Model:   map[string]string{"V_reach_0_1": "1/2"},
				Started: base, Finished: base.Add(time.Second),
			}
			second := store.Run{ID: "b", Status: "failed", Stage: "solve", Error: "boom", Started: base.Add(time.Minute)}
			require.NoError(t, s.SaveRun(ctx, first))
			require.NoError(t, s.SaveRun(ctx, second))

			got, ok, err := s.GetRun(ctx, "a")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, first.Counts, got.Counts)
			assert.Equal(t, first.Model, got.Model)
			assert.Equal(t, "sat", got.Verdict)
			assert.True(t, got.Started.Equal(base))
			assert.True(t, got.Finished.Equal(base.Add(time.Second)))

			_, ok, err = s.GetRun(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			runs, err := s.ListRuns(ctx, 0)
			require.NoError(t, err)
			require.Len(t, runs, 2)
			assert.Equal(t, "b", runs[0].ID)
			assert.True(t, runs[0].Finished.IsZero())

			runs, err = s.ListRuns(ctx, 1)
			require.NoError(t, err)
			assert.Len(t, runs, 1)

			second.Status = "ok"
			require.NoError(t, s.SaveRun(ctx, second))
			got, _, err = s.GetRun(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, "ok", got.Status)
		})
	}
}

func TestStore_NotInitialized(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			err := s.SaveRun(context.Background(), store.Run{ID: "x"})
			assert.ErrorIs(t, err, store.ErrNotInitialized)
			_, err = s.ListRuns(context.Background(), 0)
			assert.ErrorIs(t, err, store.ErrNotInitialized)
		})
	}
}

func TestSQLiteStore_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	s := store.NewSQLiteStore(path)
	require.NoError(t, s.Init(ctx))
	require.NoError(t, s.Init(ctx))
	require.NoError(t, s.SaveRun(ctx, store.Run{ID: "kept", Status: "ok"}))
	require.NoError(t, s.Close())

	reopened := store.NewSQLiteStore(path)
	require.NoError(t, reopened.Init(ctx))
	defer reopened.Close()
	_, ok, err := reopened.GetRun(ctx, "kept")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.ErrorIs(t, store.NewSQLiteStore("").Init(ctx), store.ErrNoPath)
}
