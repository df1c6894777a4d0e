package store_test

import (
	"path/filepath"
	"testing"

	"github.com/D4v4N/qrtool/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *store.HistoryStore {
	t.Helper()
	hs, err := store.NewHistoryStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { hs.Close() })
	return hs
}

func addGeneration(t *testing.T, hs *store.HistoryStore, payload string, createdAt int64) store.Generation {
	t.Helper()
	g := store.Generation{
		Payload:    payload,
		Level:      "M",
		Format:     "png",
		BoxSize:    10,
		Border:     4,
		Side:       290,
		OutputPath: "/tmp/" + payload + ".png",
		CreatedAt:  createdAt,
	}
	require.NoError(t, hs.Add(&g))
	return g
}

func TestHistoryStore(t *testing.T) {
	t.Parallel()

	t.Run("add fills id and returns records newest first", func(t *testing.T) {
		t.Parallel()
		hs := openStore(t)

		first := addGeneration(t, hs, "first", 100)
		second := addGeneration(t, hs, "second", 200)
		third := addGeneration(t, hs, "third", 300)
		assert.NotEmpty(t, first.ID)

		gens, err := hs.Recent(10)
		require.NoError(t, err)
		require.Len(t, gens, 3)
		assert.Equal(t, third.ID, gens[0].ID)
		assert.Equal(t, second.ID, gens[1].ID)
		assert.Equal(t, first.ID, gens[2].ID)
	})

	t.Run("recent honors the limit", func(t *testing.T) {
		t.Parallel()
		hs := openStore(t)
		addGeneration(t, hs, "a", 1)
		addGeneration(t, hs, "b", 2)
		addGeneration(t, hs, "c", 3)

		gens, err := hs.Recent(2)
		require.NoError(t, err)
		require.Len(t, gens, 2)
		assert.Equal(t, "c", gens[0].Payload)
	})

	t.Run("search matches payload substrings", func(t *testing.T) {
		t.Parallel()
		hs := openStore(t)
		addGeneration(t, hs, "https://example.com", 1)
		addGeneration(t, hs, "wifi credentials", 2)

		gens, err := hs.Search("example", 10)
		require.NoError(t, err)
		require.Len(t, gens, 1)
		assert.Equal(t, "https://example.com", gens[0].Payload)
	})

	t.Run("prune keeps only the newest records", func(t *testing.T) {
		t.Parallel()
		hs := openStore(t)
		addGeneration(t, hs, "old", 1)
		addGeneration(t, hs, "mid", 2)
		addGeneration(t, hs, "new", 3)

		require.NoError(t, hs.Prune(1))

		gens, err := hs.Recent(10)
		require.NoError(t, err)
		require.Len(t, gens, 1)
		assert.Equal(t, "new", gens[0].Payload)
	})

	t.Run("round-trips all record fields", func(t *testing.T) {
		t.Parallel()
		hs := openStore(t)
		g := store.Generation{
			Payload:   "vector",
			Level:     "H",
			Format:    "svg",
			SVGMethod: "fragment",
			BoxSize:   5,
			Border:    0,
			Side:      145,
			CreatedAt: 42,
		}
		require.NoError(t, hs.Add(&g))

		gens, err := hs.Recent(1)
		require.NoError(t, err)
		require.Len(t, gens, 1)
		assert.Equal(t, g, gens[0])
	})
}
