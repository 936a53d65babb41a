package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridoc/clausematch/core"
	"github.com/veridoc/clausematch/storage"
)

func newTestRepo(t *testing.T) storage.EmbeddingRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func testEntry(text string) *core.EmbeddingEntry {
	return &core.EmbeddingEntry{
		Id:     core.IDFromContent(text),
		Model:  "embeddinggemma",
		Vector: []float32{0.1, 0.2, 0.3},
	}
}

func TestEmbeddingRepository_PutGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	entry := testEntry("the mother shall have primary custody")
	stored, err := repo.PutEntries(ctx, entry)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.False(t, stored[0].InsertedAt.IsZero())
	assert.False(t, stored[0].UpdatedAt.IsZero())

	got, err := repo.GetEntry(ctx, entry.Id)
	require.NoError(t, err)
	assert.Equal(t, entry.Id, got.Id)
	assert.Equal(t, entry.Model, got.Model)
	assert.Equal(t, entry.Vector, got.Vector)
}

func TestEmbeddingRepository_GetMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetEntry(context.Background(), core.IDFromContent("never stored"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEmbeddingRepository_OverwriteLastWriteWins(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	entry := testEntry("some clause")
	_, err := repo.PutEntries(ctx, entry)
	require.NoError(t, err)

	updated := testEntry("some clause")
	updated.Vector = []float32{0.9, 0.9, 0.9}
	_, err = repo.PutEntries(ctx, updated)
	require.NoError(t, err)

	got, err := repo.GetEntry(ctx, entry.Id)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.9, 0.9, 0.9}, got.Vector)
}

func TestEmbeddingRepository_Count(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	count, err := repo.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = repo.PutEntries(ctx, testEntry("clause one"), testEntry("clause two"))
	require.NoError(t, err)

	count, err = repo.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestEmbeddingRepository_ModelLabel(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	model, err := repo.Model(ctx)
	require.NoError(t, err)
	assert.Empty(t, model)

	require.NoError(t, repo.SetModel(ctx, "embeddinggemma"))

	model, err = repo.Model(ctx)
	require.NoError(t, err)
	assert.Equal(t, "embeddinggemma", model)
}

func TestEmbeddingRepository_Purge(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.PutEntries(ctx, testEntry("clause one"), testEntry("clause two"))
	require.NoError(t, err)
	require.NoError(t, repo.SetModel(ctx, "embeddinggemma"))

	require.NoError(t, repo.Purge(ctx))

	count, err := repo.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	model, err := repo.Model(ctx)
	require.NoError(t, err)
	assert.Empty(t, model)
}
