package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsync-labs/docsync/internal/core/domain"
)

func TestConnectionStore(t *testing.T) {
	s := NewConnectionStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Save(ctx, domain.Connection{ID: "c1", OwnerID: "o1"}))
	require.NoError(t, s.SetActiveJob(ctx, "c1", "j1"))

	got, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "j1", got.ActiveJobID)

	require.NoError(t, s.ClearActiveJob(ctx, "c1"))
	require.NoError(t, s.SetLastIndexedAt(ctx, "c1", time.Now()))

	got, err = s.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, got.ActiveJobID)
	assert.NotNil(t, got.LastIndexedAt)

	list, err := s.List(ctx, "o1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.Delete(ctx, "c1"))
	assert.ErrorIs(t, s.Delete(ctx, "c1"), domain.ErrNotFound)
}

func TestDocumentStore_InsertionOrder(t *testing.T) {
	s := NewDocumentStore()
	ctx := context.Background()

	for _, name := range []string{"z", "a", "m"} {
		require.NoError(t, s.Upsert(ctx, domain.IndexedDocument{ConnectionID: "c1", Name: name}))
	}

	list, err := s.ListByConnection(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "z", list[0].Name)
	assert.Equal(t, "m", list[2].Name)

	// upsert replaces in place without reordering
	require.NoError(t, s.Upsert(ctx, domain.IndexedDocument{ConnectionID: "c1", Name: "z", TotalPages: 4}))
	list, err = s.ListByConnection(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 4, list[0].TotalPages)

	require.NoError(t, s.Delete(ctx, "c1", "a"))
	assert.ErrorIs(t, s.Delete(ctx, "c1", "a"), domain.ErrNotFound)
}

func TestVectorStore(t *testing.T) {
	s := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, []domain.VectorPoint{
		{ID: "p1", DocumentID: "doc", OwnerID: "o1", ContentHash: "h1"},
		{ID: "p2", DocumentID: "doc", OwnerID: "o2", ContentHash: "h1"},
	}, true))
	assert.Equal(t, 2, s.Count())

	found, err := s.FindByHash(ctx, "h1", "o1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "p1", found.ID)

	found, err = s.FindByHash(ctx, "h2", "o1")
	require.NoError(t, err)
	assert.Nil(t, found)

	require.NoError(t, s.DeleteByDocument(ctx, "doc", "o1"))
	assert.Equal(t, 1, s.Count(), "other owner's points survive")
}
