package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsync-labs/docsync/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func intPtr(n int) *int { return &n }

func TestConnectionStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	conns := store.ConnectionStore()
	ctx := context.Background()

	conn := domain.Connection{
		ID:          "conn-1",
		OwnerID:     "owner-1",
		Service:     domain.ServiceGoogleDrive,
		Identifier:  "user@example.com",
		Credentials: `{"token":"abc"}`,
		FolderName:  "*",
		Metadata:    `{"team":"alpha"}`,
		PageLimit:   intPtr(100),
	}
	require.NoError(t, conns.Save(ctx, conn))

	got, err := conns.Get(ctx, "conn-1")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", got.OwnerID)
	assert.Equal(t, domain.ServiceGoogleDrive, got.Service)
	assert.Equal(t, `{"token":"abc"}`, got.Credentials)
	require.NotNil(t, got.PageLimit)
	assert.Equal(t, 100, *got.PageLimit)
	assert.Nil(t, got.FileLimit)
	assert.Nil(t, got.LastIndexedAt)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestConnectionStore_GetNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.ConnectionStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConnectionStore_SaveUpdates(t *testing.T) {
	store := newTestStore(t)
	conns := store.ConnectionStore()
	ctx := context.Background()

	conn := domain.Connection{ID: "conn-1", OwnerID: "owner-1", Service: domain.ServiceDropbox}
	require.NoError(t, conns.Save(ctx, conn))

	conn.Metadata = `{"updated":true}`
	conn.FileLimit = intPtr(5)
	require.NoError(t, conns.Save(ctx, conn))

	got, err := conns.Get(ctx, "conn-1")
	require.NoError(t, err)
	assert.Equal(t, `{"updated":true}`, got.Metadata)
	require.NotNil(t, got.FileLimit)
	assert.Equal(t, 5, *got.FileLimit)
}

func TestConnectionStore_List(t *testing.T) {
	store := newTestStore(t)
	conns := store.ConnectionStore()
	ctx := context.Background()

	require.NoError(t, conns.Save(ctx, domain.Connection{ID: "a", OwnerID: "owner-1", Service: domain.ServiceGoogleDrive}))
	require.NoError(t, conns.Save(ctx, domain.Connection{ID: "b", OwnerID: "owner-1", Service: domain.ServiceDropbox}))
	require.NoError(t, conns.Save(ctx, domain.Connection{ID: "c", OwnerID: "owner-2", Service: domain.ServiceDropbox}))

	list, err := conns.List(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestConnectionStore_ActiveJobLifecycle(t *testing.T) {
	store := newTestStore(t)
	conns := store.ConnectionStore()
	ctx := context.Background()

	require.NoError(t, conns.Save(ctx, domain.Connection{ID: "conn-1", OwnerID: "owner-1", Service: domain.ServiceGoogleDrive}))

	require.NoError(t, conns.SetActiveJob(ctx, "conn-1", "job-42"))
	got, err := conns.Get(ctx, "conn-1")
	require.NoError(t, err)
	assert.True(t, got.IsSyncing())
	assert.Equal(t, "job-42", got.ActiveJobID)

	require.NoError(t, conns.ClearActiveJob(ctx, "conn-1"))
	got, err = conns.Get(ctx, "conn-1")
	require.NoError(t, err)
	assert.False(t, got.IsSyncing())

	assert.ErrorIs(t, conns.SetActiveJob(ctx, "missing", "job-1"), domain.ErrNotFound)
}

func TestConnectionStore_SetLastIndexedAt(t *testing.T) {
	store := newTestStore(t)
	conns := store.ConnectionStore()
	ctx := context.Background()

	require.NoError(t, conns.Save(ctx, domain.Connection{ID: "conn-1", OwnerID: "owner-1", Service: domain.ServiceGoogleDrive}))

	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, conns.SetLastIndexedAt(ctx, "conn-1", started))

	got, err := conns.Get(ctx, "conn-1")
	require.NoError(t, err)
	require.NotNil(t, got.LastIndexedAt)
	assert.True(t, got.LastIndexedAt.Equal(started))
}

func TestConnectionStore_Delete(t *testing.T) {
	store := newTestStore(t)
	conns := store.ConnectionStore()
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, conns.Save(ctx, domain.Connection{ID: "conn-1", OwnerID: "owner-1", Service: domain.ServiceGoogleDrive}))
	require.NoError(t, docs.Upsert(ctx, domain.IndexedDocument{ConnectionID: "conn-1", Name: "doc.pdf", TotalPages: 1}))

	require.NoError(t, conns.Delete(ctx, "conn-1"))
	assert.ErrorIs(t, conns.Delete(ctx, "conn-1"), domain.ErrNotFound)

	// document rows cascade with the connection
	_, err := docs.Get(ctx, "conn-1", "doc.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_UpsertAndGet(t *testing.T) {
	store := newTestStore(t)
	conns := store.ConnectionStore()
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, conns.Save(ctx, domain.Connection{ID: "conn-1", OwnerID: "owner-1", Service: domain.ServiceGoogleDrive}))

	doc := domain.IndexedDocument{
		ConnectionID: "conn-1",
		Name:         "report.pdf",
		TotalPages:   3,
		ChunkIDs:     []string{"pt-1", "pt-2"},
	}
	require.NoError(t, docs.Upsert(ctx, doc))

	got, err := docs.Get(ctx, "conn-1", "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalPages)
	assert.Equal(t, []string{"pt-1", "pt-2"}, got.ChunkIDs)
	assert.False(t, got.UpdatedAt.IsZero())

	// replacing the row keeps the (connection, name) key unique
	doc.TotalPages = 5
	doc.ChunkIDs = []string{"pt-3"}
	require.NoError(t, docs.Upsert(ctx, doc))

	got, err = docs.Get(ctx, "conn-1", "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, 5, got.TotalPages)
	assert.Equal(t, []string{"pt-3"}, got.ChunkIDs)

	list, err := docs.ListByConnection(ctx, "conn-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDocumentStore_ListPreservesInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	conns := store.ConnectionStore()
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, conns.Save(ctx, domain.Connection{ID: "conn-1", OwnerID: "owner-1", Service: domain.ServiceGoogleDrive}))
	for _, name := range []string{"z.pdf", "a.pdf", "m.pdf"} {
		require.NoError(t, docs.Upsert(ctx, domain.IndexedDocument{ConnectionID: "conn-1", Name: name}))
	}

	list, err := docs.ListByConnection(ctx, "conn-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "z.pdf", list[0].Name)
	assert.Equal(t, "a.pdf", list[1].Name)
	assert.Equal(t, "m.pdf", list[2].Name)
}

func TestDocumentStore_Delete(t *testing.T) {
	store := newTestStore(t)
	conns := store.ConnectionStore()
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, conns.Save(ctx, domain.Connection{ID: "conn-1", OwnerID: "owner-1", Service: domain.ServiceGoogleDrive}))
	require.NoError(t, docs.Upsert(ctx, domain.IndexedDocument{ConnectionID: "conn-1", Name: "doc.pdf"}))

	require.NoError(t, docs.Delete(ctx, "conn-1", "doc.pdf"))
	assert.ErrorIs(t, docs.Delete(ctx, "conn-1", "doc.pdf"), domain.ErrNotFound)
}

func TestStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// reopening the same directory re-runs migrate against an up-to-date db
	store, err = NewStore(dir)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}
