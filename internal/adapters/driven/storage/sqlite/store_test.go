package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archivist-labs/archivist/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedSource(t *testing.T, store *Store, id string) {
	t.Helper()
	err := store.SourceStore().Save(context.Background(), domain.Source{
		ID:        id,
		Type:      "drive",
		Name:      "Test Source",
		Config:    map[string]string{"folder_ids": "root"},
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
}

func testDoc(sourceID, fileID, name string) *domain.Document {
	return &domain.Document{
		FileID:       fileID,
		SourceID:     sourceID,
		Name:         name,
		MIMEType:     "text/markdown",
		WebViewLink:  "https://example.com/" + fileID,
		ModifiedTime: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func testChunks(fileID string, n int) []domain.Chunk {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			ID:        fileID + "-chunk-" + string(rune('a'+i)),
			FileID:    fileID,
			Index:     i,
			Text:      "chunk body",
			Heading:   "Heading",
			Embedding: []float32{float32(i), 0.5, -1.25},
		}
	}
	return chunks
}

func TestDocumentStore_ReplaceChunksRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedSource(t, store, "src-1")
	docs := store.DocumentStore()

	err := docs.ReplaceChunks(ctx, testDoc("src-1", "file-1", "Guide"), testChunks("file-1", 3))
	require.NoError(t, err)

	doc, err := docs.GetDocument(ctx, "file-1")
	require.NoError(t, err)
	assert.Equal(t, "Guide", doc.Name)
	assert.Equal(t, "src-1", doc.SourceID)
	assert.False(t, doc.Deleted)
	assert.False(t, doc.IndexedAt.IsZero())

	chunks, err := docs.GetChunks(ctx, "file-1")
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		// Embeddings survive the blob round trip bit-exact.
		assert.Equal(t, []float32{float32(i), 0.5, -1.25}, c.Embedding)
	}
}

func TestDocumentStore_ReplaceChunksSwapsAtomically(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedSource(t, store, "src-1")
	docs := store.DocumentStore()

	require.NoError(t, docs.ReplaceChunks(ctx, testDoc("src-1", "file-1", "Guide"), testChunks("file-1", 3)))

	replacement := []domain.Chunk{
		{ID: "new-0", FileID: "file-1", Index: 0, Text: "rewritten"},
		{ID: "new-1", FileID: "file-1", Index: 1, Text: "rewritten too"},
	}
	require.NoError(t, docs.ReplaceChunks(ctx, testDoc("src-1", "file-1", "Guide v2"), replacement))

	doc, err := docs.GetDocument(ctx, "file-1")
	require.NoError(t, err)
	assert.Equal(t, "Guide v2", doc.Name)

	chunks, err := docs.GetChunks(ctx, "file-1")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "new-0", chunks[0].ID)
	assert.Equal(t, "new-1", chunks[1].ID)
}

func TestDocumentStore_ReplaceChunksRevivesTombstone(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedSource(t, store, "src-1")
	docs := store.DocumentStore()

	require.NoError(t, docs.ReplaceChunks(ctx, testDoc("src-1", "file-1", "Guide"), testChunks("file-1", 1)))
	require.NoError(t, docs.MarkDeleted(ctx, "file-1"))
	require.NoError(t, docs.ReplaceChunks(ctx, testDoc("src-1", "file-1", "Guide"), testChunks("file-1", 2)))

	doc, err := docs.GetDocument(ctx, "file-1")
	require.NoError(t, err)
	assert.False(t, doc.Deleted)

	chunks, err := docs.GetChunks(ctx, "file-1")
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
}

func TestDocumentStore_MarkDeleted(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedSource(t, store, "src-1")
	docs := store.DocumentStore()

	require.NoError(t, docs.ReplaceChunks(ctx, testDoc("src-1", "file-1", "Guide"), testChunks("file-1", 2)))
	require.NoError(t, docs.MarkDeleted(ctx, "file-1"))

	doc, err := docs.GetDocument(ctx, "file-1")
	require.NoError(t, err)
	assert.True(t, doc.Deleted)

	chunks, err := docs.GetChunks(ctx, "file-1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestDocumentStore_MarkDeletedUnknownIsNoOp(t *testing.T) {
	store := newTestStore(t)

	err := store.DocumentStore().MarkDeleted(context.Background(), "never-seen")
	assert.NoError(t, err)
}

func TestDocumentStore_GetDocumentNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.DocumentStore().GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ZeroChunksIsNotAnError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedSource(t, store, "src-1")
	docs := store.DocumentStore()

	require.NoError(t, docs.ReplaceChunks(ctx, testDoc("src-1", "file-1", "Empty Doc"), nil))

	doc, err := docs.GetDocument(ctx, "file-1")
	require.NoError(t, err)
	assert.False(t, doc.Deleted)

	chunks, err := docs.GetChunks(ctx, "file-1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestDocumentStore_ListChangedSince(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedSource(t, store, "src-1")
	docs := store.DocumentStore()

	require.NoError(t, docs.ReplaceChunks(ctx, testDoc("src-1", "file-old", "Old"), nil))

	time.Sleep(10 * time.Millisecond)
	threshold := time.Now().UTC()
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, docs.ReplaceChunks(ctx, testDoc("src-1", "file-a", "A"), nil))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, docs.ReplaceChunks(ctx, testDoc("src-1", "file-b", "B"), nil))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, docs.MarkDeleted(ctx, "file-a"))

	entries, err := docs.ListChangedSince(ctx, threshold)
	require.NoError(t, err)

	// file-old predates the threshold; file-a surfaces once with its
	// latest indexed_at (the tombstoning), newest first.
	require.Len(t, entries, 2)
	assert.Equal(t, "file-a", entries[0].FileID)
	assert.True(t, entries[0].Deleted)
	assert.Equal(t, "file-b", entries[1].FileID)
	assert.False(t, entries[1].Deleted)
}

func TestDocumentStore_SearchCandidates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedSource(t, store, "src-1")
	seedSource(t, store, "src-2")
	docs := store.DocumentStore()

	mdDoc := testDoc("src-1", "file-md", "Markdown Doc")
	require.NoError(t, docs.ReplaceChunks(ctx, mdDoc, testChunks("file-md", 2)))

	txtDoc := testDoc("src-2", "file-txt", "Plain Doc")
	txtDoc.MIMEType = "text/plain"
	txtDoc.ModifiedTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, docs.ReplaceChunks(ctx, txtDoc, testChunks("file-txt", 1)))

	goneDoc := testDoc("src-1", "file-gone", "Deleted Doc")
	require.NoError(t, docs.ReplaceChunks(ctx, goneDoc, testChunks("file-gone", 1)))
	require.NoError(t, docs.MarkDeleted(ctx, "file-gone"))

	t.Run("no filters returns all live chunks", func(t *testing.T) {
		candidates, err := docs.SearchCandidates(ctx, domain.SearchFilters{})
		require.NoError(t, err)
		assert.Len(t, candidates, 3)
		for _, c := range candidates {
			assert.NotEqual(t, "file-gone", c.Chunk.FileID)
			assert.NotEmpty(t, c.Chunk.Embedding)
			assert.Equal(t, c.Chunk.FileID, c.Document.FileID)
		}
	})

	t.Run("source filter", func(t *testing.T) {
		candidates, err := docs.SearchCandidates(ctx, domain.SearchFilters{SourceIDs: []string{"src-2"}})
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "file-txt", candidates[0].Chunk.FileID)
	})

	t.Run("mime type filter", func(t *testing.T) {
		candidates, err := docs.SearchCandidates(ctx, domain.SearchFilters{MIMETypes: []string{"text/markdown"}})
		require.NoError(t, err)
		assert.Len(t, candidates, 2)
		for _, c := range candidates {
			assert.Equal(t, "file-md", c.Chunk.FileID)
		}
	})

	t.Run("modified after filter", func(t *testing.T) {
		candidates, err := docs.SearchCandidates(ctx, domain.SearchFilters{
			ModifiedAfter: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Len(t, candidates, 2)
		for _, c := range candidates {
			assert.Equal(t, "file-md", c.Chunk.FileID)
		}
	})
}

func TestSourceStore_SaveGetList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	sources := store.SourceStore()

	first := domain.Source{
		ID:        "src-1",
		Type:      "drive",
		Name:      "First",
		Config:    map[string]string{"folder_ids": "abc"},
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, sources.Save(ctx, first))
	require.NoError(t, sources.Save(ctx, domain.Source{
		ID:        "src-2",
		Type:      "drive",
		Name:      "Second",
		Config:    map[string]string{},
		CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}))

	got, err := sources.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "First", got.Name)
	assert.Equal(t, map[string]string{"folder_ids": "abc"}, got.Config)
	assert.Equal(t, int64(0), got.CursorVersion)
	assert.True(t, got.LastSyncAt.IsZero())

	// Re-saving updates mutable fields without touching the cursor.
	require.NoError(t, sources.AdvanceCursor(ctx, "src-1", "cur-1", 0))
	first.Name = "First Renamed"
	require.NoError(t, sources.Save(ctx, first))

	got, err = sources.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "First Renamed", got.Name)
	assert.Equal(t, "cur-1", got.Cursor)
	assert.Equal(t, int64(1), got.CursorVersion)

	list, err := sources.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "src-1", list[0].ID)
	assert.Equal(t, "src-2", list[1].ID)
}

func TestSourceStore_GetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SourceStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSourceStore_DeleteCascadesDocuments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedSource(t, store, "src-1")
	docs := store.DocumentStore()

	require.NoError(t, docs.ReplaceChunks(ctx, testDoc("src-1", "file-1", "Guide"), testChunks("file-1", 2)))
	require.NoError(t, store.SourceStore().Delete(ctx, "src-1"))

	_, err := docs.GetDocument(ctx, "file-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	chunks, err := docs.GetChunks(ctx, "file-1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSourceStore_AdvanceCursor(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedSource(t, store, "src-1")
	sources := store.SourceStore()

	require.NoError(t, sources.AdvanceCursor(ctx, "src-1", "cursor-1", 0))

	got, err := sources.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "cursor-1", got.Cursor)
	assert.Equal(t, int64(1), got.CursorVersion)
	assert.WithinDuration(t, time.Now(), got.LastSyncAt, 5*time.Second)

	// Stale expected version loses the CAS.
	err = sources.AdvanceCursor(ctx, "src-1", "cursor-2", 0)
	assert.ErrorIs(t, err, domain.ErrCursorConflict)

	got, err = sources.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "cursor-1", got.Cursor)
}

func TestSourceStore_AdvanceCursorUnknownSource(t *testing.T) {
	store := newTestStore(t)

	err := store.SourceStore().AdvanceCursor(context.Background(), "missing", "cursor-1", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSyncJobStore_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	jobs := store.SyncJobStore()

	job := &domain.SyncJob{
		ID:        "job-1",
		SourceID:  "src-1",
		Full:      true,
		State:     domain.JobPending,
		Stats:     domain.JobStats{DocumentsSeen: 5, FailedFiles: []string{"file-x"}},
		StartedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, jobs.Create(ctx, job))

	got, err := jobs.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "src-1", got.SourceID)
	assert.True(t, got.Full)
	assert.Equal(t, domain.JobPending, got.State)
	assert.Equal(t, 5, got.Stats.DocumentsSeen)
	assert.Equal(t, []string{"file-x"}, got.Stats.FailedFiles)
	assert.True(t, got.FinishedAt.IsZero())
}

func TestSyncJobStore_GetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SyncJobStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSyncJobStore_UpdateLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	jobs := store.SyncJobStore()

	job := &domain.SyncJob{ID: "job-1", SourceID: "src-1", State: domain.JobPending}
	require.NoError(t, jobs.Create(ctx, job))

	job.State = domain.JobRunning
	job.StartedAt = time.Now().UTC()
	require.NoError(t, jobs.Update(ctx, job))

	job.State = domain.JobCompleted
	job.Stats = domain.JobStats{DocumentsSeen: 3, DocumentsChanged: 3, ChunksWritten: 9}
	job.FinishedAt = time.Now().UTC()
	require.NoError(t, jobs.Update(ctx, job))

	got, err := jobs.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, got.State)
	assert.Equal(t, 9, got.Stats.ChunksWritten)
	assert.False(t, got.FinishedAt.IsZero())
}

func TestSyncJobStore_TerminalJobsAreImmutable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	jobs := store.SyncJobStore()

	job := &domain.SyncJob{ID: "job-1", SourceID: "src-1", State: domain.JobCompleted}
	require.NoError(t, jobs.Create(ctx, job))

	job.State = domain.JobRunning
	err := jobs.Update(ctx, job)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSyncJobStore_UpdateUnknownJob(t *testing.T) {
	store := newTestStore(t)

	err := store.SyncJobStore().Update(context.Background(), &domain.SyncJob{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSyncJobStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	jobs := store.SyncJobStore()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, jobs.Create(ctx, &domain.SyncJob{
		ID: "job-1", SourceID: "src-1", State: domain.JobCompleted, StartedAt: base,
	}))
	require.NoError(t, jobs.Create(ctx, &domain.SyncJob{
		ID: "job-2", SourceID: "src-1", State: domain.JobCompleted, StartedAt: base.Add(time.Hour),
	}))
	require.NoError(t, jobs.Create(ctx, &domain.SyncJob{
		ID: "job-3", SourceID: "src-2", State: domain.JobCompleted, StartedAt: base.Add(2 * time.Hour),
	}))

	all, err := jobs.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "job-3", all[0].ID)
	assert.Equal(t, "job-2", all[1].ID)
	assert.Equal(t, "job-1", all[2].ID)

	filtered, err := jobs.List(ctx, "src-1")
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, "job-2", filtered[0].ID)
	assert.Equal(t, "job-1", filtered[1].ID)
}

func TestFloat32BlobRoundTrip(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3e-7}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))

	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
