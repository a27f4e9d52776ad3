package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func createTestDocument(t *testing.T, store *Store, userID, filename string) *domain.Document {
	t.Helper()
	doc := &domain.Document{UserID: userID, Filename: filename, Content: "content of " + filename}
	require.NoError(t, store.DocumentStore().Create(context.Background(), doc))
	return doc
}

func persistTestChunk(t *testing.T, store *Store, doc *domain.Document, pos int, vec []float32) *domain.Chunk {
	t.Helper()
	chunk := &domain.Chunk{
		DocumentID: doc.ID,
		UserID:     doc.UserID,
		Position:   pos,
		Text:       doc.Filename + "#" + string(rune('a'+pos)),
		Vector:     vec,
	}
	require.NoError(t, store.VectorStore().Persist(context.Background(), chunk))
	return chunk
}

// ==================== Store Creation Tests ====================

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "docchat.db"), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_RecordsSchemaVersion(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.SchemaVersion(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestNewStore_ReopenIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	doc := &domain.Document{UserID: "u1", Filename: "a.txt", Content: "hello"}
	require.NoError(t, first.DocumentStore().Create(context.Background(), doc))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.DocumentStore().Get(context.Background(), "u1", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)

	version, err := second.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

// ==================== Document Store Tests ====================

func TestDocumentStore_CreateAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	doc := createTestDocument(t, store, "u1", "notes.txt")
	assert.NotZero(t, doc.ID)
	assert.False(t, doc.CreatedAt.IsZero())

	got, err := store.DocumentStore().Get(ctx, "u1", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", got.Filename)
	assert.Equal(t, "content of notes.txt", got.Content)
	assert.Equal(t, "u1", got.UserID)
}

func TestDocumentStore_GetOtherUser(t *testing.T) {
	store := setupTestStore(t)
	doc := createTestDocument(t, store, "owner", "a.txt")

	_, err := store.DocumentStore().Get(context.Background(), "intruder", doc.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_List(t *testing.T) {
	store := setupTestStore(t)
	createTestDocument(t, store, "u1", "first.txt")
	createTestDocument(t, store, "u2", "theirs.txt")
	createTestDocument(t, store, "u1", "second.txt")

	docs, err := store.DocumentStore().List(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "first.txt", docs[0].Filename)
	assert.Equal(t, "second.txt", docs[1].Filename)
}

func TestDocumentStore_ListEmpty(t *testing.T) {
	store := setupTestStore(t)

	docs, err := store.DocumentStore().List(context.Background(), "nobody")

	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestDocumentStore_DeleteCascadesToChunks(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	keep := createTestDocument(t, store, "u1", "keep.txt")
	drop := createTestDocument(t, store, "u1", "drop.txt")
	persistTestChunk(t, store, keep, 0, []float32{1, 0})
	persistTestChunk(t, store, drop, 0, []float32{0, 1})
	persistTestChunk(t, store, drop, 1, []float32{1, 1})

	require.NoError(t, store.DocumentStore().Delete(ctx, "u1", drop.ID))

	chunks, err := store.VectorStore().FetchAllForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, keep.ID, chunks[0].DocumentID)

	_, err = store.DocumentStore().Get(ctx, "u1", drop.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_DeleteOtherUserLeavesData(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	doc := createTestDocument(t, store, "owner", "a.txt")
	persistTestChunk(t, store, doc, 0, []float32{1})

	err := store.DocumentStore().Delete(ctx, "intruder", doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := store.VectorStore().CountForDocument(ctx, "owner", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDocumentStore_DeleteAll(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	mine := createTestDocument(t, store, "u1", "a.txt")
	theirs := createTestDocument(t, store, "u2", "b.txt")
	persistTestChunk(t, store, mine, 0, []float32{1})
	persistTestChunk(t, store, theirs, 0, []float32{1})

	require.NoError(t, store.DocumentStore().DeleteAll(ctx, "u1"))

	docs, _ := store.DocumentStore().List(ctx, "u1")
	assert.Empty(t, docs)
	chunks, _ := store.VectorStore().FetchAllForUser(ctx, "u1")
	assert.Empty(t, chunks)

	docs, _ = store.DocumentStore().List(ctx, "u2")
	assert.Len(t, docs, 1)
	chunks, _ = store.VectorStore().FetchAllForUser(ctx, "u2")
	assert.Len(t, chunks, 1)
}

// ==================== Vector Store Tests ====================

func TestVectorStore_PersistAndFetch(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	doc := createTestDocument(t, store, "u1", "a.txt")
	vec := []float32{0.25, -1.5, 3.125, 0}

	chunk := persistTestChunk(t, store, doc, 0, vec)
	assert.NotZero(t, chunk.ID)

	chunks, err := store.VectorStore().FetchAllForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, vec, chunks[0].Vector)
	assert.Equal(t, doc.ID, chunks[0].DocumentID)
	assert.Equal(t, "u1", chunks[0].UserID)
	assert.Equal(t, chunk.Text, chunks[0].Text)
}

func TestVectorStore_PersistRequiresOwnedDocument(t *testing.T) {
	store := setupTestStore(t)
	doc := createTestDocument(t, store, "owner", "a.txt")

	err := store.VectorStore().Persist(context.Background(), &domain.Chunk{
		DocumentID: doc.ID, UserID: "intruder", Text: "x", Vector: []float32{1},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.VectorStore().Persist(context.Background(), &domain.Chunk{
		DocumentID: 9999, UserID: "owner", Text: "x", Vector: []float32{1},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVectorStore_FetchIsScopedByUser(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	alice := createTestDocument(t, store, "alice", "a.txt")
	bob := createTestDocument(t, store, "bob", "b.txt")
	persistTestChunk(t, store, alice, 0, []float32{1, 0})
	persistTestChunk(t, store, bob, 0, []float32{0, 1})

	chunks, err := store.VectorStore().FetchAllForUser(ctx, "bob")

	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "bob", chunks[0].UserID)
}

func TestVectorStore_MixedDimensions(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	doc := createTestDocument(t, store, "u1", "a.txt")
	persistTestChunk(t, store, doc, 0, []float32{1, 0})
	persistTestChunk(t, store, doc, 1, []float32{1, 0, 0})

	chunks, err := store.VectorStore().FetchAllForUser(ctx, "u1")

	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 2, chunks[0].Dimensions())
	assert.Equal(t, 3, chunks[1].Dimensions())
}

func TestVectorStore_CountAndDeleteForDocument(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	a := createTestDocument(t, store, "u1", "a.txt")
	b := createTestDocument(t, store, "u1", "b.txt")
	persistTestChunk(t, store, a, 0, []float32{1})
	persistTestChunk(t, store, a, 1, []float32{1})
	persistTestChunk(t, store, b, 0, []float32{1})

	n, err := store.VectorStore().CountForDocument(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, store.VectorStore().DeleteForDocument(ctx, "u1", a.ID))

	n, _ = store.VectorStore().CountForDocument(ctx, "u1", a.ID)
	assert.Equal(t, 0, n)
	n, _ = store.VectorStore().CountForDocument(ctx, "u1", b.ID)
	assert.Equal(t, 1, n)

	_, err = store.DocumentStore().Get(ctx, "u1", a.ID)
	assert.NoError(t, err)
}

func TestVectorStore_ReplaceForDocument(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	a := createTestDocument(t, store, "u1", "a.txt")
	b := createTestDocument(t, store, "u1", "b.txt")
	persistTestChunk(t, store, a, 0, []float32{1})
	persistTestChunk(t, store, a, 1, []float32{1})
	persistTestChunk(t, store, b, 0, []float32{1})

	fresh := []domain.Chunk{{Position: 1, Text: "rebuilt", Vector: []float32{0.5, 0.5}}}
	require.NoError(t, store.VectorStore().ReplaceForDocument(ctx, "u1", a.ID, fresh))
	assert.NotZero(t, fresh[0].ID)

	chunks, err := store.VectorStore().FetchAllForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, b.ID, chunks[0].DocumentID)
	assert.Equal(t, "rebuilt", chunks[1].Text)
	assert.Equal(t, []float32{0.5, 0.5}, chunks[1].Vector)
}

func TestVectorStore_ReplaceForDocumentOtherUser(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	a := createTestDocument(t, store, "u1", "a.txt")
	persistTestChunk(t, store, a, 0, []float32{1})

	err := store.VectorStore().ReplaceForDocument(ctx, "u2", a.ID, []domain.Chunk{{Text: "x", Vector: []float32{1}}})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	n, _ := store.VectorStore().CountForDocument(ctx, "u1", a.ID)
	assert.Equal(t, 1, n)
}

func TestVectorStore_DeleteAllForUser(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	mine := createTestDocument(t, store, "u1", "a.txt")
	theirs := createTestDocument(t, store, "u2", "b.txt")
	persistTestChunk(t, store, mine, 0, []float32{1})
	persistTestChunk(t, store, theirs, 0, []float32{1})

	require.NoError(t, store.VectorStore().DeleteAllForUser(ctx, "u1"))

	chunks, _ := store.VectorStore().FetchAllForUser(ctx, "u1")
	assert.Empty(t, chunks)
	chunks, _ = store.VectorStore().FetchAllForUser(ctx, "u2")
	assert.Len(t, chunks, 1)
}

func TestVectorStore_ConcurrentPersist(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	doc := createTestDocument(t, store, "u1", "a.txt")

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(pos int) {
			defer wg.Done()
			errs <- store.VectorStore().Persist(ctx, &domain.Chunk{
				DocumentID: doc.ID, UserID: "u1", Position: pos, Text: "t", Vector: []float32{1, 2},
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	n, err := store.VectorStore().CountForDocument(ctx, "u1", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}

// ==================== Message Store Tests ====================

func TestMessageStore_AppendListClear(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	ms := store.MessageStore()

	require.NoError(t, ms.Append(ctx, &domain.Message{UserID: "u1", Text: "hi", Sender: domain.SenderUser}))
	require.NoError(t, ms.Append(ctx, &domain.Message{UserID: "u2", Text: "other", Sender: domain.SenderUser}))
	require.NoError(t, ms.Append(ctx, &domain.Message{UserID: "u1", Text: "hello", Sender: domain.SenderBot}))

	msgs, err := ms.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Text)
	assert.Equal(t, domain.SenderUser, msgs[0].Sender)
	assert.Equal(t, "hello", msgs[1].Text)
	assert.Equal(t, domain.SenderBot, msgs[1].Sender)

	require.NoError(t, ms.Clear(ctx, "u1"))
	msgs, _ = ms.List(ctx, "u1")
	assert.Empty(t, msgs)
	msgs, _ = ms.List(ctx, "u2")
	assert.Len(t, msgs, 1)
}

func TestMessageStore_RejectsUnknownSender(t *testing.T) {
	store := setupTestStore(t)

	err := store.MessageStore().Append(context.Background(), &domain.Message{
		UserID: "u1", Text: "x", Sender: "system",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ==================== Helper Function Tests ====================

func TestVectorEncoding(t *testing.T) {
	vec := []float32{1.5, -2.25, 0, 3.4028235e38}

	assert.Equal(t, vec, bytesToFloat32Slice(float32SliceToBytes(vec)))
	assert.Len(t, float32SliceToBytes(vec), 16)
}

func TestBytesToFloat32Slice_Corrupt(t *testing.T) {
	assert.Nil(t, bytesToFloat32Slice(nil))
	assert.Nil(t, bytesToFloat32Slice([]byte{1, 2, 3}))
	assert.Nil(t, bytesToFloat32Slice([]byte{1, 2, 3, 4, 5}))
}
