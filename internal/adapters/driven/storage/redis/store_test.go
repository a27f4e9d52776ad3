package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	store, err := NewStore(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func createDoc(t *testing.T, store *Store, userID, filename string) *domain.Document {
	t.Helper()
	doc := &domain.Document{UserID: userID, Filename: filename, Content: "content of " + filename}
	require.NoError(t, store.DocumentStore().Create(context.Background(), doc))
	return doc
}

func persistChunk(t *testing.T, store *Store, doc *domain.Document, pos int, vec []float32) {
	t.Helper()
	require.NoError(t, store.VectorStore().Persist(context.Background(), &domain.Chunk{
		DocumentID: doc.ID, UserID: doc.UserID, Position: pos, Text: "chunk", Vector: vec,
	}))
}

func TestNewStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewStore(context.Background(), Config{Addr: addr})

	assert.Error(t, err)
}

func TestNewStoreWithClient_DefaultPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	store := NewStoreWithClient(client, "")
	defer store.Close()

	createDoc(t, store, "u1", "a.txt")

	assert.True(t, mr.Exists("docchat:doc:1"))
}

func TestDocumentStore_CreateGetList(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	first := createDoc(t, store, "u1", "first.txt")
	createDoc(t, store, "u2", "theirs.txt")
	second := createDoc(t, store, "u1", "second.txt")

	got, err := store.DocumentStore().Get(ctx, "u1", first.ID)
	require.NoError(t, err)
	assert.Equal(t, "content of first.txt", got.Content)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = store.DocumentStore().Get(ctx, "u2", first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	docs, err := store.DocumentStore().List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, first.ID, docs[0].ID)
	assert.Equal(t, second.ID, docs[1].ID)
}

func TestDocumentStore_DeleteRemovesChunks(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()
	keep := createDoc(t, store, "u1", "keep.txt")
	drop := createDoc(t, store, "u1", "drop.txt")
	persistChunk(t, store, keep, 0, []float32{1, 0})
	persistChunk(t, store, drop, 0, []float32{0, 1})
	persistChunk(t, store, drop, 1, []float32{1, 1})

	require.NoError(t, store.DocumentStore().Delete(ctx, "u1", drop.ID))

	chunks, err := store.VectorStore().FetchAllForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, keep.ID, chunks[0].DocumentID)
	assert.False(t, mr.Exists(store.docKey(drop.ID)))
	assert.False(t, mr.Exists(store.docChunksKey(drop.ID)))
}

func TestDocumentStore_DeleteOtherUser(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	doc := createDoc(t, store, "owner", "a.txt")

	err := store.DocumentStore().Delete(ctx, "intruder", doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.DocumentStore().Get(ctx, "owner", doc.ID)
	assert.NoError(t, err)
}

func TestDocumentStore_DeleteAll(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	mine := createDoc(t, store, "u1", "a.txt")
	theirs := createDoc(t, store, "u2", "b.txt")
	persistChunk(t, store, mine, 0, []float32{1})
	persistChunk(t, store, theirs, 0, []float32{1})

	require.NoError(t, store.DocumentStore().DeleteAll(ctx, "u1"))

	docs, _ := store.DocumentStore().List(ctx, "u1")
	assert.Empty(t, docs)
	chunks, _ := store.VectorStore().FetchAllForUser(ctx, "u1")
	assert.Empty(t, chunks)
	chunks, _ = store.VectorStore().FetchAllForUser(ctx, "u2")
	assert.Len(t, chunks, 1)
}

func TestVectorStore_PersistAndFetch(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	doc := createDoc(t, store, "u1", "a.txt")
	vec := []float32{0.5, -0.25, 8}

	chunk := &domain.Chunk{DocumentID: doc.ID, UserID: "u1", Position: 3, Text: "hello", Vector: vec}
	require.NoError(t, store.VectorStore().Persist(ctx, chunk))
	assert.NotZero(t, chunk.ID)

	chunks, err := store.VectorStore().FetchAllForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, vec, chunks[0].Vector)
	assert.Equal(t, 3, chunks[0].Position)
	assert.Equal(t, "hello", chunks[0].Text)
	assert.Equal(t, doc.ID, chunks[0].DocumentID)
}

func TestVectorStore_PersistRequiresOwnedDocument(t *testing.T) {
	store, _ := setupTestStore(t)
	doc := createDoc(t, store, "owner", "a.txt")

	err := store.VectorStore().Persist(context.Background(), &domain.Chunk{
		DocumentID: doc.ID, UserID: "intruder", Text: "x", Vector: []float32{1},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.VectorStore().Persist(context.Background(), &domain.Chunk{
		DocumentID: 404, UserID: "owner", Text: "x", Vector: []float32{1},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVectorStore_CountAndDeleteForDocument(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	a := createDoc(t, store, "u1", "a.txt")
	b := createDoc(t, store, "u1", "b.txt")
	persistChunk(t, store, a, 0, []float32{1})
	persistChunk(t, store, a, 1, []float32{1})
	persistChunk(t, store, b, 0, []float32{1})

	n, err := store.VectorStore().CountForDocument(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = store.VectorStore().CountForDocument(ctx, "u2", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, store.VectorStore().DeleteForDocument(ctx, "u1", a.ID))

	n, _ = store.VectorStore().CountForDocument(ctx, "u1", a.ID)
	assert.Equal(t, 0, n)
	chunks, _ := store.VectorStore().FetchAllForUser(ctx, "u1")
	assert.Len(t, chunks, 1)
}

func TestVectorStore_ReplaceForDocument(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	a := createDoc(t, store, "u1", "a.txt")
	b := createDoc(t, store, "u1", "b.txt")
	persistChunk(t, store, a, 0, []float32{1})
	persistChunk(t, store, a, 1, []float32{1})
	persistChunk(t, store, b, 0, []float32{1})

	fresh := []domain.Chunk{
		{Position: 0, Text: "new-0", Vector: []float32{0, 1}},
		{Position: 2, Text: "new-2", Vector: []float32{0, 1}},
	}
	require.NoError(t, store.VectorStore().ReplaceForDocument(ctx, "u1", a.ID, fresh))
	assert.NotEqual(t, fresh[0].ID, fresh[1].ID)

	n, err := store.VectorStore().CountForDocument(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	chunks, err := store.VectorStore().FetchAllForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "new-0", chunks[1].Text)
	assert.Equal(t, "new-2", chunks[2].Text)
	assert.Equal(t, []float32{0, 1}, chunks[2].Vector)

	err = store.VectorStore().ReplaceForDocument(ctx, "u2", a.ID, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVectorStore_DeleteAllForUser(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	doc := createDoc(t, store, "u1", "a.txt")
	persistChunk(t, store, doc, 0, []float32{1})

	require.NoError(t, store.VectorStore().DeleteAllForUser(ctx, "u1"))

	chunks, _ := store.VectorStore().FetchAllForUser(ctx, "u1")
	assert.Empty(t, chunks)
	docs, _ := store.DocumentStore().List(ctx, "u1")
	assert.Len(t, docs, 1)
}

func TestMessageStore_AppendListClear(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	ms := store.MessageStore()

	require.NoError(t, ms.Append(ctx, &domain.Message{UserID: "u1", Text: "hi", Sender: domain.SenderUser}))
	require.NoError(t, ms.Append(ctx, &domain.Message{UserID: "u1", Text: "hello", Sender: domain.SenderBot}))

	msgs, err := ms.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Text)
	assert.Equal(t, domain.SenderBot, msgs[1].Sender)
	assert.Equal(t, "u1", msgs[1].UserID)

	require.NoError(t, ms.Clear(ctx, "u1"))
	msgs, _ = ms.List(ctx, "u1")
	assert.Empty(t, msgs)
}

func TestMessageStore_RejectsUnknownSender(t *testing.T) {
	store, _ := setupTestStore(t)

	err := store.MessageStore().Append(context.Background(), &domain.Message{UserID: "u1", Sender: "system"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVectorEncoding(t *testing.T) {
	vec := []float32{1, -2.5, 0.125}

	assert.Equal(t, vec, decodeVector(encodeVector(vec)))
	assert.Nil(t, decodeVector([]byte{1, 2}))
}
