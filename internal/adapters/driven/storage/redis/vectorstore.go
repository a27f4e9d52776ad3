package redis

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

var _ driven.VectorStore = (*vectorStore)(nil)

type vectorStore struct {
	store *Store
}

// Persist stores a chunk. The WATCH on the document key makes the insert
// fail if the document is deleted concurrently.
func (v *vectorStore) Persist(ctx context.Context, chunk *domain.Chunk) error {
	s := v.store
	docKey := s.docKey(chunk.DocumentID)

	id, err := s.client.Incr(ctx, s.seqKey("chunk")).Result()
	if err != nil {
		return fmt.Errorf("allocating chunk id: %w", err)
	}
	now := time.Now().UTC()

	err = s.watch(ctx, func(tx *goredis.Tx) error {
		owner, err := tx.HGet(ctx, docKey, "user_id").Result()
		if errors.Is(err, goredis.Nil) || (err == nil && owner != chunk.UserID) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("reading document: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			s.queueChunk(ctx, p, id, chunk, now)
			return nil
		})
		return err
	}, docKey)
	if err != nil {
		return err
	}

	chunk.ID = id
	chunk.CreatedAt = now
	return nil
}

func (v *vectorStore) FetchAllForUser(ctx context.Context, userID string) ([]domain.Chunk, error) {
	s := v.store
	ids, err := s.client.ZRange(ctx, s.userChunksKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}

	cmds := make([]*goredis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(p goredis.Pipeliner) error {
		for i, raw := range ids {
			id, _ := strconv.ParseInt(raw, 10, 64)
			cmds[i] = p.HGetAll(ctx, s.chunkKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading chunks: %w", err)
	}

	chunks := make([]domain.Chunk, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		id, _ := strconv.ParseInt(ids[i], 10, 64)
		chunks = append(chunks, decodeChunk(id, fields))
	}
	return chunks, nil
}

func (v *vectorStore) CountForDocument(ctx context.Context, userID string, documentID int64) (int, error) {
	s := v.store
	owner, err := s.client.HGet(ctx, s.docKey(documentID), "user_id").Result()
	if errors.Is(err, goredis.Nil) || (err == nil && owner != userID) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading document: %w", err)
	}

	n, err := s.client.SCard(ctx, s.docChunksKey(documentID)).Result()
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return int(n), nil
}

func (v *vectorStore) DeleteForDocument(ctx context.Context, userID string, documentID int64) error {
	s := v.store
	docKey := s.docKey(documentID)
	setKey := s.docChunksKey(documentID)

	return s.watch(ctx, func(tx *goredis.Tx) error {
		owner, err := tx.HGet(ctx, docKey, "user_id").Result()
		if errors.Is(err, goredis.Nil) || (err == nil && owner != userID) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading document: %w", err)
		}

		chunkIDs, err := tx.SMembers(ctx, setKey).Result()
		if err != nil {
			return fmt.Errorf("reading chunk ids: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			s.queueChunkRemoval(ctx, p, userID, chunkIDs)
			p.Del(ctx, setKey)
			return nil
		})
		return err
	}, docKey, setKey)
}

// ReplaceForDocument removes the old chunk records and writes the new ones
// in a single MULTI/EXEC.
func (v *vectorStore) ReplaceForDocument(
	ctx context.Context,
	userID string,
	documentID int64,
	chunks []domain.Chunk,
) error {
	s := v.store
	docKey := s.docKey(documentID)
	setKey := s.docChunksKey(documentID)

	firstID := int64(1)
	if len(chunks) > 0 {
		last, err := s.client.IncrBy(ctx, s.seqKey("chunk"), int64(len(chunks))).Result()
		if err != nil {
			return fmt.Errorf("allocating chunk ids: %w", err)
		}
		firstID = last - int64(len(chunks)) + 1
	}
	now := time.Now().UTC()

	err := s.watch(ctx, func(tx *goredis.Tx) error {
		owner, err := tx.HGet(ctx, docKey, "user_id").Result()
		if errors.Is(err, goredis.Nil) || (err == nil && owner != userID) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("reading document: %w", err)
		}

		oldIDs, err := tx.SMembers(ctx, setKey).Result()
		if err != nil {
			return fmt.Errorf("reading chunk ids: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			s.queueChunkRemoval(ctx, p, userID, oldIDs)
			p.Del(ctx, setKey)
			for i := range chunks {
				c := chunks[i]
				c.UserID = userID
				c.DocumentID = documentID
				s.queueChunk(ctx, p, firstID+int64(i), &c, now)
			}
			return nil
		})
		return err
	}, docKey, setKey)
	if err != nil {
		return err
	}

	for i := range chunks {
		chunks[i].ID = firstID + int64(i)
		chunks[i].UserID = userID
		chunks[i].DocumentID = documentID
		chunks[i].CreatedAt = now
	}
	return nil
}

func (v *vectorStore) DeleteAllForUser(ctx context.Context, userID string) error {
	docs, err := v.store.DocumentStore().List(ctx, userID)
	if err != nil {
		return err
	}
	for i := range docs {
		if err := v.DeleteForDocument(ctx, userID, docs[i].ID); err != nil {
			return fmt.Errorf("deleting chunks of document %d: %w", docs[i].ID, err)
		}
	}
	return nil
}

// queueChunk writes a chunk hash and indexes it by document and user.
func (s *Store) queueChunk(ctx context.Context, p goredis.Pipeliner, id int64, chunk *domain.Chunk, now time.Time) {
	p.HSet(ctx, s.chunkKey(id),
		"document_id", chunk.DocumentID,
		"user_id", chunk.UserID,
		"position", chunk.Position,
		"text", chunk.Text,
		"vector", encodeVector(chunk.Vector),
		"created_at", now.Format(time.RFC3339Nano),
	)
	p.SAdd(ctx, s.docChunksKey(chunk.DocumentID), id)
	p.ZAdd(ctx, s.userChunksKey(chunk.UserID), goredis.Z{Score: float64(id), Member: id})
}

func decodeChunk(id int64, fields map[string]string) domain.Chunk {
	docID, _ := strconv.ParseInt(fields["document_id"], 10, 64)
	pos, _ := strconv.Atoi(fields["position"])
	created, _ := time.Parse(time.RFC3339Nano, fields["created_at"])
	return domain.Chunk{
		ID:         id,
		DocumentID: docID,
		UserID:     fields["user_id"],
		Position:   pos,
		Text:       fields["text"],
		Vector:     decodeVector([]byte(fields["vector"])),
		CreatedAt:  created,
	}
}

// encodeVector packs v as little-endian float32s, matching the SQLite BLOB format.
func encodeVector(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector unpacks a vector; corrupt lengths decode to nil.
func decodeVector(data []byte) []float32 {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil
	}
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}
