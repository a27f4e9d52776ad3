package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

var _ driven.DocumentStore = (*documentStore)(nil)

type documentStore struct {
	store *Store
}

func (d *documentStore) Create(ctx context.Context, doc *domain.Document) error {
	s := d.store
	id, err := s.client.Incr(ctx, s.seqKey("doc")).Result()
	if err != nil {
		return fmt.Errorf("allocating document id: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.HSet(ctx, s.docKey(id),
			"user_id", doc.UserID,
			"filename", doc.Filename,
			"content", doc.Content,
			"created_at", now.Format(time.RFC3339Nano),
		)
		p.ZAdd(ctx, s.userDocsKey(doc.UserID), goredis.Z{Score: float64(id), Member: id})
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	doc.ID = id
	doc.CreatedAt = now
	return nil
}

func (d *documentStore) Get(ctx context.Context, userID string, id int64) (*domain.Document, error) {
	fields, err := d.store.client.HGetAll(ctx, d.store.docKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	if len(fields) == 0 || fields["user_id"] != userID {
		return nil, domain.ErrNotFound
	}
	return decodeDocument(id, fields), nil
}

func (d *documentStore) List(ctx context.Context, userID string) ([]domain.Document, error) {
	s := d.store
	ids, err := s.client.ZRange(ctx, s.userDocsKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	cmds := make([]*goredis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(p goredis.Pipeliner) error {
		for i, raw := range ids {
			id, _ := strconv.ParseInt(raw, 10, 64)
			cmds[i] = p.HGetAll(ctx, s.docKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading documents: %w", err)
	}

	docs := make([]domain.Document, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		id, _ := strconv.ParseInt(ids[i], 10, 64)
		docs = append(docs, *decodeDocument(id, fields))
	}
	return docs, nil
}

func (d *documentStore) Delete(ctx context.Context, userID string, id int64) error {
	s := d.store
	docKey := s.docKey(id)

	return s.watch(ctx, func(tx *goredis.Tx) error {
		owner, err := tx.HGet(ctx, docKey, "user_id").Result()
		if errors.Is(err, goredis.Nil) || (err == nil && owner != userID) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("reading document: %w", err)
		}

		chunkIDs, err := tx.SMembers(ctx, s.docChunksKey(id)).Result()
		if err != nil {
			return fmt.Errorf("reading chunk ids: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			s.queueChunkRemoval(ctx, p, userID, chunkIDs)
			p.Del(ctx, docKey, s.docChunksKey(id))
			p.ZRem(ctx, s.userDocsKey(userID), id)
			return nil
		})
		return err
	}, docKey, s.docChunksKey(id))
}

func (d *documentStore) DeleteAll(ctx context.Context, userID string) error {
	docs, err := d.List(ctx, userID)
	if err != nil {
		return err
	}
	for i := range docs {
		if err := d.Delete(ctx, userID, docs[i].ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("deleting document %d: %w", docs[i].ID, err)
		}
	}
	return nil
}

// queueChunkRemoval adds commands deleting the given chunks to p.
func (s *Store) queueChunkRemoval(ctx context.Context, p goredis.Pipeliner, userID string, chunkIDs []string) {
	if len(chunkIDs) == 0 {
		return
	}
	keys := make([]string, len(chunkIDs))
	members := make([]any, len(chunkIDs))
	for i, raw := range chunkIDs {
		id, _ := strconv.ParseInt(raw, 10, 64)
		keys[i] = s.chunkKey(id)
		members[i] = raw
	}
	p.Del(ctx, keys...)
	p.ZRem(ctx, s.userChunksKey(userID), members...)
}

func decodeDocument(id int64, fields map[string]string) *domain.Document {
	created, _ := time.Parse(time.RFC3339Nano, fields["created_at"])
	return &domain.Document{
		ID:        id,
		UserID:    fields["user_id"],
		Filename:  fields["filename"],
		Content:   fields["content"],
		CreatedAt: created,
	}
}
