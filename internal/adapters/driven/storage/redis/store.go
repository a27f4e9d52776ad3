// Package redis provides a Redis-backed implementation of the storage ports,
// for deployments where several processes share one document corpus.
//
// Layout (prefix "docchat:"):
//
//	seq:{doc,chunk,msg}      INCR counters for ids
//	doc:<id>                 HASH user_id filename content created_at
//	doc:<id>:chunks          SET of chunk ids
//	chunk:<id>               HASH document_id user_id position text vector created_at
//	user:<uid>:docs          ZSET of document ids scored by id
//	user:<uid>:chunks        ZSET of chunk ids scored by id
//	user:<uid>:messages      LIST of JSON-encoded messages
//
// Writes that must be consistent with a document's existence run under
// WATCH on the document key.
package redis

import (
	"context"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

const defaultPrefix = "docchat:"

// maxWatchRetries bounds optimistic-lock retries on contended documents.
const maxWatchRetries = 5

// Config holds connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key. Defaults to "docchat:".
	Prefix string
}

// Store wraps a Redis client and hands out storage port views.
type Store struct {
	client *goredis.Client
	prefix string
}

// NewStore connects to Redis and verifies the connection with PING.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}

	return newStore(client, cfg.Prefix), nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client *goredis.Client, prefix string) *Store {
	return newStore(client, prefix)
}

func newStore(client *goredis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

// DocumentStore returns a DocumentStore view of this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// VectorStore returns a VectorStore view of this store.
func (s *Store) VectorStore() driven.VectorStore {
	return &vectorStore{store: s}
}

// MessageStore returns a MessageStore view of this store.
func (s *Store) MessageStore() driven.MessageStore {
	return &messageStore{store: s}
}

// ==================== Keys ====================

func (s *Store) seqKey(kind string) string { return s.prefix + "seq:" + kind }

func (s *Store) docKey(id int64) string { return s.prefix + "doc:" + strconv.FormatInt(id, 10) }

func (s *Store) docChunksKey(id int64) string { return s.docKey(id) + ":chunks" }

func (s *Store) chunkKey(id int64) string { return s.prefix + "chunk:" + strconv.FormatInt(id, 10) }

func (s *Store) userDocsKey(userID string) string { return s.prefix + "user:" + userID + ":docs" }

func (s *Store) userChunksKey(userID string) string { return s.prefix + "user:" + userID + ":chunks" }

func (s *Store) userMessagesKey(userID string) string {
	return s.prefix + "user:" + userID + ":messages"
}

// watch runs fn under WATCH keys, retrying when another client modified them.
func (s *Store) watch(ctx context.Context, fn func(tx *goredis.Tx) error, keys ...string) error {
	var err error
	for i := 0; i < maxWatchRetries; i++ {
		err = s.client.Watch(ctx, fn, keys...)
		if err != goredis.TxFailedErr {
			return err
		}
	}
	return err
}
