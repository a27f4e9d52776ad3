package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// dbFileName is the database file inside the data directory.
const dbFileName = "docchat.db"

// Store is a SQLite database exposing the storage ports through view types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database in dataDir and applies pending
// migrations. If dataDir is empty, defaults to ~/.docchat/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docchat", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)

	// Pragmas in the DSN apply to every pooled connection.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
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

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// migrate applies every NNN_*.up.sql newer than the recorded version, each
// in its own transaction together with its schema_migrations row.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	current, err := s.SchemaVersion(context.Background())
	if err != nil {
		return err
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		logger.Debug("Applied migration %s", name)
	}

	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// Create inserts a document and assigns its ID and creation time.
func (d *documentStore) Create(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	res, err := d.store.db.ExecContext(ctx, `
		INSERT INTO documents (user_id, filename, content, created_at)
		VALUES (?, ?, ?, ?)
	`, doc.UserID, doc.Filename, doc.Content, now)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading document id: %w", err)
	}
	doc.ID = id
	doc.CreatedAt = now
	return nil
}

// Get retrieves one of the user's documents.
func (d *documentStore) Get(ctx context.Context, userID string, id int64) (*domain.Document, error) {
	row := d.store.db.QueryRowContext(ctx, `
		SELECT id, user_id, filename, content, created_at
		FROM documents WHERE id = ? AND user_id = ?
	`, id, userID)

	var doc domain.Document
	if err := row.Scan(&doc.ID, &doc.UserID, &doc.Filename, &doc.Content, &doc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return &doc, nil
}

// List returns the user's documents in upload order.
func (d *documentStore) List(ctx context.Context, userID string) ([]domain.Document, error) {
	rows, err := d.store.db.QueryContext(ctx, `
		SELECT id, user_id, filename, content, created_at
		FROM documents WHERE user_id = ?
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(&doc.ID, &doc.UserID, &doc.Filename, &doc.Content, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// Delete removes a document and its chunks in one transaction.
func (d *documentStore) Delete(ctx context.Context, userID string, id int64) error {
	tx, err := d.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM chunks WHERE document_id = ? AND user_id = ?", id, userID); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DeleteAll removes every document and chunk the user owns.
func (d *documentStore) DeleteAll(ctx context.Context, userID string) error {
	tx, err := d.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("deleting documents: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ==================== Vector Store ====================

// vectorStore implements driven.VectorStore.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Persist inserts a chunk. The owning document must exist and belong to
// chunk.UserID, otherwise domain.ErrNotFound is returned.
func (v *vectorStore) Persist(ctx context.Context, chunk *domain.Chunk) error {
	now := time.Now().UTC()
	res, err := v.store.db.ExecContext(ctx, `
		INSERT INTO chunks (document_id, user_id, position, text, vector, created_at)
		SELECT id, user_id, ?, ?, ?, ?
		FROM documents WHERE id = ? AND user_id = ?
	`, chunk.Position, chunk.Text, float32SliceToBytes(chunk.Vector), now, chunk.DocumentID, chunk.UserID)
	if err != nil {
		return fmt.Errorf("saving chunk: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving chunk: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading chunk id: %w", err)
	}
	chunk.ID = id
	chunk.CreatedAt = now
	return nil
}

// FetchAllForUser returns every chunk the user owns in insertion order.
func (v *vectorStore) FetchAllForUser(ctx context.Context, userID string) ([]domain.Chunk, error) {
	rows, err := v.store.db.QueryContext(ctx, `
		SELECT id, document_id, user_id, position, text, vector, created_at
		FROM chunks WHERE user_id = ?
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	chunks := make([]domain.Chunk, 0)
	for rows.Next() {
		var c domain.Chunk
		var blob []byte
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.UserID, &c.Position, &c.Text, &blob, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		c.Vector = bytesToFloat32Slice(blob)
		if c.Vector == nil {
			logger.Debug("Chunk %d has an unreadable vector (%d bytes)", c.ID, len(blob))
		}
		chunks = append(chunks, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// CountForDocument returns the number of chunks stored for a document.
func (v *vectorStore) CountForDocument(ctx context.Context, userID string, documentID int64) (int, error) {
	var n int
	row := v.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE document_id = ? AND user_id = ?", documentID, userID)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// DeleteForDocument removes a document's chunks, keeping the document.
func (v *vectorStore) DeleteForDocument(ctx context.Context, userID string, documentID int64) error {
	_, err := v.store.db.ExecContext(ctx,
		"DELETE FROM chunks WHERE document_id = ? AND user_id = ?", documentID, userID)
	if err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// ReplaceForDocument swaps a document's chunks inside one transaction.
func (v *vectorStore) ReplaceForDocument(
	ctx context.Context,
	userID string,
	documentID int64,
	chunks []domain.Chunk,
) error {
	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var owned int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE id = ? AND user_id = ?", documentID, userID).Scan(&owned)
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}
	if owned == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM chunks WHERE document_id = ? AND user_id = ?", documentID, userID); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}

	now := time.Now().UTC()
	for i := range chunks {
		c := &chunks[i]
		res, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (document_id, user_id, position, text, vector, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, documentID, userID, c.Position, c.Text, float32SliceToBytes(c.Vector), now)
		if err != nil {
			return fmt.Errorf("saving chunk %d: %w", c.Position, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading chunk id: %w", err)
		}
		c.ID = id
		c.UserID = userID
		c.DocumentID = documentID
		c.CreatedAt = now
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DeleteAllForUser removes every chunk the user owns.
func (v *vectorStore) DeleteAllForUser(ctx context.Context, userID string) error {
	if _, err := v.store.db.ExecContext(ctx, "DELETE FROM chunks WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// ==================== Message Store ====================

// messageStore implements driven.MessageStore.
type messageStore struct {
	store *Store
}

var _ driven.MessageStore = (*messageStore)(nil)

// Append records a message and assigns its ID and time.
func (m *messageStore) Append(ctx context.Context, msg *domain.Message) error {
	if !msg.Sender.IsValid() {
		return fmt.Errorf("%w: sender %q", domain.ErrInvalidInput, msg.Sender)
	}

	now := time.Now().UTC()
	res, err := m.store.db.ExecContext(ctx, `
		INSERT INTO messages (user_id, text, sender, created_at)
		VALUES (?, ?, ?, ?)
	`, msg.UserID, msg.Text, string(msg.Sender), now)
	if err != nil {
		return fmt.Errorf("saving message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading message id: %w", err)
	}
	msg.ID = id
	msg.CreatedAt = now
	return nil
}

// List returns the user's messages oldest first.
func (m *messageStore) List(ctx context.Context, userID string) ([]domain.Message, error) {
	rows, err := m.store.db.QueryContext(ctx, `
		SELECT id, user_id, text, sender, created_at
		FROM messages WHERE user_id = ?
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	msgs := make([]domain.Message, 0)
	for rows.Next() {
		var msg domain.Message
		var sender string
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Text, &sender, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msg.Sender = domain.Sender(sender)
		msgs = append(msgs, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}
	return msgs, nil
}

// Clear removes the user's messages.
func (m *messageStore) Clear(ctx context.Context, userID string) error {
	if _, err := m.store.db.ExecContext(ctx, "DELETE FROM messages WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("deleting messages: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes encodes v as little-endian float32s.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice decodes a vector BLOB. A BLOB whose length is not a
// multiple of four is corrupt and decodes to nil.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
