// Package sqlite provides the default persistent implementation of the
// storage ports, backed by modernc.org/sqlite (pure Go, no CGO).
//
// One Store holds one database and hands out DocumentStore, VectorStore and
// MessageStore views over it. Deleting a document removes its chunks in the
// same transaction.
//
// # Schema
//
// The schema is managed by the numbered migrations in migrations/. Applied
// versions are recorded in schema_migrations.
//
// # Data Location
//
// The database lives at <home>/data/docchat.db, where home is ~/.docchat
// or $DOCCHAT_HOME.
//
// # Vectors
//
// Chunk vectors are stored as little-endian float32 BLOBs.
package sqlite
