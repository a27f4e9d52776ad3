// Package migrations embeds the SQL migrations for the SQLite store.
package migrations

import "embed"

// FS holds every NNN_name.up.sql and NNN_name.down.sql file.
//
//go:embed *.sql
var FS embed.FS
