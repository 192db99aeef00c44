//go:build !cgo_sqlite

package repository

// Pure Go SQLite driver. No C toolchain required.
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// SQLiteDriverName is the database/sql driver used by NewSQLiteStore.
	SQLiteDriverName = "sqlite"

	SQLiteBuildMode = "purego"
)
