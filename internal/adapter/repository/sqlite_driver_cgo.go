//go:build cgo_sqlite

package repository

// CGO SQLite driver, selected with:
//   CGO_ENABLED=1 go build -tags "cgo_sqlite" ./...
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// SQLiteDriverName is the database/sql driver used by NewSQLiteStore.
	SQLiteDriverName = "sqlite3"

	SQLiteBuildMode = "cgo"
)
