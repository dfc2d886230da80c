//go:build !cgo_sqlite

package main

import _ "modernc.org/sqlite"

// sqliteDriver is the database/sql driver name of the pure Go modernc.org/sqlite.
const sqliteDriver = "sqlite"
