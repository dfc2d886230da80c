package main

import (
	"context"
	"database/sql"
	"fmt"
)

// openCorpusDB opens the SQLite database holding training documents with
// whichever driver the build selected, and checks that it is reachable.
func openCorpusDB(ctx context.Context, dataSource string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriver, dataSource)
	if err != nil {
		return nil, fmt.Errorf("could not open corpus database: %w", err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not reach corpus database %s: %w", dataSource, err)
	}
	return db, nil
}
