// Package corpus opens training text for a ppm.Model, either from a file or
// from rows of a SQL database.
package corpus

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
)

// ErrEmptyCorpus is returned when a source holds no bytes to train on.
var ErrEmptyCorpus = errors.New("corpus: empty or inaccessible")

// File is an open training file together with its size, which callers use
// to report training progress.
type File struct {
	*os.File
	Size int64
}

// Open opens the training file at path. A zero-length file yields
// ErrEmptyCorpus.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open corpus %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("could not stat corpus %s: %w", path, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("corpus %s is a directory: %w", path, ErrEmptyCorpus)
	}
	if info.Size() == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("corpus %s: %w", path, ErrEmptyCorpus)
	}
	return &File{File: f, Size: info.Size()}, nil
}

// FromSQL runs query against db and joins the first column of every row,
// newline separated, into a single training stream. NULL values are skipped.
func FromSQL(ctx context.Context, db *sql.DB, query string) (*bytes.Reader, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not query corpus rows: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var buf bytes.Buffer
	for rows.Next() {
		var text sql.NullString
		if err = rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("could not scan corpus row: %w", err)
		}
		if !text.Valid {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(text.String)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating corpus rows: %w", err)
	}
	if buf.Len() == 0 {
		return nil, ErrEmptyCorpus
	}
	return bytes.NewReader(buf.Bytes()), nil
}
