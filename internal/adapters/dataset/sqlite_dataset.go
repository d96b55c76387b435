package dataset

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var sqliteDialect = dialect{
	name: "sqlite",
	createSQL: []string{`
		CREATE TABLE IF NOT EXISTS training_urls (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL UNIQUE,
			label INTEGER NOT NULL
		)
	`},
	upsertSQL: `
		INSERT INTO training_urls (url, label) VALUES (?, ?)
		ON CONFLICT(url) DO UPDATE SET label = excluded.label
	`,
}

// SQLiteDataset is a SQLite implementation of the DatasetRepository interface
type SQLiteDataset struct {
	*sqlDataset
}

// NewSQLiteDataset opens (and creates if needed) a SQLite dataset
func NewSQLiteDataset(ctx context.Context, dbPath string, logger *zap.Logger) (*SQLiteDataset, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	ds, err := newSQLDataset(ctx, db, sqliteDialect, logger)
	if err != nil {
		return nil, err
	}
	return &SQLiteDataset{ds}, nil
}
