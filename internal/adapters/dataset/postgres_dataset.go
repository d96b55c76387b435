package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

var postgresDialect = dialect{
	name: "postgres",
	createSQL: []string{`
		CREATE TABLE IF NOT EXISTS training_urls (
			id BIGSERIAL PRIMARY KEY,
			url TEXT NOT NULL UNIQUE,
			label INTEGER NOT NULL
		)
	`},
	upsertSQL: `
		INSERT INTO training_urls (url, label) VALUES ($1, $2)
		ON CONFLICT (url) DO UPDATE SET label = EXCLUDED.label
	`,
}

// PostgresDataset is a PostgreSQL implementation of the DatasetRepository interface
type PostgresDataset struct {
	*sqlDataset
}

// NewPostgresDataset connects to PostgreSQL and creates the table if needed
func NewPostgresDataset(ctx context.Context, connStr string, logger *zap.Logger) (*PostgresDataset, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	// The trainer is the only client; keep the pool small.
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	ds, err := newSQLDataset(ctx, db, postgresDialect, logger)
	if err != nil {
		return nil, err
	}
	return &PostgresDataset{ds}, nil
}
