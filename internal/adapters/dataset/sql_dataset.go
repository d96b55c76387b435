package dataset

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mikey/phish-detector/internal/core"
	"go.uber.org/zap"
)

// dialect holds the statements that differ between SQL backends
type dialect struct {
	name      string
	createSQL []string
	upsertSQL string
}

// sqlDataset is the DatasetRepository shared by the SQL backends
type sqlDataset struct {
	db      *sql.DB
	dialect dialect
	logger  *zap.Logger
}

func newSQLDataset(ctx context.Context, db *sql.DB, d dialect, logger *zap.Logger) (*sqlDataset, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", d.name, err)
	}

	for _, stmt := range d.createSQL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create %s schema: %w", d.name, err)
		}
	}

	return &sqlDataset{db: db, dialect: d, logger: logger}, nil
}

// List returns all samples in insertion order
func (s *sqlDataset) List(ctx context.Context) ([]core.LabeledURL, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT url, label FROM training_urls ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query training urls: %w", err)
	}
	defer rows.Close()

	var samples []core.LabeledURL
	for rows.Next() {
		var sample core.LabeledURL
		if err := rows.Scan(&sample.URL, &sample.Label); err != nil {
			return nil, fmt.Errorf("failed to scan training url: %w", err)
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read training urls: %w", err)
	}

	return samples, nil
}

// Add stores a sample, replacing the label of an existing URL
func (s *sqlDataset) Add(ctx context.Context, sample core.LabeledURL) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.upsertSQL, sample.URL, sample.Label); err != nil {
		return fmt.Errorf("failed to insert training url: %w", err)
	}
	return nil
}

// Count returns the number of stored samples
func (s *sqlDataset) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM training_urls`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count training urls: %w", err)
	}
	return n, nil
}

// Close closes the database connection
func (s *sqlDataset) Close() error {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close dataset database", zap.String("backend", s.dialect.name), zap.Error(err))
		return err
	}
	return nil
}
