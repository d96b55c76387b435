package dataset

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// mysqlDialect keys rows on a SHA-256 of the full URL. A prefix index would
// make long URLs sharing a prefix overwrite each other.
var mysqlDialect = dialect{
	name: "mysql",
	createSQL: []string{`
		CREATE TABLE IF NOT EXISTS training_urls (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			url TEXT NOT NULL,
			url_hash BINARY(32) AS (UNHEX(SHA2(url, 256))) STORED,
			label INT NOT NULL,
			UNIQUE KEY idx_url_hash (url_hash)
		)
	`},
	upsertSQL: `
		INSERT INTO training_urls (url, label) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE label = VALUES(label)
	`,
}

// MySQLDataset is a MySQL implementation of the DatasetRepository interface
type MySQLDataset struct {
	*sqlDataset
}

// NewMySQLDataset connects to MySQL and creates the table if needed
func NewMySQLDataset(ctx context.Context, dsn string, logger *zap.Logger) (*MySQLDataset, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	ds, err := newSQLDataset(ctx, db, mysqlDialect, logger)
	if err != nil {
		return nil, err
	}
	return &MySQLDataset{ds}, nil
}
