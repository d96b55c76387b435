package factory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/phish-detector/internal/adapters/dataset"
	"github.com/mikey/phish-detector/internal/config"
	"github.com/mikey/phish-detector/internal/core"
	"go.uber.org/zap"
)

// DatasetFactory creates training data stores based on configuration
type DatasetFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewDatasetFactory creates a new dataset factory
func NewDatasetFactory(cfg *config.Config, logger *zap.Logger) *DatasetFactory {
	return &DatasetFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateDatasetRepository creates a dataset repository based on the configuration
func (f *DatasetFactory) CreateDatasetRepository(ctx context.Context) (core.DatasetRepository, error) {
	dsCfg := f.cfg.GetDataset()

	switch dsCfg.Type {
	case "memory":
		return dataset.NewMemoryDataset(f.logger, dataset.SeedURLs), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(dsCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return dataset.NewSQLiteDataset(ctx, dsCfg.SQLitePath, f.logger)
	case "mysql":
		return dataset.NewMySQLDataset(ctx, dsCfg.MySQLDSN, f.logger)
	case "postgres":
		return dataset.NewPostgresDataset(ctx, dsCfg.PostgresDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported dataset type: %s", dsCfg.Type)
	}
}
