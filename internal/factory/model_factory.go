package factory

import (
	"github.com/mikey/phish-detector/internal/config"
	"github.com/mikey/phish-detector/internal/core"
	"github.com/mikey/phish-detector/internal/metrics"
	"github.com/mikey/phish-detector/internal/model"
	"go.uber.org/zap"
)

// ModelFactory loads the trained classifier
type ModelFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewModelFactory creates a new model factory
func NewModelFactory(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *ModelFactory {
	return &ModelFactory{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}
}

// CreateClassifier loads the model file. A missing or invalid model is not
// an error: the detector keeps running without URL verdicts.
func (f *ModelFactory) CreateClassifier() core.ClassifierHandle {
	path := f.cfg.GetModel().Path

	handle := core.Unavailable()
	forest, err := model.Load(path)
	if err != nil {
		f.logger.Warn("Failed to load classifier, continuing without it",
			zap.String("path", path),
			zap.Error(err))
	} else {
		f.logger.Info("Loaded classifier",
			zap.String("path", path),
			zap.Int("trees", len(forest.Trees)),
			zap.Strings("features", forest.Features))
		handle = core.Available(forest)
	}

	if f.metrics != nil {
		f.metrics.SetClassifierAvailable(handle.IsAvailable())
	}
	return handle
}
