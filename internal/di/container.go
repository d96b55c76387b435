package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/config"
	"github.com/mikey/phish-detector/internal/core"
	"github.com/mikey/phish-detector/internal/factory"
	"github.com/mikey/phish-detector/internal/logging"
	"github.com/mikey/phish-detector/internal/metrics"
	"github.com/mikey/phish-detector/internal/ports"
	"github.com/mikey/phish-detector/internal/utils"
	"github.com/mikey/phish-detector/internal/whitelist"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideDetector(container); err != nil {
		return nil, err
	}

	// Register frontend
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.FrontendFactory) (ports.Frontend, error) {
		return f.CreateFrontend()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideDetector registers everything between the configuration and the
// frontends. It expects *config.Config and *zap.Logger to be provided.
func provideDetector(container *dig.Container) error {
	// Register metrics
	if err := container.Provide(metrics.New); err != nil {
		return err
	}
	if err := container.Provide(func(m *metrics.Metrics) core.Recorder { return m }); err != nil {
		return err
	}

	// Register model factory
	if err := container.Provide(factory.NewModelFactory); err != nil {
		return err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return err
	}

	// Register classifier
	if err := container.Provide(func(f *factory.ModelFactory) core.ClassifierHandle {
		return f.CreateClassifier()
	}); err != nil {
		return err
	}

	// Register trusted sender domains
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *whitelist.Checker {
		domains := cfg.GetStringSlice("detector.trusted_domains")
		if len(domains) > 0 {
			logger.Info("Loaded trusted sender domains", zap.Strings("domains", domains))
		}
		return whitelist.NewChecker(domains, logger)
	}); err != nil {
		return err
	}

	// Register detector service
	return container.Provide(core.NewDetectorService)
}
