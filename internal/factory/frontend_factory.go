package factory

import (
	"fmt"
	"os"

	"github.com/mikey/phish-detector/internal/adapters/filter"
	"github.com/mikey/phish-detector/internal/adapters/web"
	"github.com/mikey/phish-detector/internal/config"
	"github.com/mikey/phish-detector/internal/core"
	"github.com/mikey/phish-detector/internal/metrics"
	"github.com/mikey/phish-detector/internal/ports"
	"github.com/mikey/phish-detector/internal/utils"
	"github.com/mikey/phish-detector/internal/whitelist"
	"go.uber.org/zap"
)

// FrontendFactory creates the user-facing frontend based on configuration
type FrontendFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	service       *core.DetectorService
	metrics       *metrics.Metrics
	trusted       *whitelist.Checker
	textProcessor *utils.TextProcessor
}

// NewFrontendFactory creates a new frontend factory
func NewFrontendFactory(
	cfg *config.Config,
	logger *zap.Logger,
	service *core.DetectorService,
	m *metrics.Metrics,
	trusted *whitelist.Checker,
	textProcessor *utils.TextProcessor,
) *FrontendFactory {
	return &FrontendFactory{
		cfg:           cfg,
		logger:        logger,
		service:       service,
		metrics:       m,
		trusted:       trusted,
		textProcessor: textProcessor,
	}
}

// CreateFrontend creates a frontend based on the configuration
func (f *FrontendFactory) CreateFrontend() (ports.Frontend, error) {
	serverCfg, err := f.cfg.GetServer()
	if err != nil {
		return nil, err
	}

	switch serverCfg.Frontend {
	case "web":
		return web.NewServer(f.service, f.metrics, f.logger, serverCfg), nil
	case "postfix":
		return filter.NewPostfixFilter(
			f.service,
			f.logger,
			f.cfg.GetPostfix(),
			f.trusted,
			f.textProcessor,
			int(serverCfg.MaxInputSize),
		), nil
	case "cli":
		return f.CreateCliFilter(), nil
	default:
		return nil, fmt.Errorf("unsupported frontend: %s", serverCfg.Frontend)
	}
}

// CreateCliFilter creates the command line frontend writing to stdout
func (f *FrontendFactory) CreateCliFilter() *filter.CliFilter {
	return filter.NewCliFilter(
		f.service,
		f.logger,
		os.Stdout,
		f.cfg.GetBool("cli.verbose"),
		f.cfg.GetBool("cli.json"),
	)
}
