package dataset

import (
	"context"
	"sync"

	"github.com/mikey/phish-detector/internal/core"
	"go.uber.org/zap"
)

// SeedURLs is the starter dataset used when no store has been populated
var SeedURLs = []core.LabeledURL{
	{URL: "https://google.com", Label: 0},
	{URL: "http://phishing-site.ru/login", Label: 1},
	{URL: "https://secure.paypal.com", Label: 0},
	{URL: "http://fakebank.verify-login.net", Label: 1},
	{URL: "https://github.com", Label: 0},
	{URL: "http://malicious-update.xyz", Label: 1},
	{URL: "https://secure-login.bankofamerica.com", Label: 1},
	{URL: "http://update-paypal.info", Label: 1},
	{URL: "https://accounts.google.com", Label: 0},
	{URL: "http://verify-login.amazon-support.com", Label: 1},
}

// MemoryDataset is an in-memory implementation of the DatasetRepository interface
type MemoryDataset struct {
	mu      sync.RWMutex
	order   []string
	samples map[string]int
	logger  *zap.Logger
}

// NewMemoryDataset creates an in-memory dataset holding the given samples
func NewMemoryDataset(logger *zap.Logger, seed []core.LabeledURL) *MemoryDataset {
	d := &MemoryDataset{
		samples: make(map[string]int),
		logger:  logger,
	}
	for _, s := range seed {
		d.put(s)
	}
	return d
}

func (d *MemoryDataset) put(sample core.LabeledURL) {
	if _, ok := d.samples[sample.URL]; !ok {
		d.order = append(d.order, sample.URL)
	}
	d.samples[sample.URL] = sample.Label
}

// List returns all samples in insertion order
func (d *MemoryDataset) List(ctx context.Context) ([]core.LabeledURL, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]core.LabeledURL, 0, len(d.order))
	for _, url := range d.order {
		out = append(out, core.LabeledURL{URL: url, Label: d.samples[url]})
	}
	return out, nil
}

// Add stores a sample
func (d *MemoryDataset) Add(ctx context.Context, sample core.LabeledURL) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.put(sample)
	d.logger.Debug("Added sample to memory dataset", zap.Int("label", sample.Label))
	return nil
}

// Count returns the number of samples
func (d *MemoryDataset) Count(ctx context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.order), nil
}

// Close is a no-op for the memory dataset
func (d *MemoryDataset) Close() error {
	return nil
}
