package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/mikey/phish-detector/internal/core"
)

// ErrSchemaMismatch is returned when a model was trained on other features
var ErrSchemaMismatch = errors.New("model feature schema does not match extractor")

// Load reads a forest from a JSON model file and validates it
func Load(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var forest Forest
	if err := json.Unmarshal(data, &forest); err != nil {
		return nil, fmt.Errorf("failed to decode model file: %w", err)
	}

	if err := forest.Validate(); err != nil {
		return nil, err
	}

	return &forest, nil
}

// Save writes the forest as JSON, creating the parent directory if needed
func (f *Forest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write model file: %w", err)
	}

	return nil
}

// Validate checks the schema and the tree structure
func (f *Forest) Validate() error {
	if !slices.Equal(f.Features, core.FeatureNames) {
		return fmt.Errorf("%w: got %v, want %v", ErrSchemaMismatch, f.Features, core.FeatureNames)
	}
	if f.NumClasses < 2 {
		return fmt.Errorf("invalid model: %d classes", f.NumClasses)
	}
	if len(f.Trees) == 0 {
		return errors.New("invalid model: no trees")
	}

	for t, tree := range f.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("invalid model: tree %d is empty", t)
		}
		for n, node := range tree.Nodes {
			if node.Left == leaf {
				if len(node.Value) != f.NumClasses {
					return fmt.Errorf("invalid model: tree %d leaf %d has %d class values", t, n, len(node.Value))
				}
				continue
			}
			// Children always follow their parent, which also rules out cycles.
			if node.Left <= n || node.Right <= n || node.Left >= len(tree.Nodes) || node.Right >= len(tree.Nodes) {
				return fmt.Errorf("invalid model: tree %d node %d has bad children", t, n)
			}
			if node.Feature < 0 || node.Feature >= len(f.Features) {
				return fmt.Errorf("invalid model: tree %d node %d splits on feature %d", t, n, node.Feature)
			}
		}
	}

	return nil
}
