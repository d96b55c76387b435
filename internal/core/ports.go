package core

import (
	"context"
)

// Classifier is a trained binary model over FeatureVector.
// Implementations must be safe for concurrent use.
type Classifier interface {
	// Predict returns the class id: 0 is legitimate, anything else is phishing
	Predict(features FeatureVector) int

	// PredictProba returns the probability of each class, indexed by class id
	PredictProba(features FeatureVector) []float64
}

// ClassifierHandle is the classifier capability: either available or not.
// The zero value is Unavailable.
type ClassifierHandle struct {
	classifier Classifier
}

// Available wraps a loaded classifier. A nil classifier yields Unavailable.
func Available(c Classifier) ClassifierHandle {
	return ClassifierHandle{classifier: c}
}

// Unavailable is the handle used when no model could be loaded
func Unavailable() ClassifierHandle {
	return ClassifierHandle{}
}

// Get returns the classifier and whether it is available
func (h ClassifierHandle) Get() (Classifier, bool) {
	return h.classifier, h.classifier != nil
}

// IsAvailable reports whether a classifier is loaded
func (h ClassifierHandle) IsAvailable() bool {
	return h.classifier != nil
}

// DatasetRepository stores labelled URLs used to train the classifier
type DatasetRepository interface {
	// List returns all samples in insertion order
	List(ctx context.Context) ([]LabeledURL, error)

	// Add stores a sample, replacing the label of an existing URL
	Add(ctx context.Context, sample LabeledURL) error

	// Count returns the number of stored samples
	Count(ctx context.Context) (int, error)

	// Close releases the underlying storage
	Close() error
}
