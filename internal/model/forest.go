package model

import (
	"github.com/mikey/phish-detector/internal/core"
)

// leaf marks a node without children
const leaf = -1

// Node is one decision in a tree. Samples with x[Feature] <= Threshold go left.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value,omitempty"`
}

// Tree is a CART tree stored as a flat node slice rooted at index 0
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Forest is a random forest classifier. It is immutable once trained or loaded
// and safe for concurrent use.
type Forest struct {
	Features   []string `json:"features"`
	NumClasses int      `json:"num_classes"`
	Trees      []Tree   `json:"trees"`
}

// predictProba walks the tree and returns the class fractions of the leaf reached
func (t *Tree) predictProba(x []float64) []float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Left == leaf {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// PredictValuesProba averages the leaf class fractions of every tree
func (f *Forest) PredictValuesProba(x []float64) []float64 {
	proba := make([]float64, f.NumClasses)
	if len(f.Trees) == 0 {
		return proba
	}

	for i := range f.Trees {
		for class, p := range f.Trees[i].predictProba(x) {
			proba[class] += p
		}
	}

	for class := range proba {
		proba[class] /= float64(len(f.Trees))
	}
	return proba
}

// PredictValues returns the most probable class. Ties go to the lower class id.
func (f *Forest) PredictValues(x []float64) int {
	proba := f.PredictValuesProba(x)
	best := 0
	for class, p := range proba {
		if p > proba[best] {
			best = class
		}
	}
	return best
}

// Predict implements core.Classifier
func (f *Forest) Predict(features core.FeatureVector) int {
	return f.PredictValues(features.Values())
}

// PredictProba implements core.Classifier
func (f *Forest) PredictProba(features core.FeatureVector) []float64 {
	return f.PredictValuesProba(features.Values())
}
