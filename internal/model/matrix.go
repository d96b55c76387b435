package model

import "github.com/mikey/phish-detector/internal/core"

// FeatureMatrix turns labelled URLs into training rows in core.FeatureNames order
func FeatureMatrix(samples []core.LabeledURL) ([][]float64, []int) {
	x := make([][]float64, len(samples))
	y := make([]int, len(samples))
	for i, s := range samples {
		x[i] = core.ExtractFeatures(s.URL).Values()
		y[i] = s.Label
	}
	return x, y
}

// Subset picks the rows at idx
func Subset(x [][]float64, y []int, idx []int) ([][]float64, []int) {
	sx := make([][]float64, len(idx))
	sy := make([]int, len(idx))
	for i, j := range idx {
		sx[i], sy[i] = x[j], y[j]
	}
	return sx, sy
}
