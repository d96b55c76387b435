package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mikey/phish-detector/internal/core"
)

func TestFeatureMatrix(t *testing.T) {
	x, y := FeatureMatrix([]core.LabeledURL{
		{URL: "https://google.com", Label: 0},
		{URL: "http://phishing-site.ru/login", Label: 1},
	})

	assert.Equal(t, []int{0, 1}, y)
	assert.Equal(t, []float64{18, 1, 1, 0, 0, 0, 0, 0}, x[0])
	assert.Equal(t, []float64{29, 1, 0, 0, 1, 0, 0, 1}, x[1])
}

func TestSubset(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}}
	y := []int{0, 1, 0}

	sx, sy := Subset(x, y, []int{2, 0})

	assert.Equal(t, [][]float64{{3}, {1}}, sx)
	assert.Equal(t, []int{0, 0}, sy)
}
