package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

var (
	// ErrNoSamples is returned when training is attempted without data
	ErrNoSamples = errors.New("no training samples")
	// ErrShapeMismatch is returned when samples and labels do not line up
	ErrShapeMismatch = errors.New("samples and labels have different shapes")
)

// TrainConfig controls forest construction
type TrainConfig struct {
	NumTrees        int
	MaxDepth        int // 0 means unlimited
	MinSamplesSplit int
	MaxFeatures     int // 0 means sqrt(number of features)
	Seed            int64
}

// DefaultTrainConfig mirrors the settings the original model was fitted with
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		NumTrees:        200,
		MinSamplesSplit: 2,
		Seed:            42,
	}
}

// Train fits a random forest on bootstrap samples of the data
func Train(samples [][]float64, labels []int, featureNames []string, cfg TrainConfig) (*Forest, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	if len(samples) != len(labels) {
		return nil, fmt.Errorf("%w: %d samples, %d labels", ErrShapeMismatch, len(samples), len(labels))
	}

	numFeatures := len(featureNames)
	numClasses := 2
	for i, label := range labels {
		if label < 0 {
			return nil, fmt.Errorf("negative label %d at row %d", label, i)
		}
		if len(samples[i]) != numFeatures {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrShapeMismatch, i, len(samples[i]), numFeatures)
		}
		if label+1 > numClasses {
			numClasses = label + 1
		}
	}

	if cfg.NumTrees <= 0 {
		cfg.NumTrees = 1
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}
	if cfg.MaxFeatures <= 0 || cfg.MaxFeatures > numFeatures {
		cfg.MaxFeatures = int(math.Max(1, math.Floor(math.Sqrt(float64(numFeatures)))))
	}

	forest := &Forest{
		Features:   append([]string(nil), featureNames...),
		NumClasses: numClasses,
		Trees:      make([]Tree, cfg.NumTrees),
	}

	seeds := rand.New(rand.NewSource(cfg.Seed))
	for t := range forest.Trees {
		b := &builder{
			x:          samples,
			y:          labels,
			numClasses: numClasses,
			cfg:        cfg,
			rng:        rand.New(rand.NewSource(seeds.Int63())),
		}

		idx := make([]int, len(samples))
		for i := range idx {
			idx[i] = b.rng.Intn(len(samples))
		}

		b.build(idx, 0)
		forest.Trees[t] = Tree{Nodes: b.nodes}
	}

	return forest, nil
}

type builder struct {
	x          [][]float64
	y          []int
	numClasses int
	cfg        TrainConfig
	rng        *rand.Rand
	nodes      []Node
}

type split struct {
	feature   int
	threshold float64
	impurity  float64
}

// build grows the subtree for idx and returns the index of its root node
func (b *builder) build(idx []int, depth int) int {
	counts := b.classCounts(idx)
	self := len(b.nodes)
	b.nodes = append(b.nodes, Node{Left: leaf, Right: leaf, Value: fractions(counts, len(idx))})

	if isPure(counts) || len(idx) < b.cfg.MinSamplesSplit || (b.cfg.MaxDepth > 0 && depth >= b.cfg.MaxDepth) {
		return self
	}

	best, ok := b.bestSplit(idx)
	if !ok {
		return self
	}

	var left, right []int
	for _, i := range idx {
		if b.x[i][best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	b.nodes[self] = Node{Feature: best.feature, Threshold: best.threshold, Left: l, Right: r}
	return self
}

// bestSplit inspects MaxFeatures random features, continuing past that
// budget only while no valid split has been found
func (b *builder) bestSplit(idx []int) (split, bool) {
	best := split{impurity: math.Inf(1)}
	found := false

	for n, feature := range b.rng.Perm(len(b.x[0])) {
		if n >= b.cfg.MaxFeatures && found {
			break
		}

		if s, ok := b.splitOn(idx, feature); ok {
			found = true
			if s.impurity < best.impurity {
				best = s
			}
		}
	}

	return best, found
}

// splitOn finds the threshold on one feature that minimises weighted Gini impurity
func (b *builder) splitOn(idx []int, feature int) (split, bool) {
	sorted := append([]int(nil), idx...)
	sort.Slice(sorted, func(i, j int) bool {
		return b.x[sorted[i]][feature] < b.x[sorted[j]][feature]
	})

	leftCounts := make([]int, b.numClasses)
	rightCounts := b.classCounts(sorted)
	total := len(sorted)

	best := split{feature: feature, impurity: math.Inf(1)}
	found := false

	for i := 0; i < total-1; i++ {
		class := b.y[sorted[i]]
		leftCounts[class]++
		rightCounts[class]--

		cur, next := b.x[sorted[i]][feature], b.x[sorted[i+1]][feature]
		if cur == next {
			continue
		}

		nLeft := i + 1
		nRight := total - nLeft
		impurity := (float64(nLeft)*gini(leftCounts, nLeft) + float64(nRight)*gini(rightCounts, nRight)) / float64(total)
		if impurity < best.impurity {
			best.impurity = impurity
			best.threshold = cur + (next-cur)/2
			found = true
		}
	}

	return best, found
}

func (b *builder) classCounts(idx []int) []int {
	counts := make([]int, b.numClasses)
	for _, i := range idx {
		counts[b.y[i]]++
	}
	return counts
}

func gini(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		g -= p * p
	}
	return g
}

func fractions(counts []int, total int) []float64 {
	out := make([]float64, len(counts))
	if total == 0 {
		return out
	}
	for i, c := range counts {
		out[i] = float64(c) / float64(total)
	}
	return out
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

// SplitTrainTest shuffles row indices and holds out ceil(n*testFraction) rows
func SplitTrainTest(n int, testFraction float64, seed int64) (train, test []int) {
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	numTest := int(math.Ceil(float64(n) * testFraction))
	if numTest >= n {
		numTest = n - 1
	}
	if numTest < 0 {
		numTest = 0
	}
	return perm[numTest:], perm[:numTest]
}

// Accuracy is the fraction of rows the forest labels correctly
func Accuracy(f *Forest, samples [][]float64, labels []int) float64 {
	if len(samples) == 0 {
		return 0
	}
	correct := 0
	for i, x := range samples {
		if f.PredictValues(x) == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(samples))
}
