package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Params are the random-forest hyperparameters explored by the grid search.
type Params struct {
	Trees    int // number of trees
	MaxDepth int // maximum tree depth
	MinLeaf  int // minimum samples per leaf
}

func (p Params) String() string {
	return fmt.Sprintf("trees=%d max_depth=%d min_leaf=%d", p.Trees, p.MaxDepth, p.MinLeaf)
}

// RandomForest is a fitted ensemble. Immutable after Fit; safe for
// concurrent prediction.
type RandomForest struct {
	Params      Params
	ClassLabels []string // ordered; Distribution and proba vectors align to it
	Trees       []*DecisionTree
	Importance  []float64 // per feature, normalized to sum 1
	NumFeatures int
	Seed        int64
}

// Fit trains a random forest with balanced class weights (each class weighted
// inversely proportional to its frequency) on a fixed seed, so identical
// inputs produce identical forests.
func Fit(x [][]float64, y []string, params Params, seed int64) (*RandomForest, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, errors.New("fit: features and labels must be non-empty and the same length")
	}
	if params.Trees <= 0 || params.MaxDepth <= 0 || params.MinLeaf <= 0 {
		return nil, fmt.Errorf("fit: invalid params %v", params)
	}

	classes := distinctSorted(y)
	classIndex := make(map[string]int, len(classes))
	for i, c := range classes {
		classIndex[c] = i
	}

	labels := make([]int, len(y))
	classCounts := make([]float64, len(classes))
	for i, label := range y {
		labels[i] = classIndex[label]
		classCounts[labels[i]]++
	}

	// Balanced weighting: n / (k * count).
	weights := make([]float64, len(classes))
	n := float64(len(y))
	k := float64(len(classes))
	for i, count := range classCounts {
		weights[i] = n / (k * count)
	}

	numFeatures := len(x[0])
	mtry := int(math.Sqrt(float64(numFeatures)))
	if mtry < 1 {
		mtry = 1
	}

	forest := &RandomForest{
		Params:      params,
		ClassLabels: classes,
		Trees:       make([]*DecisionTree, params.Trees),
		Importance:  make([]float64, numFeatures),
		NumFeatures: numFeatures,
		Seed:        seed,
	}

	for t := 0; t < params.Trees; t++ {
		rng := rand.New(rand.NewSource(seed + int64(t)))

		indices := make([]int, len(x))
		for i := range indices {
			indices[i] = rng.Intn(len(x))
		}

		builder := &treeBuilder{
			x:            x,
			y:            labels,
			classWeights: weights,
			numClasses:   len(classes),
			maxDepth:     params.MaxDepth,
			minLeaf:      params.MinLeaf,
			mtry:         mtry,
			rng:          rng,
			importances:  make([]float64, numFeatures),
		}
		forest.Trees[t] = builder.fit(indices)
		floats.Add(forest.Importance, builder.importances)
	}

	if total := floats.Sum(forest.Importance); total > 0 {
		floats.Scale(1/total, forest.Importance)
	}

	return forest, nil
}

// PredictProba returns the class probability distribution for one feature
// vector, averaged over the per-tree leaf distributions and aligned to
// ClassLabels.
func (f *RandomForest) PredictProba(x []float64) []float64 {
	proba := make([]float64, len(f.ClassLabels))
	for _, tree := range f.Trees {
		floats.Add(proba, tree.PredictProba(x))
	}
	floats.Scale(1/float64(len(f.Trees)), proba)
	return proba
}

// Predict returns the most probable class label; ties go to the earliest
// label in ClassLabels order.
func (f *RandomForest) Predict(x []float64) string {
	return f.ClassLabels[floats.MaxIdx(f.PredictProba(x))]
}

// Classes returns the ordered known class labels.
func (f *RandomForest) Classes() []string { return f.ClassLabels }

func distinctSorted(labels []string) []string {
	seen := make(map[string]struct{}, 4)
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
