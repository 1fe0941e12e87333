// Package train turns cleaned, encoded observations into a fitted classifier:
// stratified train/test split, exhaustive grid search with stratified k-fold
// cross-validation, and held-out evaluation. Training is a run-to-completion
// batch job; only the grid search fans out internally.
package train

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// ErrInsufficientSamples means the rarest class has fewer members than the
// cross-validation fold count. This is a fatal configuration problem, not
// something to degrade around: silently skipping folds would misreport every
// candidate's score.
var ErrInsufficientSamples = errors.New("insufficient samples per class for cross-validation")

// Split holds the two partitions of a stratified train/test split.
type Split struct {
	TrainX [][]float64
	TrainY []string
	TestX  [][]float64
	TestY  []string
}

// StratifiedSplit partitions the data so each class keeps proportional
// representation on both sides. The seed fixes the shuffle, so identical
// inputs always split identically.
func StratifiedSplit(x [][]float64, y []string, testFraction float64, seed int64) (Split, error) {
	if len(x) == 0 || len(x) != len(y) {
		return Split{}, errors.New("split: features and labels must be non-empty and the same length")
	}
	if testFraction <= 0 || testFraction >= 1 {
		return Split{}, fmt.Errorf("split: test fraction %v outside (0,1)", testFraction)
	}

	rng := rand.New(rand.NewSource(seed))
	var split Split

	for _, class := range classOrder(y) {
		indices := classIndices(y, class)
		rng.Shuffle(len(indices), func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })

		nTest := int(float64(len(indices))*testFraction + 0.5)
		if nTest >= len(indices) {
			nTest = len(indices) - 1
		}

		for pos, i := range indices {
			if pos < nTest {
				split.TestX = append(split.TestX, x[i])
				split.TestY = append(split.TestY, y[i])
			} else {
				split.TrainX = append(split.TrainX, x[i])
				split.TrainY = append(split.TrainY, y[i])
			}
		}
	}

	return split, nil
}

// stratifiedFolds assigns sample indices to k folds, spreading each class
// round-robin so every fold sees every class. Returns ErrInsufficientSamples
// if any class has fewer than k members.
func stratifiedFolds(y []string, k int, seed int64) ([][]int, error) {
	if k < 2 {
		return nil, fmt.Errorf("folds: k=%d must be at least 2", k)
	}

	rng := rand.New(rand.NewSource(seed))
	folds := make([][]int, k)

	for _, class := range classOrder(y) {
		indices := classIndices(y, class)
		if len(indices) < k {
			return nil, fmt.Errorf("%w: class %s has %d samples, need at least %d", ErrInsufficientSamples, class, len(indices), k)
		}
		rng.Shuffle(len(indices), func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })
		for pos, i := range indices {
			folds[pos%k] = append(folds[pos%k], i)
		}
	}

	return folds, nil
}

func classOrder(y []string) []string {
	seen := make(map[string]struct{})
	for _, label := range y {
		seen[label] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for label := range seen {
		classes = append(classes, label)
	}
	sort.Strings(classes)
	return classes
}

func classIndices(y []string, class string) []int {
	var indices []int
	for i, label := range y {
		if label == class {
			indices = append(indices, i)
		}
	}
	return indices
}
