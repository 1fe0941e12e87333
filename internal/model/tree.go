// Package model implements the congestion classifier: a random forest of
// Gini decision trees with balanced class weights. All model state lives in
// exported fields so a fitted forest round-trips through encoding/gob
// unchanged. A loaded forest is read-only; prediction never mutates it, so
// any number of goroutines may score concurrently.
package model

import (
	"math/rand"
	"sort"
)

// TreeNode is one node of a fitted decision tree. Internal nodes split on
// Feature <= Threshold; leaves carry the normalized weighted class
// distribution seen during training.
type TreeNode struct {
	Feature      int
	Threshold    float64
	Left         *TreeNode
	Right        *TreeNode
	Distribution []float64
}

// IsLeaf reports whether the node is a leaf.
func (n *TreeNode) IsLeaf() bool { return n.Left == nil }

// DecisionTree is a single CART-style classification tree.
type DecisionTree struct {
	Root *TreeNode
}

// PredictProba walks the tree and returns the leaf class distribution.
func (t *DecisionTree) PredictProba(x []float64) []float64 {
	node := t.Root
	for !node.IsLeaf() {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Distribution
}

// treeBuilder holds the shared state of one tree fit.
type treeBuilder struct {
	x            [][]float64
	y            []int       // class index per sample
	classWeights []float64   // weight per class index
	numClasses   int
	maxDepth     int
	minLeaf      int
	mtry         int
	rng          *rand.Rand
	importances  []float64 // accumulated weighted impurity decrease per feature
	totalWeight  float64
}

func (b *treeBuilder) fit(indices []int) *DecisionTree {
	b.totalWeight = b.weightOf(indices)
	return &DecisionTree{Root: b.grow(indices, 0)}
}

func (b *treeBuilder) grow(indices []int, depth int) *TreeNode {
	counts := b.classCounts(indices)
	nodeWeight, nodeImpurity := giniImpurity(counts)

	if depth >= b.maxDepth || len(indices) < 2*b.minLeaf || nodeImpurity == 0 {
		return leaf(counts, nodeWeight)
	}

	split, ok := b.bestSplit(indices, counts, nodeWeight, nodeImpurity)
	if !ok {
		return leaf(counts, nodeWeight)
	}

	b.importances[split.feature] += (nodeWeight / b.totalWeight) * split.gain

	return &TreeNode{
		Feature:   split.feature,
		Threshold: split.threshold,
		Left:      b.grow(split.left, depth+1),
		Right:     b.grow(split.right, depth+1),
	}
}

type splitResult struct {
	feature   int
	threshold float64
	gain      float64
	left      []int
	right     []int
}

// bestSplit searches a random subset of mtry features for the weighted-Gini
// optimal threshold that leaves at least minLeaf samples on each side.
func (b *treeBuilder) bestSplit(indices []int, counts []float64, nodeWeight, nodeImpurity float64) (splitResult, bool) {
	best := splitResult{feature: -1}
	bestScore := nodeImpurity // split must strictly improve on the node

	for _, f := range b.rng.Perm(len(b.x[0]))[:b.mtry] {
		threshold, score, ok := b.bestThreshold(indices, f, counts, nodeWeight)
		if ok && score < bestScore {
			bestScore = score
			best.feature = f
			best.threshold = threshold
		}
	}
	if best.feature < 0 {
		return splitResult{}, false
	}

	for _, i := range indices {
		if b.x[i][best.feature] <= best.threshold {
			best.left = append(best.left, i)
		} else {
			best.right = append(best.right, i)
		}
	}
	best.gain = nodeImpurity - bestScore
	return best, true
}

// bestThreshold sweeps the sorted values of one feature, maintaining running
// class-weight tallies, and returns the midpoint threshold with the lowest
// weighted child impurity.
func (b *treeBuilder) bestThreshold(indices []int, feature int, counts []float64, nodeWeight float64) (float64, float64, bool) {
	ordered := make([]int, len(indices))
	copy(ordered, indices)
	sort.Slice(ordered, func(i, j int) bool {
		return b.x[ordered[i]][feature] < b.x[ordered[j]][feature]
	})

	leftCounts := make([]float64, b.numClasses)
	rightCounts := make([]float64, b.numClasses)
	copy(rightCounts, counts)

	bestThreshold, bestScore := 0.0, -1.0

	for pos := 0; pos < len(ordered)-1; pos++ {
		i := ordered[pos]
		w := b.classWeights[b.y[i]]
		leftCounts[b.y[i]] += w
		rightCounts[b.y[i]] -= w

		value, next := b.x[i][feature], b.x[ordered[pos+1]][feature]
		if value == next {
			continue // can't split between equal values
		}
		if pos+1 < b.minLeaf || len(ordered)-pos-1 < b.minLeaf {
			continue
		}

		lw, li := giniImpurity(leftCounts)
		rw, ri := giniImpurity(rightCounts)
		score := (lw*li + rw*ri) / nodeWeight
		if bestScore < 0 || score < bestScore {
			bestScore = score
			bestThreshold = (value + next) / 2
		}
	}

	return bestThreshold, bestScore, bestScore >= 0
}

func (b *treeBuilder) classCounts(indices []int) []float64 {
	counts := make([]float64, b.numClasses)
	for _, i := range indices {
		counts[b.y[i]] += b.classWeights[b.y[i]]
	}
	return counts
}

func (b *treeBuilder) weightOf(indices []int) float64 {
	total := 0.0
	for _, i := range indices {
		total += b.classWeights[b.y[i]]
	}
	return total
}

func leaf(counts []float64, totalWeight float64) *TreeNode {
	dist := make([]float64, len(counts))
	if totalWeight > 0 {
		for i, c := range counts {
			dist[i] = c / totalWeight
		}
	}
	return &TreeNode{Distribution: dist}
}

// giniImpurity returns the total weight and Gini impurity of a weighted
// class-count vector.
func giniImpurity(counts []float64) (weight, impurity float64) {
	for _, c := range counts {
		weight += c
	}
	if weight == 0 {
		return 0, 0
	}
	sumSquares := 0.0
	for _, c := range counts {
		p := c / weight
		sumSquares += p * p
	}
	return weight, 1 - sumSquares
}
