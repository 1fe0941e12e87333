package train

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/limaflow/congestion/internal/model"
)

// Grid is the hyperparameter search space.
type Grid struct {
	Trees    []int
	MaxDepth []int
	MinLeaf  []int
}

// DefaultGrid mirrors the search space the model was originally tuned over.
func DefaultGrid() Grid {
	return Grid{
		Trees:    []int{50, 100},
		MaxDepth: []int{3, 5, 10},
		MinLeaf:  []int{2, 4},
	}
}

func (g Grid) candidates() []model.Params {
	var out []model.Params
	for _, trees := range g.Trees {
		for _, depth := range g.MaxDepth {
			for _, leaf := range g.MinLeaf {
				out = append(out, model.Params{Trees: trees, MaxDepth: depth, MinLeaf: leaf})
			}
		}
	}
	return out
}

// SearchResult describes the winning grid-search candidate.
type SearchResult struct {
	Params     model.Params
	MeanCV     float64   // mean cross-validation accuracy
	FoldScores []float64 // winning candidate's per-fold accuracies
	Candidates int
}

// GridSearch exhaustively scores every candidate with stratified k-fold
// cross-validation on the training partition, refits the best candidate on
// the full partition, and returns it. Candidates are fitted in parallel with
// no shared mutable state; results merge by best mean accuracy with ties
// going to the earliest candidate in grid order.
func GridSearch(ctx context.Context, x [][]float64, y []string, grid Grid, k int, seed int64, logger *slog.Logger) (*model.RandomForest, SearchResult, error) {
	folds, err := stratifiedFolds(y, k, seed)
	if err != nil {
		return nil, SearchResult{}, err
	}

	candidates := grid.candidates()
	if len(candidates) == 0 {
		return nil, SearchResult{}, fmt.Errorf("grid search: empty grid")
	}

	scores := make([][]float64, len(candidates))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for ci, params := range candidates {
		ci, params := ci, params
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			foldScores, err := crossValidate(x, y, folds, params, seed)
			if err != nil {
				return fmt.Errorf("candidate %v: %w", params, err)
			}
			scores[ci] = foldScores
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, SearchResult{}, err
	}

	best, bestMean := -1, 0.0
	for ci := range candidates {
		mean := stat.Mean(scores[ci], nil)
		logger.Debug("grid search candidate scored", "params", candidates[ci].String(), "mean_cv_accuracy", mean)
		if best < 0 || mean > bestMean {
			best, bestMean = ci, mean
		}
	}

	result := SearchResult{
		Params:     candidates[best],
		MeanCV:     bestMean,
		FoldScores: scores[best],
		Candidates: len(candidates),
	}
	logger.Info("grid search complete",
		"best_params", result.Params.String(),
		"mean_cv_accuracy", result.MeanCV,
		"candidates", result.Candidates,
	)

	forest, err := model.Fit(x, y, result.Params, seed)
	if err != nil {
		return nil, SearchResult{}, fmt.Errorf("refit best candidate: %w", err)
	}
	return forest, result, nil
}

// crossValidate scores one candidate: for each fold, fit on the remaining
// folds and measure accuracy on the held-out fold.
func crossValidate(x [][]float64, y []string, folds [][]int, params model.Params, seed int64) ([]float64, error) {
	scores := make([]float64, len(folds))

	for fi, holdout := range folds {
		var trainX [][]float64
		var trainY []string
		for fj, fold := range folds {
			if fj == fi {
				continue
			}
			for _, i := range fold {
				trainX = append(trainX, x[i])
				trainY = append(trainY, y[i])
			}
		}

		forest, err := model.Fit(trainX, trainY, params, seed)
		if err != nil {
			return nil, err
		}

		correct := 0
		for _, i := range holdout {
			if forest.Predict(x[i]) == y[i] {
				correct++
			}
		}
		scores[fi] = float64(correct) / float64(len(holdout))
	}

	return scores, nil
}
