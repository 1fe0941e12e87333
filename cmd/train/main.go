// Command train builds a congestion model from a historical traffic
// spreadsheet. It cleans the raw rows, derives the feature schema, runs a
// cross-validated hyperparameter search, prints an evaluation report, and
// writes the model and schema artifacts the prediction server loads.
//
// Usage:
//
//	go run ./cmd/train \
//	  -input datos_trafico.xlsx \
//	  -model-out artifacts/modelo_congestion.gob \
//	  -schema-out artifacts/columnas_modelo.json
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/limaflow/congestion/internal/artifact"
	"github.com/limaflow/congestion/internal/dataset"
	"github.com/limaflow/congestion/internal/domain"
	"github.com/limaflow/congestion/internal/feature"
	"github.com/limaflow/congestion/internal/holiday"
	"github.com/limaflow/congestion/internal/observability"
	"github.com/limaflow/congestion/internal/train"
)

func main() {
	input := flag.String("input", "datos_trafico.xlsx", "path to the historical traffic spreadsheet")
	modelOut := flag.String("model-out", "artifacts/modelo_congestion.gob", "path for the serialized model")
	schemaOut := flag.String("schema-out", "artifacts/columnas_modelo.json", "path for the feature schema")
	region := flag.String("region", "PE", "holiday calendar region code")
	seed := flag.Int64("seed", 42, "random seed for splitting and training")
	testFraction := flag.Float64("test-fraction", 0.2, "held-out fraction for evaluation")
	folds := flag.Int("folds", 3, "cross-validation folds for the grid search")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	if code := run(*input, *modelOut, *schemaOut, *region, *seed, *testFraction, *folds, *logLevel); code != 0 {
		os.Exit(code)
	}
}

func run(input, modelOut, schemaOut, region string, seed int64, testFraction float64, folds int, logLevel string) int {
	logger := observability.NewLogger(logLevel, "text")

	calendar, err := holiday.ForRegion(region)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: holiday calendar: %v\n", err)
		return 1
	}

	// ── Load and clean ──
	raw, err := dataset.Load(input)
	if err != nil {
		if errors.Is(err, dataset.ErrInputNotFound) {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			fmt.Fprintf(os.Stderr, "Place the historical spreadsheet at %s or pass -input.\n", input)
			return 1
		}
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		return 1
	}

	observations, report := dataset.Clean(raw, calendar, logger)
	if len(observations) == 0 {
		fmt.Fprintf(os.Stderr, "FATAL: no usable rows after cleaning (%d read)\n", report.RowsIn)
		return 1
	}

	fmt.Println("=== Congestion Model Training ===")
	fmt.Println()
	fmt.Printf("Rows: %d read, %d kept (%d missing label, %d invalid label)\n",
		report.RowsIn, report.RowsKept, report.DroppedMissingLabel, report.DroppedInvalidLabel)
	fmt.Printf("Fills: %d categorical, %d lane count\n", report.FilledCategoricals, report.FilledLaneCounts)
	if !report.DatesPresent {
		fmt.Println("Note: no timestamps in the input; holiday flags default to 0.")
	}

	// ── Encode ──
	schema := feature.BuildSchema(observations)
	x := feature.Matrix(observations, schema)
	y := feature.Labels(observations)
	fmt.Printf("Schema: %d columns, fingerprint %s\n", len(schema), schema.Fingerprint())

	split, err := train.StratifiedSplit(x, y, testFraction, seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: split dataset: %v\n", err)
		return 1
	}

	// ── Grid search ──
	forest, search, err := train.GridSearch(context.Background(), split.TrainX, split.TrainY, train.DefaultGrid(), folds, seed, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: grid search: %v\n", err)
		return 1
	}
	fmt.Println()
	fmt.Printf("Best candidate (of %d): %s\n", search.Candidates, search.Params)
	fmt.Printf("Mean CV accuracy: %.4f (folds: %s)\n", search.MeanCV, formatScores(search.FoldScores))

	// ── Evaluate ──
	eval := train.Evaluate(forest, split.TestX, split.TestY, schema)
	printEvaluation(eval)

	// ── Export ──
	bundle, err := artifact.Save(modelOut, schemaOut, forest, schema, eval.Accuracy, search.MeanCV)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: save artifacts: %v\n", err)
		return 1
	}

	fmt.Println()
	fmt.Printf("Model written to %s\n", modelOut)
	fmt.Printf("Schema written to %s\n", schemaOut)
	fmt.Printf("Run ID: %s\n", bundle.RunID)
	return 0
}

func printEvaluation(eval train.Evaluation) {
	fmt.Println()
	fmt.Printf("Held-out accuracy: %.4f\n", eval.Accuracy)

	fmt.Println()
	fmt.Printf("  %-10s %10s %10s %10s %8s\n", "class", "precision", "recall", "f1", "support")
	for _, c := range eval.Classes {
		fmt.Printf("  %-10s %10.4f %10.4f %10.4f %8d\n", c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}

	fmt.Println()
	fmt.Println("Confusion matrix (rows: actual, columns: predicted):")
	fmt.Printf("  %-10s", "")
	for _, label := range domain.ReportOrder {
		fmt.Printf(" %9s", label)
	}
	fmt.Println()
	for i, label := range domain.ReportOrder {
		fmt.Printf("  %-10s", label)
		for _, n := range eval.Confusion[i] {
			fmt.Printf(" %9d", n)
		}
		fmt.Println()
	}

	if len(eval.Importances) > 0 {
		fmt.Println()
		fmt.Println("Top feature importances:")
		limit := len(eval.Importances)
		if limit > 10 {
			limit = 10
		}
		for _, imp := range eval.Importances[:limit] {
			fmt.Printf("  %-28s %.4f\n", imp.Column, imp.Weight)
		}
	}
}

func formatScores(scores []float64) string {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = fmt.Sprintf("%.4f", s)
	}
	return strings.Join(parts, ", ")
}
