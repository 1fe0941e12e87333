package train

import (
	"sort"

	"github.com/limaflow/congestion/internal/domain"
	"github.com/limaflow/congestion/internal/feature"
	"github.com/limaflow/congestion/internal/model"
)

// ClassReport holds per-class precision/recall/F1 over the held-out set.
type ClassReport struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// FeatureImportance pairs a schema column with its normalized importance.
type FeatureImportance struct {
	Column string
	Weight float64
}

// Evaluation is the full held-out assessment of a fitted model. The
// confusion matrix is always 3x3 over domain.ReportOrder (rows: actual,
// columns: predicted); a class absent from the test partition yields a zero
// row. Importances are diagnostic only and never affect prediction.
type Evaluation struct {
	Accuracy    float64
	Classes     []ClassReport
	Confusion   [][]int
	Importances []FeatureImportance
}

// Evaluate scores a fitted forest on a held-out partition.
func Evaluate(forest *model.RandomForest, x [][]float64, y []string, schema feature.Schema) Evaluation {
	order := domain.ReportOrder
	index := make(map[string]int, len(order))
	for i, label := range order {
		index[label] = i
	}

	confusion := make([][]int, len(order))
	for i := range confusion {
		confusion[i] = make([]int, len(order))
	}

	correct := 0
	for i, row := range x {
		predicted := forest.Predict(row)
		if predicted == y[i] {
			correct++
		}
		ai, aok := index[y[i]]
		pi, pok := index[predicted]
		if aok && pok {
			confusion[ai][pi]++
		}
	}

	eval := Evaluation{
		Confusion:   confusion,
		Classes:     make([]ClassReport, 0, len(order)),
		Importances: rankImportances(forest, schema),
	}
	if len(x) > 0 {
		eval.Accuracy = float64(correct) / float64(len(x))
	}

	for i, label := range order {
		var predictedAs, actual int
		for j := range order {
			predictedAs += confusion[j][i]
			actual += confusion[i][j]
		}

		report := ClassReport{Label: label, Support: actual}
		tp := float64(confusion[i][i])
		if predictedAs > 0 {
			report.Precision = tp / float64(predictedAs)
		}
		if actual > 0 {
			report.Recall = tp / float64(actual)
		}
		if report.Precision+report.Recall > 0 {
			report.F1 = 2 * report.Precision * report.Recall / (report.Precision + report.Recall)
		}
		eval.Classes = append(eval.Classes, report)
	}

	return eval
}

// rankImportances sorts schema columns by importance, highest first; equal
// weights keep schema order.
func rankImportances(forest *model.RandomForest, schema feature.Schema) []FeatureImportance {
	if len(schema) != len(forest.Importance) {
		return nil
	}
	ranked := make([]FeatureImportance, len(schema))
	for i, column := range schema {
		ranked[i] = FeatureImportance{Column: column, Weight: forest.Importance[i]}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Weight > ranked[j].Weight })
	return ranked
}
