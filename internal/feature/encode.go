package feature

import "github.com/limaflow/congestion/internal/domain"

// Encode turns one observation into a feature vector aligned to the schema.
// The observation's categorical fields are one-hot expanded without
// drop-first, then reindexed: schema columns the observation doesn't produce
// are 0, and categories the schema has never seen are discarded rather than
// erroring. The result always has len(schema) entries and is the same for
// the same (observation, schema) pair.
func Encode(obs domain.Observation, schema Schema) []float64 {
	values := make(map[string]float64, len(domain.NumericFields)+len(domain.CategoricalFields))

	numeric := obs.NumericValues()
	for i, field := range domain.NumericFields {
		values[field] = numeric[i]
	}
	categorical := obs.CategoricalValues()
	for i, field := range domain.CategoricalFields {
		if categorical[i] != "" {
			values[dummyColumn(field, categorical[i])] = 1
		}
	}

	vector := make([]float64, len(schema))
	for i, column := range schema {
		vector[i] = values[column]
	}
	return vector
}

// Matrix encodes a batch of observations against the schema.
func Matrix(observations []domain.Observation, schema Schema) [][]float64 {
	rows := make([][]float64, len(observations))
	for i, obs := range observations {
		rows[i] = Encode(obs, schema)
	}
	return rows
}

// Labels extracts the congestion labels of a batch of observations.
func Labels(observations []domain.Observation) []string {
	labels := make([]string, len(observations))
	for i, obs := range observations {
		labels[i] = obs.Label
	}
	return labels
}
