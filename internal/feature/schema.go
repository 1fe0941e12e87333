// Package feature fixes the encoding contract between training and
// inference: one canonical, order-stable list of feature columns built once
// per training run, persisted next to the model, and used as the alignment
// target for every vector the model ever sees.
package feature

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/limaflow/congestion/internal/domain"
)

// Schema is the ordered feature-column list. Numeric columns come first in
// their declared order, then one-hot columns grouped by categorical field
// with categories sorted within each field. The first category of every
// field is dropped at training time to avoid perfect collinearity; at
// inference the schema list itself is the alignment target, so the dropped
// category simply encodes as all-zeros for its field.
type Schema []string

// BuildSchema derives the canonical schema from cleaned training rows.
// Identical row sets always produce an identical schema, regardless of row
// order.
func BuildSchema(observations []domain.Observation) Schema {
	columns := make(Schema, 0, len(domain.NumericFields)+16)
	columns = append(columns, domain.NumericFields...)

	for fi, field := range domain.CategoricalFields {
		seen := make(map[string]struct{})
		for _, obs := range observations {
			value := obs.CategoricalValues()[fi]
			if value != "" {
				seen[value] = struct{}{}
			}
		}

		categories := make([]string, 0, len(seen))
		for value := range seen {
			categories = append(categories, value)
		}
		sort.Strings(categories)

		// Drop-first: the lexicographically first observed category carries
		// no column of its own.
		for _, category := range categories[min(1, len(categories)):] {
			columns = append(columns, dummyColumn(field, category))
		}
	}

	return columns
}

// Fingerprint returns a short sha256 digest of the column list, used to pair
// a model artifact with the schema it was trained against.
func (s Schema) Fingerprint() string {
	hash := sha256.Sum256([]byte(strings.Join(s, "\x1f")))
	return hex.EncodeToString(hash[:8])
}

func dummyColumn(field, category string) string {
	return field + "_" + category
}
