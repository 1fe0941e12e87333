package domain

import "strings"

// Congestion classes after normalization.
const (
	LabelHigh     = "ALTO"
	LabelLow      = "BAJO"
	LabelModerate = "MODERADO"
)

// ReportOrder is the fixed class ordering used for classification reports and
// confusion matrices, independent of which classes appear in a partition.
var ReportOrder = []string{LabelHigh, LabelLow, LabelModerate}

// NormalizeLabel uppercases and trims a raw congestion label.
func NormalizeLabel(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidLabel reports whether a normalized label is one of the three canonical
// congestion classes.
func ValidLabel(label string) bool {
	switch label {
	case LabelHigh, LabelLow, LabelModerate:
		return true
	default:
		return false
	}
}
