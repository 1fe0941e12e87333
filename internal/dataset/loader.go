// Package dataset loads and cleans the historical traffic spreadsheet. The
// loader is lenient (malformed cells coerce to zero values) and the cleaner
// is strict about labels: only rows with one of the three canonical
// congestion classes survive into training.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/limaflow/congestion/internal/domain"
)

// ErrInputNotFound marks a missing training input file, which is fatal for a
// training run: the operator must supply the spreadsheet.
var ErrInputNotFound = errors.New("training input file not found")

// labelColumn must be present in the header row for a sheet to qualify as
// training data.
const labelColumn = "nivel_congestion"

// timestampLayouts are tried in order when parsing the optional fecha_hora
// column. Excel renders datetimes differently depending on cell formatting.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/06 15:04",
	"1/2/06 15:04",
}

// Load reads observations from an xlsx spreadsheet. The first sheet whose
// header row contains nivel_congestion is used; header names are matched
// case-insensitively. Cell values are coerced, not validated: non-numeric
// hours become 0, missing cells become empty strings. Cleaning happens in
// Clean.
func Load(path string) ([]domain.Observation, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("stat input file: %w", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}
		columns, ok := headerIndex(rows[0])
		if !ok {
			continue
		}
		return parseRows(rows[1:], columns), nil
	}

	return nil, fmt.Errorf("no sheet with a %s column in %s", labelColumn, path)
}

// headerIndex maps lowercased header names to their column positions.
func headerIndex(header []string) (map[string]int, bool) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	_, ok := columns[labelColumn]
	return columns, ok
}

func parseRows(rows [][]string, columns map[string]int) []domain.Observation {
	observations := make([]domain.Observation, 0, len(rows))
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		cell := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		observations = append(observations, domain.Observation{
			Hour:      parseIntOrZero(cell(domain.FieldHour)),
			PeakHour:  parseFlag(cell(domain.FieldPeakHour)),
			LaneCount: parseIntOrZero(cell(domain.FieldLaneCount)),
			Weather:   cell(domain.FieldWeather),
			EventType: cell(domain.FieldEventType),
			Weekday:   cell(domain.FieldWeekday),
			RoadType:  cell(domain.FieldRoadType),
			Label:     cell(labelColumn),
			Timestamp: parseTimestamp(cell("fecha_hora")),
		})
	}
	return observations
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseIntOrZero parses an integer, accepting float renderings like "3.0".
// Anything unparseable is 0.
func parseIntOrZero(s string) int {
	if s == "" {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int(v)
	}
	return 0
}

// parseFlag parses a 0/1 column that may also be rendered as a boolean.
func parseFlag(s string) int {
	switch strings.ToLower(s) {
	case "1", "true", "verdadero", "si", "sí":
		return 1
	default:
		return 0
	}
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
