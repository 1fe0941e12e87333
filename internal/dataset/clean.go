package dataset

import (
	"log/slog"
	"sort"

	"github.com/limaflow/congestion/internal/domain"
)

// Report summarizes the data-quality outcome of one cleaning pass. Dropped
// rows are a data-quality note, never an error.
type Report struct {
	RowsIn              int
	RowsKept            int
	DroppedMissingLabel int
	DroppedInvalidLabel int
	FilledCategoricals  int
	FilledLaneCounts    int
	DatesPresent        bool
}

// Clean normalizes raw observations into training-ready rows:
//
//  1. rows without a label are dropped;
//  2. missing categorical fields become the Desconocido placeholder;
//  3. missing lane counts take the most frequent observed value;
//  4. the holiday flag is derived from the timestamp when the spreadsheet
//     carried dates, otherwise every row gets 0 and a warning is logged;
//  5. the shift is derived from the hour;
//  6. labels are normalized and rows outside {ALTO, BAJO, MODERADO} dropped.
//
// Clean is idempotent: running it on its own output changes nothing.
func Clean(observations []domain.Observation, calendar domain.HolidayCalendar, logger *slog.Logger) ([]domain.Observation, Report) {
	report := Report{RowsIn: len(observations)}

	labeled := make([]domain.Observation, 0, len(observations))
	for _, obs := range observations {
		if domain.NormalizeLabel(obs.Label) == "" {
			report.DroppedMissingLabel++
			continue
		}
		labeled = append(labeled, obs)
	}

	laneMode := modeLaneCount(labeled)
	report.DatesPresent = anyTimestamp(labeled)
	if !report.DatesPresent {
		logger.Warn("no fecha_hora values in input, assuming es_feriado=0 for all rows")
	} else if calendar == nil {
		logger.Warn("no holiday calendar configured, assuming es_feriado=0 for all rows")
	}

	cleaned := make([]domain.Observation, 0, len(labeled))
	for _, obs := range labeled {
		obs.Weather = fillCategorical(obs.Weather, &report)
		obs.EventType = fillCategorical(obs.EventType, &report)
		obs.Weekday = fillCategorical(obs.Weekday, &report)
		obs.RoadType = fillCategorical(obs.RoadType, &report)

		if obs.LaneCount < 1 {
			obs.LaneCount = laneMode
			report.FilledLaneCounts++
		}

		obs.Holiday = 0
		if report.DatesPresent && calendar != nil && calendar.IsHoliday(obs.Timestamp) {
			obs.Holiday = 1
		}

		obs.Shift = domain.ClassifyShift(obs.Hour)

		obs.Label = domain.NormalizeLabel(obs.Label)
		if !domain.ValidLabel(obs.Label) {
			report.DroppedInvalidLabel++
			continue
		}

		cleaned = append(cleaned, obs)
	}

	report.RowsKept = len(cleaned)
	return cleaned, report
}

func fillCategorical(value string, report *Report) string {
	if value == "" {
		report.FilledCategoricals++
		return domain.Unknown
	}
	return value
}

// modeLaneCount returns the most frequent positive lane count, smallest value
// on ties, 1 when nothing usable is present.
func modeLaneCount(observations []domain.Observation) int {
	counts := make(map[int]int)
	for _, obs := range observations {
		if obs.LaneCount >= 1 {
			counts[obs.LaneCount]++
		}
	}
	if len(counts) == 0 {
		return 1
	}

	values := make([]int, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Ints(values)

	mode, best := values[0], 0
	for _, v := range values {
		if counts[v] > best {
			mode, best = v, counts[v]
		}
	}
	return mode
}

func anyTimestamp(observations []domain.Observation) bool {
	for _, obs := range observations {
		if !obs.Timestamp.IsZero() {
			return true
		}
	}
	return false
}
