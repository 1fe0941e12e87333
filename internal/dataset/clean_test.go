package dataset

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaflow/congestion/internal/domain"
)

type stubCalendar struct {
	holidays map[string]bool
}

func (c stubCalendar) IsHoliday(t time.Time) bool {
	return c.holidays[t.Format(time.DateOnly)]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClean_EndToEndRow(t *testing.T) {
	rows := []domain.Observation{{
		Hour: 8, PeakHour: 1, LaneCount: 3,
		Weather: "Despejado", EventType: "Ninguno", Weekday: "Lunes", RoadType: "Avenida",
		Label: "alto ",
	}}

	cleaned, report := Clean(rows, nil, discardLogger())

	require.Len(t, cleaned, 1)
	obs := cleaned[0]
	assert.Equal(t, "ALTO", obs.Label)
	assert.Equal(t, domain.ShiftMorning, obs.Shift)
	assert.Equal(t, 1, obs.PeakHour)
	assert.Equal(t, 3, obs.LaneCount)
	assert.Equal(t, 0, obs.Holiday)
	assert.Equal(t, 1, report.RowsKept)
	assert.False(t, report.DatesPresent)
}

func TestClean_DropsUnlabeledAndInvalidRows(t *testing.T) {
	rows := []domain.Observation{
		{Hour: 8, LaneCount: 2, Label: "ALTO"},
		{Hour: 9, LaneCount: 2, Label: ""},
		{Hour: 10, LaneCount: 2, Label: "   "},
		{Hour: 11, LaneCount: 2, Label: "MEDIO"},
		{Hour: 12, LaneCount: 2, Label: " bajo"},
	}

	cleaned, report := Clean(rows, nil, discardLogger())

	require.Len(t, cleaned, 2)
	assert.Equal(t, "ALTO", cleaned[0].Label)
	assert.Equal(t, "BAJO", cleaned[1].Label)
	assert.Equal(t, 5, report.RowsIn)
	assert.Equal(t, 2, report.RowsKept)
	assert.Equal(t, 2, report.DroppedMissingLabel)
	assert.Equal(t, 1, report.DroppedInvalidLabel)
}

func TestClean_FillsMissingCategoricals(t *testing.T) {
	rows := []domain.Observation{
		{Hour: 14, LaneCount: 2, Label: "MODERADO"}, // all categoricals empty
	}

	cleaned, report := Clean(rows, nil, discardLogger())

	require.Len(t, cleaned, 1)
	obs := cleaned[0]
	assert.Equal(t, domain.Unknown, obs.Weather)
	assert.Equal(t, domain.Unknown, obs.EventType)
	assert.Equal(t, domain.Unknown, obs.Weekday)
	assert.Equal(t, domain.Unknown, obs.RoadType)
	assert.Equal(t, 4, report.FilledCategoricals)
}

func TestClean_FillsLaneCountWithMode(t *testing.T) {
	rows := []domain.Observation{
		{Hour: 8, LaneCount: 3, Label: "ALTO"},
		{Hour: 9, LaneCount: 3, Label: "ALTO"},
		{Hour: 10, LaneCount: 2, Label: "BAJO"},
		{Hour: 11, LaneCount: 0, Label: "BAJO"}, // missing
	}

	cleaned, report := Clean(rows, nil, discardLogger())

	require.Len(t, cleaned, 4)
	assert.Equal(t, 3, cleaned[3].LaneCount)
	assert.Equal(t, 1, report.FilledLaneCounts)
}

func TestModeLaneCount_TieBreaksToSmallest(t *testing.T) {
	rows := []domain.Observation{
		{LaneCount: 3}, {LaneCount: 3}, {LaneCount: 2}, {LaneCount: 2},
	}
	assert.Equal(t, 2, modeLaneCount(rows))
}

func TestModeLaneCount_NoUsableValues(t *testing.T) {
	assert.Equal(t, 1, modeLaneCount([]domain.Observation{{LaneCount: 0}}))
}

func TestClean_DerivesHolidayFromDates(t *testing.T) {
	fiestas := time.Date(2025, time.July, 28, 9, 0, 0, 0, time.UTC)
	ordinary := time.Date(2025, time.July, 30, 9, 0, 0, 0, time.UTC)
	cal := stubCalendar{holidays: map[string]bool{"2025-07-28": true}}

	rows := []domain.Observation{
		{Hour: 9, LaneCount: 2, Label: "ALTO", Timestamp: fiestas},
		{Hour: 9, LaneCount: 2, Label: "BAJO", Timestamp: ordinary},
	}

	cleaned, report := Clean(rows, cal, discardLogger())

	require.Len(t, cleaned, 2)
	assert.True(t, report.DatesPresent)
	assert.Equal(t, 1, cleaned[0].Holiday)
	assert.Equal(t, 0, cleaned[1].Holiday)
}

func TestClean_NoDatesMeansNoHolidays(t *testing.T) {
	cal := stubCalendar{holidays: map[string]bool{"2025-07-28": true}}
	rows := []domain.Observation{
		{Hour: 9, LaneCount: 2, Label: "ALTO", Holiday: 1}, // stale flag, no date
	}

	cleaned, report := Clean(rows, cal, discardLogger())

	require.Len(t, cleaned, 1)
	assert.False(t, report.DatesPresent)
	assert.Equal(t, 0, cleaned[0].Holiday)
}

func TestClean_DerivesShiftFromHour(t *testing.T) {
	rows := []domain.Observation{
		{Hour: 7, LaneCount: 2, Label: "ALTO", Shift: "Noche"}, // inconsistent input
		{Hour: 23, LaneCount: 2, Label: "BAJO"},
	}

	cleaned, _ := Clean(rows, nil, discardLogger())

	require.Len(t, cleaned, 2)
	assert.Equal(t, domain.ShiftMorning, cleaned[0].Shift)
	assert.Equal(t, domain.ShiftDawn, cleaned[1].Shift)
}

func TestClean_Idempotent(t *testing.T) {
	cal := stubCalendar{holidays: map[string]bool{"2025-07-28": true}}
	rows := []domain.Observation{
		{Hour: 8, PeakHour: 1, LaneCount: 3, Weather: "Despejado", EventType: "Ninguno", Weekday: "Lunes", RoadType: "Avenida", Label: "alto ", Timestamp: time.Date(2025, time.July, 28, 8, 0, 0, 0, time.UTC)},
		{Hour: 14, LaneCount: 0, Label: "moderado"},
		{Hour: 2, LaneCount: 2, Weather: "Tormenta", Label: "BAJO"},
		{Hour: 5, LaneCount: 2, Label: "INVALIDO"},
		{Hour: 6, LaneCount: 2, Label: ""},
	}

	once, _ := Clean(rows, cal, discardLogger())
	twice, reportTwice := Clean(once, cal, discardLogger())

	assert.Empty(t, cmp.Diff(once, twice))
	assert.Equal(t, len(once), reportTwice.RowsKept)
	assert.Zero(t, reportTwice.DroppedMissingLabel)
	assert.Zero(t, reportTwice.DroppedInvalidLabel)
	assert.Zero(t, reportTwice.FilledCategoricals)
	assert.Zero(t, reportTwice.FilledLaneCounts)
}
