package predictor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaflow/congestion/internal/artifact"
	"github.com/limaflow/congestion/internal/domain"
	"github.com/limaflow/congestion/internal/feature"
	"github.com/limaflow/congestion/internal/model"
)

// --- mocks ---

type mockWeather struct {
	description string
	err         error
}

func (m *mockWeather) CurrentDescription(ctx context.Context) (string, error) {
	return m.description, m.err
}

type mockCalendar struct {
	holidays map[string]bool
}

func (m *mockCalendar) IsHoliday(date time.Time) bool {
	return m.holidays[date.Format(time.DateOnly)]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// trainingObservations is a small but realistic corpus: peak morning hours on
// avenues run high, off-peak dawn hours run low, midday sits in between.
func trainingObservations() []domain.Observation {
	var out []domain.Observation
	add := func(hour, lanes int, weather, road, weekday, label string, n int) {
		for i := 0; i < n; i++ {
			out = append(out, domain.Observation{
				Hour:      hour,
				PeakHour:  boolToInt(domain.IsPeakHour(hour)),
				LaneCount: lanes,
				Weather:   weather,
				EventType: domain.EventNone,
				Weekday:   weekday,
				RoadType:  road,
				Shift:     domain.ClassifyShift(hour),
				Label:     label,
			})
		}
	}
	add(8, 2, domain.WeatherOvercast, "Avenida", "Lunes", domain.LabelHigh, 6)
	add(18, 3, domain.WeatherRain, "Avenida", "Viernes", domain.LabelHigh, 6)
	add(3, 2, domain.WeatherClear, "Calle", "Martes", domain.LabelLow, 6)
	add(23, 1, domain.WeatherClear, "Calle", "Domingo", domain.LabelLow, 6)
	add(13, 2, domain.WeatherOvercast, "Avenida", "Miércoles", domain.LabelModerate, 6)
	add(11, 3, domain.WeatherClear, "Avenida", "Jueves", domain.LabelModerate, 6)
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func testBundle(t *testing.T) *artifact.Bundle {
	t.Helper()
	observations := trainingObservations()
	schema := feature.BuildSchema(observations)
	x := feature.Matrix(observations, schema)
	y := feature.Labels(observations)

	forest, err := model.Fit(x, y, model.Params{Trees: 20, MaxDepth: 6, MinLeaf: 2}, 42)
	require.NoError(t, err)

	return &artifact.Bundle{
		Forest:      forest,
		Schema:      schema,
		Fingerprint: schema.Fingerprint(),
	}
}

func TestNew_Validation(t *testing.T) {
	t.Run("nil bundle", func(t *testing.T) {
		_, err := New(nil, nil, nil, discardLogger())
		require.Error(t, err)
	})

	t.Run("schema and model disagree", func(t *testing.T) {
		bundle := testBundle(t)
		bundle.Schema = bundle.Schema[:len(bundle.Schema)-1]
		_, err := New(bundle, nil, nil, discardLogger())
		require.Error(t, err)
	})
}

func TestPredict_PeakMorningOnAvenue(t *testing.T) {
	p, err := New(testBundle(t), &mockWeather{description: "cielo cubierto"}, &mockCalendar{}, discardLogger())
	require.NoError(t, err)

	got, err := p.Predict(context.Background(), domain.Observation{
		Hour:      8,
		LaneCount: 2,
		RoadType:  "Avenida",
		Weekday:   "Lunes",
		Timestamp: time.Date(2025, 7, 28, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.LabelHigh, got.Label)
	assert.Greater(t, got.Confidence, 0.0)
	assert.LessOrEqual(t, got.Confidence, 100.0)

	// Enriched context is echoed back with derived fields filled in.
	assert.Equal(t, domain.ShiftMorning, got.Context.Shift)
	assert.Equal(t, 1, got.Context.PeakHour)
	assert.Equal(t, domain.WeatherOvercast, got.Context.Weather)
}

func TestPredict_DistributionSumsToOne(t *testing.T) {
	p, err := New(testBundle(t), nil, nil, discardLogger())
	require.NoError(t, err)

	got, err := p.Predict(context.Background(), domain.Observation{
		Hour:      13,
		LaneCount: 2,
		RoadType:  "Avenida",
		Weekday:   "Miércoles",
		Timestamp: time.Date(2025, 7, 30, 13, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, got.Distribution, 3)
	sum := 0.0
	for _, v := range got.Distribution {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.InDelta(t, got.Distribution[got.Label]*100, got.Confidence, 1e-9)
}

func TestPredict_WeatherOutageDegradesToUnknown(t *testing.T) {
	weather := &mockWeather{err: errors.New("upstream timeout")}
	p, err := New(testBundle(t), weather, &mockCalendar{}, discardLogger())
	require.NoError(t, err)

	got, err := p.Predict(context.Background(), domain.Observation{
		Hour:      18,
		LaneCount: 3,
		RoadType:  "Avenida",
		Weekday:   "Viernes",
		Timestamp: time.Date(2025, 8, 1, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err, "a weather outage must not fail the prediction")

	assert.Equal(t, domain.WeatherUnknown, got.Context.Weather)
	assert.NotEmpty(t, got.Label)
	assert.Greater(t, got.Confidence, 0.0)
}

func TestPredict_HolidayContext(t *testing.T) {
	calendar := &mockCalendar{holidays: map[string]bool{"2025-07-28": true}}
	p, err := New(testBundle(t), nil, calendar, discardLogger())
	require.NoError(t, err)

	got, err := p.Predict(context.Background(), domain.Observation{
		Hour:      8,
		LaneCount: 2,
		RoadType:  "Avenida",
		Timestamp: time.Date(2025, 7, 28, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Context.Holiday)
}

func TestPredict_RejectsInvalidRequests(t *testing.T) {
	p, err := New(testBundle(t), nil, nil, discardLogger())
	require.NoError(t, err)

	t.Run("hour too high", func(t *testing.T) {
		_, err := p.Predict(context.Background(), domain.Observation{Hour: 24, LaneCount: 2})
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("negative hour", func(t *testing.T) {
		_, err := p.Predict(context.Background(), domain.Observation{Hour: -1, LaneCount: 2})
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("no lanes", func(t *testing.T) {
		_, err := p.Predict(context.Background(), domain.Observation{Hour: 8, LaneCount: 0})
		require.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestPredict_ConcurrentRequests(t *testing.T) {
	p, err := New(testBundle(t), &mockWeather{description: "despejado"}, &mockCalendar{}, discardLogger())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(hour int) {
			defer wg.Done()
			got, err := p.Predict(context.Background(), domain.Observation{
				Hour:      hour,
				LaneCount: 2,
				RoadType:  "Avenida",
				Timestamp: time.Date(2025, 8, 4, hour, 0, 0, 0, time.UTC),
			})
			assert.NoError(t, err)
			assert.NotEmpty(t, got.Label)
		}(i % 24)
	}
	wg.Wait()
}
