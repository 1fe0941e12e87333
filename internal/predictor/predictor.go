// Package predictor turns a loaded model bundle into a concurrency-safe
// scoring service. Each request is enriched with live context (weather,
// holiday calendar, derived time fields) before encoding, mirroring exactly
// the transformations applied at training time.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/limaflow/congestion/internal/artifact"
	"github.com/limaflow/congestion/internal/domain"
	"github.com/limaflow/congestion/internal/feature"
	"github.com/limaflow/congestion/internal/model"
)

// ErrInvalidRequest marks a request that cannot be scored as given.
var ErrInvalidRequest = errors.New("invalid prediction request")

// Prediction is the scored outcome for one observation.
type Prediction struct {
	Label        string             // winning congestion level
	Confidence   float64            // winning probability as a percentage, (0, 100]
	Distribution map[string]float64 // probability per class, sums to 1
	Context      domain.Observation // the fully enriched observation that was scored
}

// Predictor holds the immutable scoring context. The forest and schema never
// change after construction, so a single Predictor serves any number of
// concurrent requests.
type Predictor struct {
	forest   *model.RandomForest
	schema   feature.Schema
	weather  domain.WeatherProvider
	calendar domain.HolidayCalendar
	logger   *slog.Logger
}

// New builds a Predictor around a loaded artifact bundle. weather may be nil
// when no live provider is configured; calendar may be nil when holiday
// context is unavailable. Both degrade rather than fail.
func New(bundle *artifact.Bundle, weather domain.WeatherProvider, calendar domain.HolidayCalendar, logger *slog.Logger) (*Predictor, error) {
	if bundle == nil || bundle.Forest == nil {
		return nil, errors.New("predictor requires a loaded model bundle")
	}
	if len(bundle.Schema) != bundle.Forest.NumFeatures {
		return nil, fmt.Errorf("schema has %d columns but model expects %d features", len(bundle.Schema), bundle.Forest.NumFeatures)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Predictor{
		forest:   bundle.Forest,
		schema:   bundle.Schema,
		weather:  weather,
		calendar: calendar,
		logger:   logger,
	}, nil
}

// Predict enriches and scores a single observation. Missing external context
// degrades to neutral values; a prediction is always produced for a valid
// request.
func (p *Predictor) Predict(ctx context.Context, obs domain.Observation) (Prediction, error) {
	if obs.Hour < 0 || obs.Hour > 23 {
		return Prediction{}, fmt.Errorf("%w: hour %d outside [0, 23]", ErrInvalidRequest, obs.Hour)
	}
	if obs.LaneCount < 1 {
		return Prediction{}, fmt.Errorf("%w: lane count %d must be at least 1", ErrInvalidRequest, obs.LaneCount)
	}

	enriched := domain.EnrichObservation(ctx, obs, p.weather, p.calendar, p.logger)
	row := feature.Encode(enriched, p.schema)

	probs := p.forest.PredictProba(row)
	labels := p.forest.Classes()
	best := 0
	for i := range probs {
		if probs[i] > probs[best] {
			best = i
		}
	}

	distribution := make(map[string]float64, len(labels))
	for i, label := range labels {
		distribution[label] = probs[i]
	}

	return Prediction{
		Label:        labels[best],
		Confidence:   probs[best] * 100,
		Distribution: distribution,
		Context:      enriched,
	}, nil
}

// Classes exposes the model's label set in its canonical order.
func (p *Predictor) Classes() []string {
	return p.forest.Classes()
}
