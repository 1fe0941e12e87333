package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/limaflow/congestion/internal/domain"
	"github.com/limaflow/congestion/internal/predictor"
)

// predictRequest is the JSON body of POST /api/v1/predict. Field names match
// the training spreadsheet columns. Hour and timestamp are optional; when
// absent the server clock fills them in during enrichment.
type predictRequest struct {
	Hour      *int      `json:"hora"`
	LaneCount int       `json:"n_carriles"`
	RoadType  string    `json:"tipo_via"`
	EventType string    `json:"tipo_evento"`
	Weekday   string    `json:"dia_semana"`
	Weather   string    `json:"condicion_clima"`
	Timestamp time.Time `json:"fecha_hora"`
}

// Bind validates the request after decoding. Range checks that depend on the
// model live in the predictor; this is structural validation only.
func (p *predictRequest) Bind(r *http.Request) error {
	if p.LaneCount < 1 {
		return errors.New("n_carriles must be at least 1")
	}
	if p.RoadType == "" {
		return errors.New("tipo_via is required")
	}
	if p.Hour != nil && (*p.Hour < 0 || *p.Hour > 23) {
		return errors.New("hora must be between 0 and 23")
	}
	return nil
}

func (p *predictRequest) observation() domain.Observation {
	obs := domain.Observation{
		LaneCount: p.LaneCount,
		RoadType:  p.RoadType,
		EventType: p.EventType,
		Weekday:   p.Weekday,
		Weather:   p.Weather,
		Timestamp: p.Timestamp,
	}
	if p.Hour != nil {
		obs.Hour = *p.Hour
	} else {
		now := p.Timestamp
		if now.IsZero() {
			now = domain.Now()
		}
		obs.Hour = now.Hour()
	}
	return obs
}

// predictResponse is the JSON body returned for a scored request.
type predictResponse struct {
	Label        string             `json:"nivel_congestion"`
	Confidence   float64            `json:"confianza"`
	Distribution map[string]float64 `json:"probabilidades"`
	Context      domain.Observation `json:"contexto"`
}

func newPredictResponse(p predictor.Prediction) predictResponse {
	return predictResponse{
		Label:        p.Label,
		Confidence:   p.Confidence,
		Distribution: p.Distribution,
		Context:      p.Context,
	}
}
