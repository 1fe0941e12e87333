package domain

import "time"

// Canonical categorical values observed in the historical data. The encoder
// treats these as opaque category strings; the constants exist so callers and
// tests don't scatter literals.
const (
	WeatherClear    = "Despejado"
	WeatherOvercast = "Cielo cubierto"
	WeatherRain     = "Lluvia ligera"
	WeatherStorm    = "Tormenta"
	WeatherUnknown  = "Desconocido"

	EventNone     = "Ninguno"
	EventAccident = "Accidente"
	EventRoadwork = "Obras"
	EventProtest  = "Manifestación"

	// Unknown is the placeholder category substituted for any missing
	// categorical field during cleaning. The model learns it like any other
	// category, so inference is free to emit it.
	Unknown = "Desconocido"
)

// Observation is one traffic observation, either a historical training row
// after cleaning or a live row assembled at inference time.
//
// PeakHour, Holiday, and the hour itself are kept as 0/1 integers rather than
// bools because they enter the feature matrix as numeric columns.
type Observation struct {
	Hour      int       `json:"hora"`
	PeakHour  int       `json:"es_hora_pico"`
	LaneCount int       `json:"n_carriles"`
	Weather   string    `json:"condicion_clima"`
	EventType string    `json:"tipo_evento"`
	Weekday   string    `json:"dia_semana"`
	RoadType  string    `json:"tipo_via"`
	Shift     string    `json:"turno"`
	Holiday   int       `json:"es_feriado"`
	Label     string    `json:"nivel_congestion,omitempty"`
	Timestamp time.Time `json:"fecha_hora,omitempty"`
}

// Feature field names. These are the spreadsheet column names and double as
// the prefixes of the one-hot columns in the persisted schema, so they must
// never change once a model has been trained.
const (
	FieldHour      = "hora"
	FieldPeakHour  = "es_hora_pico"
	FieldLaneCount = "n_carriles"
	FieldWeather   = "condicion_clima"
	FieldEventType = "tipo_evento"
	FieldWeekday   = "dia_semana"
	FieldRoadType  = "tipo_via"
	FieldShift     = "turno"
	FieldHoliday   = "es_feriado"
)

// NumericFields lists the raw numeric feature columns in canonical order.
var NumericFields = []string{FieldHour, FieldPeakHour, FieldLaneCount, FieldHoliday}

// CategoricalFields lists the one-hot-expanded fields in canonical order.
var CategoricalFields = []string{FieldWeather, FieldEventType, FieldWeekday, FieldRoadType, FieldShift}

// NumericValues returns the observation's numeric feature values aligned with
// NumericFields.
func (o Observation) NumericValues() []float64 {
	return []float64{float64(o.Hour), float64(o.PeakHour), float64(o.LaneCount), float64(o.Holiday)}
}

// CategoricalValues returns the observation's categorical values aligned with
// CategoricalFields.
func (o Observation) CategoricalValues() []string {
	return []string{o.Weather, o.EventType, o.Weekday, o.RoadType, o.Shift}
}
