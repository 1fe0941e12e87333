// Package domain models Lima road-traffic observations for congestion
// prediction.
//
// # Data Source
//
// Historical observations come from a manually curated spreadsheet, one row
// per observation, with the Spanish column names used by the municipal data
// team (hora, es_hora_pico, n_carriles, condicion_clima, tipo_evento,
// dia_semana, tipo_via, nivel_congestion, optional fecha_hora). The dataset
// package loads and cleans that file; this package holds the row model and
// the pure derivations shared by training and inference.
//
// # Conventions
//
// Congestion label:
//
//	One of exactly three classes after normalization (uppercase + trim):
//	ALTO, BAJO, MODERADO. Rows with any other value are excluded from
//	training.
//
// Shift (turno):
//
//	A coarse partition of the day derived from the hour:
//	  Mañana    [6,12)
//	  Tarde     [12,18)
//	  Noche     [18,22)
//	  Madrugada [22,24) ∪ [0,6)
//	Every hour in 0–23 maps to exactly one shift.
//
// Peak hour (hora pico):
//
//	Lima rush windows, inclusive on both ends: 06–10 and 17–20. This
//	range-based rule is canonical for inference; the spreadsheet column is
//	honored when present for historical rows.
//
// Holiday (feriado):
//
//	Derived from the observation date against the Peruvian holiday calendar.
//	Never a free-form input at inference time.
//
// Weather (condición del clima):
//
//	Five categories matching the historical data: Despejado, Cielo cubierto,
//	Lluvia ligera, Tormenta, Desconocido. Live weather descriptions are
//	mapped by keyword; anything unrecognized, and any lookup failure, is
//	Desconocido so a prediction can always proceed.
package domain
