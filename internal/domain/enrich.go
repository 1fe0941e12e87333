package domain

import (
	"context"
	"log/slog"
	"time"
)

// HolidayCalendar reports whether a calendar date is a holiday. Time of day
// is ignored. Implementations must be total: years outside the covered range
// are simply not holidays.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

// EnrichObservation fills live context into an observation before encoding:
// current weather, the holiday flag for today, and the hour-derived shift and
// peak flag. Shift and peak hour are always recomputed from the hour so an
// inconsistent input can't reach the model.
//
// Weather lookup failure degrades to Desconocido and a nil provider leaves an
// already-set weather value alone; prediction always proceeds with whatever
// context is available.
func EnrichObservation(ctx context.Context, obs Observation, weather WeatherProvider, calendar HolidayCalendar, logger *slog.Logger) Observation {
	obs.Shift = ClassifyShift(obs.Hour)
	obs.PeakHour = 0
	if IsPeakHour(obs.Hour) {
		obs.PeakHour = 1
	}

	if weather != nil {
		desc, err := weather.CurrentDescription(ctx)
		if err != nil {
			logger.Warn("weather lookup failed, using unknown condition", "error", err)
			obs.Weather = WeatherUnknown
		} else {
			obs.Weather = MapWeatherDescription(desc)
		}
	} else if obs.Weather == "" {
		obs.Weather = WeatherUnknown
	}

	if obs.Timestamp.IsZero() {
		obs.Timestamp = clock.Now()
	}
	obs.Holiday = 0
	if calendar != nil && calendar.IsHoliday(obs.Timestamp) {
		obs.Holiday = 1
	}

	if obs.EventType == "" {
		obs.EventType = EventNone
	}
	if obs.Weekday == "" {
		obs.Weekday = SpanishWeekday(obs.Timestamp.Weekday())
	}

	return obs
}

// spanishWeekdays is indexed by time.Weekday (Sunday = 0).
var spanishWeekdays = [7]string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

// SpanishWeekday returns the Spanish day name used by the training data.
func SpanishWeekday(d time.Weekday) string {
	return spanishWeekdays[d]
}
