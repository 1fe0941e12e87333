package domain

import (
	"context"
	"strings"
)

// WeatherProvider looks up the current weather as a free-text description.
// Implementations return an error on any transport or payload failure; the
// collapse to Desconocido happens in EnrichObservation so failures stay
// visible to logs and metrics.
type WeatherProvider interface {
	CurrentDescription(ctx context.Context) (string, error)
}

// weatherKeywords maps description substrings to weather categories, checked
// in order. The live API is queried with lang=es, but English keywords are
// matched too so the provider language is not load-bearing.
var weatherKeywords = []struct {
	keywords []string
	category string
}{
	{[]string{"nub", "cubierto", "cloud", "overcast"}, WeatherOvercast},
	{[]string{"lluvia", "rain", "llovizna", "drizzle"}, WeatherRain},
	{[]string{"tormenta", "storm", "thunder"}, WeatherStorm},
	{[]string{"claro", "sol", "despejado", "clear", "sun"}, WeatherClear},
}

// MapWeatherDescription maps a free-text weather description to one of the
// five weather categories. Matching is case-insensitive substring search;
// anything unrecognized is Desconocido.
func MapWeatherDescription(description string) string {
	desc := strings.ToLower(strings.TrimSpace(description))
	if desc == "" {
		return WeatherUnknown
	}
	for _, rule := range weatherKeywords {
		for _, kw := range rule.keywords {
			if strings.Contains(desc, kw) {
				return rule.category
			}
		}
	}
	return WeatherUnknown
}
