package domain

// Shift labels derived from the hour of day.
const (
	ShiftMorning   = "Mañana"
	ShiftAfternoon = "Tarde"
	ShiftNight     = "Noche"
	ShiftDawn      = "Madrugada"
)

// ClassifyShift maps an hour of day to its shift. The four ranges partition
// 0–23: Mañana [6,12), Tarde [12,18), Noche [18,22), Madrugada otherwise.
// Out-of-range hours fall into Madrugada rather than erroring; the cleaner
// coerces malformed hours to 0 before this runs.
func ClassifyShift(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return ShiftMorning
	case hour >= 12 && hour < 18:
		return ShiftAfternoon
	case hour >= 18 && hour < 22:
		return ShiftNight
	default:
		return ShiftDawn
	}
}

// IsPeakHour reports whether the hour falls in a Lima rush window,
// 06–10 or 17–20 inclusive on both ends.
func IsPeakHour(hour int) bool {
	return (hour >= 6 && hour <= 10) || (hour >= 17 && hour <= 20)
}
