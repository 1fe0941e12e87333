package holiday

import "time"

// peruHolidays returns the national non-working days of Peru for a year:
// the fixed civic and religious dates plus the Easter-movable ones. Holidays
// introduced by later decrees are gated on the year they took effect.
func peruHolidays(year int) []time.Time {
	date := func(month time.Month, day int) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}

	days := []time.Time{
		date(time.January, 1),   // Año Nuevo
		date(time.May, 1),       // Día del Trabajo
		date(time.June, 29),     // San Pedro y San Pablo
		date(time.July, 28),     // Fiestas Patrias
		date(time.July, 29),     // Fiestas Patrias
		date(time.August, 30),   // Santa Rosa de Lima
		date(time.October, 8),   // Combate de Angamos
		date(time.November, 1),  // Todos los Santos
		date(time.December, 8),  // Inmaculada Concepción
		date(time.December, 25), // Navidad
	}

	if year >= 2022 {
		days = append(days,
			date(time.August, 6),  // Batalla de Junín
			date(time.December, 9), // Batalla de Ayacucho
		)
	}
	if year >= 2023 {
		days = append(days,
			date(time.June, 7),  // Batalla de Arica y Día de la Bandera
			date(time.July, 23), // Día de la Fuerza Aérea del Perú
		)
	}

	easter := easterSunday(year)
	days = append(days,
		easter.AddDate(0, 0, -3), // Jueves Santo
		easter.AddDate(0, 0, -2), // Viernes Santo
	)

	return days
}

// easterSunday computes Gregorian Easter via the Meeus/Jones/Butcher
// algorithm, valid for all Gregorian years.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
