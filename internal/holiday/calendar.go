// Package holiday provides national holiday calendars used to derive the
// es_feriado feature. Calendars are total: asking about a year the calendar
// does not cover answers "not a holiday" so prediction is always available.
package holiday

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Calendar answers holiday lookups for one region. Safe for concurrent use.
type Calendar struct {
	region string
	yearFn func(year int) []time.Time

	mu    sync.Mutex
	years map[int]map[string]struct{}
}

// ForRegion returns the holiday calendar for a region code. Only "PE" (Peru)
// is currently available.
func ForRegion(region string) (*Calendar, error) {
	switch strings.ToUpper(strings.TrimSpace(region)) {
	case "PE":
		return &Calendar{
			region: "PE",
			yearFn: peruHolidays,
			years:  make(map[int]map[string]struct{}),
		}, nil
	default:
		return nil, fmt.Errorf("no holiday calendar for region %q", region)
	}
}

// Region returns the calendar's region code.
func (c *Calendar) Region() string { return c.region }

// IsHoliday reports whether the date falls on a holiday. Time of day and
// timezone offset are ignored; only the calendar date matters.
func (c *Calendar) IsHoliday(date time.Time) bool {
	if date.IsZero() {
		return false
	}

	c.mu.Lock()
	days, ok := c.years[date.Year()]
	if !ok {
		days = make(map[string]struct{})
		for _, d := range c.yearFn(date.Year()) {
			days[d.Format(time.DateOnly)] = struct{}{}
		}
		c.years[date.Year()] = days
	}
	c.mu.Unlock()

	_, holiday := days[date.Format(time.DateOnly)]
	return holiday
}
