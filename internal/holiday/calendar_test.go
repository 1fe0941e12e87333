package holiday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestForRegion(t *testing.T) {
	t.Run("peru", func(t *testing.T) {
		cal, err := ForRegion("PE")
		require.NoError(t, err)
		assert.Equal(t, "PE", cal.Region())
	})

	t.Run("lowercase and padding accepted", func(t *testing.T) {
		cal, err := ForRegion(" pe ")
		require.NoError(t, err)
		assert.Equal(t, "PE", cal.Region())
	})

	t.Run("unknown region", func(t *testing.T) {
		_, err := ForRegion("XX")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "XX")
	})
}

func TestIsHoliday_FixedDates(t *testing.T) {
	cal, err := ForRegion("PE")
	require.NoError(t, err)

	tests := []struct {
		name     string
		date     time.Time
		expected bool
	}{
		{"new year", date(2025, time.January, 1), true},
		{"labor day", date(2025, time.May, 1), true},
		{"fiestas patrias day one", date(2025, time.July, 28), true},
		{"fiestas patrias day two", date(2025, time.July, 29), true},
		{"santa rosa", date(2025, time.August, 30), true},
		{"angamos", date(2025, time.October, 8), true},
		{"christmas", date(2025, time.December, 25), true},
		{"ordinary tuesday", date(2025, time.March, 11), false},
		{"day after new year", date(2025, time.January, 2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cal.IsHoliday(tt.date))
		})
	}
}

func TestIsHoliday_EasterMovable(t *testing.T) {
	cal, err := ForRegion("PE")
	require.NoError(t, err)

	// Easter 2025 falls on April 20; 2024 on March 31.
	assert.True(t, cal.IsHoliday(date(2025, time.April, 17)), "Jueves Santo 2025")
	assert.True(t, cal.IsHoliday(date(2025, time.April, 18)), "Viernes Santo 2025")
	assert.False(t, cal.IsHoliday(date(2025, time.April, 19)))
	assert.True(t, cal.IsHoliday(date(2024, time.March, 28)), "Jueves Santo 2024")
	assert.True(t, cal.IsHoliday(date(2024, time.March, 29)), "Viernes Santo 2024")
}

func TestIsHoliday_DecreeYearGates(t *testing.T) {
	cal, err := ForRegion("PE")
	require.NoError(t, err)

	assert.False(t, cal.IsHoliday(date(2021, time.August, 6)))
	assert.True(t, cal.IsHoliday(date(2022, time.August, 6)))
	assert.False(t, cal.IsHoliday(date(2022, time.June, 7)))
	assert.True(t, cal.IsHoliday(date(2023, time.June, 7)))
}

// Lookup must be total: distant years and the zero time never error, they are
// just not holidays (or follow the computed table where it applies).
func TestIsHoliday_TotalOverYears(t *testing.T) {
	cal, err := ForRegion("PE")
	require.NoError(t, err)

	assert.False(t, cal.IsHoliday(time.Time{}))
	assert.False(t, cal.IsHoliday(date(1890, time.March, 3)))
	assert.True(t, cal.IsHoliday(date(2100, time.December, 25)))
}

func TestIsHoliday_IgnoresTimeOfDay(t *testing.T) {
	cal, err := ForRegion("PE")
	require.NoError(t, err)

	lima := time.FixedZone("PET", -5*3600)
	assert.True(t, cal.IsHoliday(time.Date(2025, time.July, 28, 23, 59, 0, 0, lima)))
	assert.True(t, cal.IsHoliday(time.Date(2025, time.December, 25, 0, 0, 1, 0, time.UTC)))
}

func TestEasterSunday(t *testing.T) {
	tests := []struct {
		year     int
		expected time.Time
	}{
		{2024, date(2024, time.March, 31)},
		{2025, date(2025, time.April, 20)},
		{2026, date(2026, time.April, 5)},
		{2038, date(2038, time.April, 25)}, // latest possible Easter
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, easterSunday(tt.year), "year %d", tt.year)
	}
}
