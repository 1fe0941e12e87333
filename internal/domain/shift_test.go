package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyShift(t *testing.T) {
	tests := []struct {
		name     string
		hour     int
		expected string
	}{
		{"early morning boundary", 6, ShiftMorning},
		{"mid morning", 9, ShiftMorning},
		{"last morning hour", 11, ShiftMorning},
		{"noon boundary", 12, ShiftAfternoon},
		{"afternoon", 15, ShiftAfternoon},
		{"last afternoon hour", 17, ShiftAfternoon},
		{"evening boundary", 18, ShiftNight},
		{"night", 21, ShiftNight},
		{"late night", 22, ShiftDawn},
		{"midnight", 0, ShiftDawn},
		{"pre dawn", 5, ShiftDawn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyShift(tt.hour))
		})
	}
}

// The four shifts must partition 0-23 with no gap or overlap.
func TestClassifyShift_PartitionsDay(t *testing.T) {
	counts := map[string]int{}
	for hour := 0; hour < 24; hour++ {
		shift := ClassifyShift(hour)
		switch shift {
		case ShiftMorning, ShiftAfternoon, ShiftNight, ShiftDawn:
			counts[shift]++
		default:
			t.Fatalf("hour %d mapped to unexpected shift %q", hour, shift)
		}
	}

	assert.Equal(t, 6, counts[ShiftMorning])
	assert.Equal(t, 6, counts[ShiftAfternoon])
	assert.Equal(t, 4, counts[ShiftNight])
	assert.Equal(t, 8, counts[ShiftDawn])
}

func TestIsPeakHour(t *testing.T) {
	peak := map[int]bool{6: true, 7: true, 8: true, 9: true, 10: true, 17: true, 18: true, 19: true, 20: true}

	for hour := 0; hour < 24; hour++ {
		assert.Equal(t, peak[hour], IsPeakHour(hour), "hour %d", hour)
	}
}
