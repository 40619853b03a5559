package fare_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/fare-engine/fare"
)

func TestFakeClock_AdvanceAndSet(t *testing.T) {
	start := time.Date(2024, time.October, 14, 10, 0, 0, 0, time.UTC)
	clock := fare.NewFakeClock(start)

	assert.Equal(t, start, clock.Now())

	clock.AdvanceMinutes(30)
	assert.Equal(t, start.Add(30*time.Minute), clock.Now())

	clock.AdvanceHours(2)
	assert.Equal(t, start.Add(2*time.Hour+30*time.Minute), clock.Now())

	clock.AdvanceDays(1)
	assert.Equal(t, start.AddDate(0, 0, 1).Add(2*time.Hour+30*time.Minute), clock.Now())

	elsewhere := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	clock.SetTo(elsewhere)
	assert.Equal(t, elsewhere, clock.Now())
}

func TestSameDayAndSameMonth(t *testing.T) {
	a := time.Date(2024, time.October, 14, 0, 0, 1, 0, time.UTC)
	b := time.Date(2024, time.October, 14, 23, 59, 59, 0, time.UTC)

	assert.True(t, fare.SameDay(a, b))
	assert.False(t, fare.SameDay(a, b.Add(time.Second)))

	assert.True(t, fare.SameMonth(a, b.AddDate(0, 0, 10)))
	assert.False(t, fare.SameMonth(a, a.AddDate(0, 1, 0)))
	assert.False(t, fare.SameMonth(a, a.AddDate(1, 0, 0)), "same month name, different year")
}

func TestServiceWindow_Contains(t *testing.T) {
	w := fare.ServiceWindow{FirstDay: time.Monday, LastDay: time.Friday, FromHour: 6, ToHour: 22}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"Monday mid-morning", time.Date(2024, time.October, 14, 10, 0, 0, 0, time.UTC), true},
		{"Friday evening", time.Date(2024, time.October, 18, 21, 59, 0, 0, time.UTC), true},
		{"opening hour inclusive", time.Date(2024, time.October, 14, 6, 0, 0, 0, time.UTC), true},
		{"closing hour exclusive", time.Date(2024, time.October, 14, 22, 0, 0, 0, time.UTC), false},
		{"before opening", time.Date(2024, time.October, 14, 5, 59, 0, 0, time.UTC), false},
		{"Saturday", time.Date(2024, time.October, 19, 10, 0, 0, 0, time.UTC), false},
		{"Sunday", time.Date(2024, time.October, 13, 10, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Contains(tt.at))
		})
	}
}

func TestServiceWindow_String(t *testing.T) {
	w := fare.ServiceWindow{FirstDay: time.Monday, LastDay: time.Saturday, FromHour: 7, ToHour: 22}

	assert.Equal(t, "Monday-Saturday 07:00-22:00", w.String())
}
