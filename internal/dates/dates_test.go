package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDayDropsWallClock(t *testing.T) {
	in := time.Date(2026, time.February, 10, 14, 35, 12, 999, time.UTC)
	require.Equal(t, time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC), Day(in))
}

func TestISORoundTrip(t *testing.T) {
	d, err := FromISO("2026-03-31")
	require.NoError(t, err)
	require.Equal(t, "2026-03-31", ISO(d))

	_, err = FromISO("31/03/2026")
	require.Error(t, err)
}

func TestAddDaysCrossesMonthBoundary(t *testing.T) {
	d, _ := FromISO("2026-02-27")
	require.Equal(t, "2026-03-04", ISO(AddDays(d, 5)))
	require.Equal(t, "2026-02-20", ISO(AddDays(d, -7)))
}

func TestClamp(t *testing.T) {
	lo, _ := FromISO("2026-02-01")
	hi, _ := FromISO("2026-03-31")

	below, _ := FromISO("2026-01-15")
	inside, _ := FromISO("2026-02-20")
	above, _ := FromISO("2026-04-02")

	require.Equal(t, lo, Clamp(below, lo, hi))
	require.Equal(t, inside, Clamp(inside, lo, hi))
	require.Equal(t, hi, Clamp(above, lo, hi))
}

func TestDaysBetween(t *testing.T) {
	a, _ := FromISO("2026-03-05")
	b, _ := FromISO("2026-02-25")
	require.Equal(t, 8, DaysBetween(a, b))
	require.Equal(t, -8, DaysBetween(b, a))
	require.Equal(t, 0, DaysBetween(a, a.Add(6*time.Hour)))
}
