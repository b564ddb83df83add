package clock

import "time"

// NowFunc returns the current time. Tests override it to pin "today".
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Today returns midnight UTC of the current calendar day.
func Today() time.Time {
	return StartOfDay(Now())
}

// StartOfDay returns midnight UTC of the calendar day t falls on in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
