package pinger

import "time"

// Clock supplies timestamps for RTT measurement.
type Clock interface {
	Now() time.Time
}

type sysClock struct{}

// time.Now carries a monotonic reading, so wall clock steps don't skew RTTs
func (sysClock) Now() time.Time {
	return time.Now()
}

// Elapsed returns end-start in milliseconds at microsecond resolution.
func Elapsed(start, end time.Time) float64 {
	return float64(end.Sub(start).Microseconds()) / 1000.0
}
