// Package stats accumulates round-trip statistics for a ping run.
package stats

import (
	"math"
)

// Stats holds the running counters of one run. It is owned by a single
// run loop and is not safe for concurrent use.
type Stats struct {
	Transmitted int
	Received    int

	// RTTs in milliseconds
	Min float64
	Max float64
	Sum float64
}

// Summary is the final report of a run.
type Summary struct {
	Transmitted int
	Received    int

	// Loss is a percentage in [0, 100].
	Loss float64

	// Min, Avg and Max are zero when nothing was received.
	Min float64
	Avg float64
	Max float64
}

// New returns empty statistics; Min starts at +Inf.
func New() *Stats {
	return &Stats{
		Min: math.Inf(1),
	}
}

// Record accounts for one probe. rtt is only used when received is true.
func (s *Stats) Record(received bool, rtt float64) {
	s.Transmitted++
	if !received {
		return
	}

	s.Received++
	s.Sum += rtt
	s.Min = math.Min(s.Min, rtt)
	s.Max = math.Max(s.Max, rtt)
}

// Summary computes loss and the RTT aggregates.
func (s *Stats) Summary() Summary {
	r := Summary{
		Transmitted: s.Transmitted,
		Received:    s.Received,
	}

	if s.Transmitted > 0 {
		r.Loss = float64(s.Transmitted-s.Received) / float64(s.Transmitted) * 100
	}

	if s.Received > 0 {
		r.Min = s.Min
		r.Max = s.Max
		r.Avg = s.Sum / float64(s.Received)
	}
	return r
}

// HasRTT reports whether Min, Avg and Max are meaningful.
func (r Summary) HasRTT() bool {
	return r.Received > 0
}
