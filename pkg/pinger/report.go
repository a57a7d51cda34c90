package pinger

import (
	"fmt"
	"io"

	"github.com/RETCY-unix/My-first-Ping-tool/pkg/stats"
)

// TextReporter prints probes and statistics in the format of unix ping.
type TextReporter struct {
	w    io.Writer
	host string
	addr string
}

var _ Reporter = &TextReporter{}

func NewTextReporter(w io.Writer, host, addr string) *TextReporter {
	return &TextReporter{
		w:    w,
		host: host,
		addr: addr,
	}
}

// Header prints the banner shown before the first probe.
func (r *TextReporter) Header(size int) {
	fmt.Fprintf(r.w, "PING %s (%s): %d data bytes\n", r.host, r.addr, size)
}

func (r *TextReporter) Outcome(o Outcome) {
	if o.Result == Matched {
		fmt.Fprintf(r.w, "%d bytes from %s: icmp_seq=%d ttl=%d time=%.1f ms\n",
			o.Bytes, r.addr, o.Seq, o.TTL, o.RTT)
		return
	}
	fmt.Fprintf(r.w, "Request timeout for icmp_seq %d\n", o.Seq)
}

func (r *TextReporter) Finish(s stats.Summary) {
	fmt.Fprintf(r.w, "\n--- %s ping statistics ---\n", r.host)
	fmt.Fprintf(r.w, "%d packets transmitted, %d received, %.0f%% packet loss\n",
		s.Transmitted, s.Received, s.Loss)

	if s.HasRTT() {
		fmt.Fprintf(r.w, "rtt min/avg/max = %.1f/%.1f/%.1f ms\n", s.Min, s.Avg, s.Max)
	}
}
