package pinger

import (
	"context"
	"time"

	"github.com/RETCY-unix/My-first-Ping-tool/pkg/stats"
)

// Reporter is told about every probe as it completes and about the
// statistics once the run is over.
type Reporter interface {
	Outcome(o Outcome)
	Finish(s stats.Summary)
}

// Run probes with sequences 1, 2, ... one interval apart until ctx is done,
// then hands the summary to rep and returns it.
//
// ctx is only looked at between probes: a probe in flight always runs to
// its reply or its timeout. The pause between probes ends early on cancel.
func (c *Client) Run(ctx context.Context, rep Reporter) stats.Summary {
	st := stats.New()

	for seq := 1; ctx.Err() == nil; seq++ {
		o := c.Probe(seq)
		st.Record(o.Result == Matched, o.RTT)

		if o.Err != nil {
			c.log.Printf("icmp_seq=%d: %s: %s", seq, o.Result, o.Err)
		}
		rep.Outcome(o)

		c.sleep(ctx)
	}

	s := st.Summary()
	rep.Finish(s)
	return s
}

func (c *Client) sleep(ctx context.Context) {
	t := time.NewTimer(c.interval)
	defer t.Stop()

	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
