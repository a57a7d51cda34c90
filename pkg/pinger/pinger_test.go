package pinger

import (
	"encoding/binary"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"golang.org/x/net/ipv4"

	"github.com/RETCY-unix/My-first-Ping-tool/pkg/packet"
)

var peer = &net.IPAddr{IP: net.IPv4(192, 0, 2, 1)}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

// step scripts one ReadFrom call. A step with neither reply nor err times out.
type step struct {
	delay time.Duration
	reply func(req []byte) []byte
	err   error
}

// fakeConn plays a scripted peer. Once the script is exhausted every read
// times out.
type fakeConn struct {
	clock *fakeClock
	steps []step

	sent     [][]byte
	reads    int
	writeErr error
	short    bool

	// called when the last step has been consumed
	drained func()
}

func newFakeConn(steps ...step) *fakeConn {
	return &fakeConn{
		clock: &fakeClock{t: time.Unix(1700000000, 0)},
		steps: steps,
	}
}

func (c *fakeConn) WriteTo(b []byte, addr net.Addr) (int, error) {
	c.sent = append(c.sent, append([]byte(nil), b...))
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	if c.short {
		return len(b) - 1, nil
	}
	return len(b), nil
}

func (c *fakeConn) ReadFrom(b []byte) (int, net.Addr, error) {
	c.reads++
	if len(c.steps) == 0 {
		return 0, nil, os.ErrDeadlineExceeded
	}

	s := c.steps[0]
	c.steps = c.steps[1:]
	if len(c.steps) == 0 && c.drained != nil {
		c.drained()
	}

	switch {
	case s.err != nil:
		c.clock.t = c.clock.t.Add(s.delay)
		return 0, nil, s.err
	case s.reply == nil:
		c.clock.t = c.clock.t.Add(DefaultTimeout)
		return 0, nil, os.ErrDeadlineExceeded
	}

	c.clock.t = c.clock.t.Add(s.delay)
	n := copy(b, s.reply(c.sent[len(c.sent)-1]))
	return n, peer, nil
}

func (c *fakeConn) SetReadDeadline(t time.Time) error {
	return nil
}

func (c *fakeConn) Close() error {
	return nil
}

// answer turns req into the datagram a peer sends back, IPv4 header
// included. edit may alter the ICMP message before it is checksummed.
func answer(req []byte, edit func(m []byte)) []byte {
	m := append([]byte(nil), req...)
	m[0] = 0
	if edit != nil {
		edit(m)
	}
	m[2], m[3] = 0, 0
	binary.BigEndian.PutUint16(m[2:4], packet.Checksum(m))

	h := &ipv4.Header{
		Version:  ipv4.Version,
		Len:      ipv4.HeaderLen,
		TotalLen: ipv4.HeaderLen + len(m),
		TTL:      64,
		Protocol: 1,
		Src:      peer.IP,
		Dst:      net.IPv4(192, 0, 2, 2),
	}
	b, err := h.Marshal()
	if err != nil {
		panic(err)
	}
	return append(b, m...)
}

func reply(d time.Duration, edit func(m []byte)) step {
	return step{
		delay: d,
		reply: func(req []byte) []byte { return answer(req, edit) },
	}
}

func timeout() step {
	return step{}
}

func foreignID(m []byte) {
	binary.BigEndian.PutUint16(m[4:6], binary.BigEndian.Uint16(m[4:6])+1)
}

func staleSeq(m []byte) {
	binary.BigEndian.PutUint16(m[6:8], binary.BigEndian.Uint16(m[6:8])-1)
}

func ownRequest(m []byte) {
	m[0] = 8
}

func newTestClient(conn *fakeConn, opts ...Option) *Client {
	opts = append([]Option{WithID(0x1234), WithClock(conn.clock)}, opts...)
	return NewClient(conn, peer, opts...)
}

func TestProbeMatched(t *testing.T) {
	conn := newFakeConn(reply(3*time.Millisecond, nil))
	c := newTestClient(conn)

	o := c.Probe(1)
	if o.Result != Matched {
		t.Fatalf("result = %s, err = %v", o.Result, o.Err)
	}
	if o.RTT != 3.0 || o.TTL != 64 || o.Seq != 1 || o.Bytes != 64 {
		t.Errorf("got %+v", o)
	}

	req := conn.sent[0]
	if len(req) != c.PacketSize() {
		t.Errorf("sent %d bytes, want %d", len(req), c.PacketSize())
	}
	if packet.Checksum(req) != 0 {
		t.Errorf("request checksum invalid")
	}
	if id := binary.BigEndian.Uint16(req[4:6]); id != 0x1234 {
		t.Errorf("id = %#x", id)
	}
}

func TestProbeMicrosecondRtt(t *testing.T) {
	conn := newFakeConn(reply(1234567*time.Nanosecond, nil))
	o := newTestClient(conn).Probe(1)

	if o.RTT != 1.234 {
		t.Errorf("rtt = %v, want 1.234", o.RTT)
	}
}

func TestProbeFailures(t *testing.T) {
	tests := []struct {
		name   string
		conn   *fakeConn
		result Result
		reads  int
	}{
		{"timeout", newFakeConn(timeout()), Timeout, 1},
		{"receive error", newFakeConn(step{err: errors.New("boom")}), ReceiveFailed, 1},
		{"wrapped timeout", newFakeConn(step{err: &net.OpError{Op: "read", Err: os.ErrDeadlineExceeded}}), Timeout, 1},
		{"send error", func() *fakeConn {
			c := newFakeConn(reply(time.Millisecond, nil))
			c.writeErr = errors.New("network unreachable")
			return c
		}(), TransmitFailed, 0},
		{"short write", func() *fakeConn {
			c := newFakeConn(reply(time.Millisecond, nil))
			c.short = true
			return c
		}(), TransmitFailed, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestClient(tt.conn).Probe(7)
			if o.Result != tt.result {
				t.Fatalf("result = %s, want %s", o.Result, tt.result)
			}
			if tt.conn.reads != tt.reads {
				t.Errorf("reads = %d, want %d", tt.conn.reads, tt.reads)
			}
			if (o.Result == ReceiveFailed || o.Result == TransmitFailed) && o.Err == nil {
				t.Errorf("%s without a cause", o.Result)
			}
			if o.Result == Timeout && o.Err != nil {
				t.Errorf("timeout carries error %v", o.Err)
			}
		})
	}
}

func TestProbeMismatchPolicy(t *testing.T) {
	noise := func() []step {
		return []step{
			reply(time.Millisecond, foreignID),
			reply(time.Millisecond, ownRequest),
			reply(time.Millisecond, staleSeq),
			reply(time.Millisecond, nil),
		}
	}

	tests := []struct {
		name   string
		steps  []step
		strict bool
		result Result
		reads  int
		rtt    float64
	}{
		{"skip noise", noise(), false, Matched, 4, 4.0},
		{"strict gives up", noise(), true, Mismatched, 1, 0},
		{"noise then timeout", []step{reply(time.Millisecond, foreignID), timeout()}, false, Timeout, 2, 0},
		{"strict accepts stale sequence", []step{reply(time.Millisecond, staleSeq)}, true, Matched, 1, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newFakeConn(tt.steps...)
			o := newTestClient(conn, WithStrictMatch(tt.strict)).Probe(5)

			if o.Result != tt.result {
				t.Fatalf("result = %s, want %s", o.Result, tt.result)
			}
			if conn.reads != tt.reads {
				t.Errorf("reads = %d, want %d", conn.reads, tt.reads)
			}
			if o.RTT != tt.rtt {
				t.Errorf("rtt = %v, want %v", o.RTT, tt.rtt)
			}
		})
	}
}

func TestProbeSequenceWraps(t *testing.T) {
	conn := newFakeConn(reply(time.Millisecond, nil))
	o := newTestClient(conn).Probe(65536 + 3)

	if o.Result != Matched || o.Seq != 65539 {
		t.Fatalf("got %+v", o)
	}
	if seq := binary.BigEndian.Uint16(conn.sent[0][6:8]); seq != 3 {
		t.Errorf("wire seq = %d, want 3", seq)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(newFakeConn(), peer)

	if c.ID() != uint16(os.Getpid()&0xffff) {
		t.Errorf("id = %d", c.ID())
	}
	if c.timeout != DefaultTimeout || c.interval != DefaultInterval {
		t.Errorf("timeout/interval = %s/%s", c.timeout, c.interval)
	}
	if c.PacketSize() != 64 {
		t.Errorf("packet size = %d", c.PacketSize())
	}
}

func TestIsTimeout(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{os.ErrDeadlineExceeded, true},
		{&net.OpError{Op: "raw-read", Err: os.ErrDeadlineExceeded}, true},
		{errors.New("connection refused"), false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := isTimeout(tt.err); got != tt.want {
			t.Errorf("isTimeout(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
