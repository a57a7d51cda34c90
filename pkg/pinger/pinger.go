// Package pinger runs ICMP echo probes against a single IPv4 host.
package pinger

import (
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"time"

	"github.com/RETCY-unix/My-first-Ping-tool/pkg/packet"
)

const (
	DefaultTimeout  = 5 * time.Second
	DefaultInterval = time.Second

	// largest IPv4 header, options included
	maxIPHeaderLen = 60
)

type Option func(o *options)

type options struct {
	timeout  time.Duration
	interval time.Duration
	size     int
	id       uint16
	clock    Clock
	log      *log.Logger
	verbose  bool
	strict   bool
}

// WithTimeout bounds how long a probe waits for its reply.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithInterval sets the pause between two probes of Run.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		o.interval = d
	}
}

// WithPayloadSize sets the number of filler bytes after the echo header.
func WithPayloadSize(n int) Option {
	return func(o *options) {
		o.size = n
	}
}

// WithID overrides the echo identifier, which defaults to the process id.
func WithID(id uint16) Option {
	return func(o *options) {
		o.id = id
	}
}

func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithLogger sets where per-probe failures are logged.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithVerbose also logs every packet a probe throws away.
func WithVerbose(v bool) Option {
	return func(o *options) {
		o.verbose = v
	}
}

// WithStrictMatch makes a probe give up on the first packet that isn't its
// reply, and accept any echo reply carrying our identifier whatever its
// sequence.
func WithStrictMatch(v bool) Option {
	return func(o *options) {
		o.strict = v
	}
}

// Client probes one destination. It is driven by a single goroutine.
type Client struct {
	options

	conn Conn
	dst  net.Addr
	buf  []byte
}

// NewClient returns a Client sending to dst over conn. The caller keeps
// ownership of conn.
func NewClient(conn Conn, dst net.Addr, opts ...Option) *Client {
	c := &Client{
		options: options{
			timeout:  DefaultTimeout,
			interval: DefaultInterval,
			size:     packet.DefaultPayloadSize,
			id:       uint16(os.Getpid() & 0xffff),
			clock:    sysClock{},
			log:      log.New(io.Discard, "", 0),
		},
		conn: conn,
		dst:  dst,
	}

	for _, fp := range opts {
		fp(&c.options)
	}

	c.buf = make([]byte, maxIPHeaderLen+packet.HeaderLen+c.size)
	return c
}

// ID returns the echo identifier of this client.
func (c *Client) ID() uint16 {
	return c.id
}

// PacketSize is the size of every request the client sends.
func (c *Client) PacketSize() int {
	return packet.HeaderLen + c.size
}

// Probe sends one echo request with sequence seq and waits up to the
// configured timeout for its reply. Sequences go on the wire modulo 2^16.
func (c *Client) Probe(seq int) Outcome {
	o := Outcome{
		Result: TransmitFailed,
		Seq:    seq,
	}
	wseq := uint16(seq)

	req, err := packet.NewRequest(c.id, wseq, c.size)
	if err != nil {
		o.Err = err
		return o
	}
	o.Bytes = len(req)

	start := c.clock.Now()
	n, err := c.conn.WriteTo(req, c.dst)
	if err == nil && n != len(req) {
		err = fmt.Errorf("short write: %d of %d bytes", n, len(req))
	}
	if err != nil {
		o.Err = fmt.Errorf("sendto %s: %w", c.dst, err)
		return o
	}

	o.Result = ReceiveFailed
	if err := c.conn.SetReadDeadline(start.Add(c.timeout)); err != nil {
		o.Err = fmt.Errorf("set deadline: %w", err)
		return o
	}

	for {
		n, from, err := c.conn.ReadFrom(c.buf)
		if err != nil {
			if isTimeout(err) {
				o.Result = Timeout
				return o
			}
			o.Err = fmt.Errorf("recvfrom: %w", err)
			return o
		}
		now := c.clock.Now()

		r, err := packet.Decode(c.buf[:n], c.id)
		switch {
		case err != nil:
			c.debug("icmp_seq=%d: dropped %d bytes from %v: %s", seq, n, from, err)

		case !c.strict && r.Seq != wseq:
			c.debug("icmp_seq=%d: dropped late reply icmp_seq=%d", seq, r.Seq)

		default:
			o.Result = Matched
			o.RTT = Elapsed(start, now)
			o.TTL = r.TTL
			return o
		}

		if c.strict {
			o.Result = Mismatched
			return o
		}
	}
}

func (c *Client) debug(format string, v ...interface{}) {
	if c.verbose {
		c.log.Printf(format, v...)
	}
}
