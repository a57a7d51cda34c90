package pinger

import (
	"errors"
	"net"
	"os"
	"time"
)

// Conn is the part of a raw ICMP endpoint the prober uses. ReadFrom must
// return whole IPv4 datagrams, header included.
type Conn interface {
	WriteTo(b []byte, addr net.Addr) (int, error)
	ReadFrom(b []byte) (int, net.Addr, error)
	SetReadDeadline(t time.Time) error
	Close() error
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
