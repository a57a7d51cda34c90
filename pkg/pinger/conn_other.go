//go:build !unix

package pinger

import (
	"errors"
	"runtime"
)

// Listen is only implemented on unix systems.
func Listen() (Conn, error) {
	return nil, errors.New("listen ip4:icmp: raw sockets not supported on " + runtime.GOOS)
}
