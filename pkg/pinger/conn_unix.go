//go:build unix

package pinger

import (
	"fmt"
	"net"
	"syscall"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"
)

// rawConn reads with recvfrom(2) so the IPv4 header the kernel hands to
// SOCK_RAW sockets is kept; net.IPConn strips it.
type rawConn struct {
	*net.IPConn
	fd syscall.RawConn
}

// Listen opens a raw ip4:icmp socket. This needs root or CAP_NET_RAW.
func Listen() (Conn, error) {
	c, err := net.ListenPacket("ip4:icmp", "0.0.0.0")
	if err != nil {
		return nil, fmt.Errorf("listen ip4:icmp: %w", err)
	}

	ipc := c.(*net.IPConn)
	fd, err := ipc.SyscallConn()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("listen ip4:icmp: %w", err)
	}

	// Only Linux supports this; elsewhere Decode weeds out the noise.
	var f ipv4.ICMPFilter
	f.SetAll(true)
	f.Accept(ipv4.ICMPTypeEchoReply)
	_ = ipv4.NewPacketConn(c).SetICMPFilter(&f)

	return &rawConn{IPConn: ipc, fd: fd}, nil
}

func (c *rawConn) ReadFrom(b []byte) (int, net.Addr, error) {
	var (
		n    int
		from unix.Sockaddr
		rerr error
	)

	err := c.fd.Read(func(fd uintptr) bool {
		n, from, rerr = unix.Recvfrom(int(fd), b, 0)
		return rerr != unix.EAGAIN && rerr != unix.EINTR
	})
	if err != nil {
		return 0, nil, err
	}
	if rerr != nil {
		return 0, nil, &net.OpError{Op: "read", Net: "ip4:icmp", Source: c.LocalAddr(), Err: rerr}
	}

	var addr net.Addr
	if sa, ok := from.(*unix.SockaddrInet4); ok {
		addr = &net.IPAddr{IP: net.IPv4(sa.Addr[0], sa.Addr[1], sa.Addr[2], sa.Addr[3])}
	}
	return n, addr, nil
}
