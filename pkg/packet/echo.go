// Package packet builds ICMPv4 Echo Requests and parses Echo Replies
// received on a raw socket, IPv4 header included.
package packet

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"golang.org/x/net/ipv4"
)

const (
	// HeaderLen is the size of the ICMP echo header.
	HeaderLen = 8

	// DefaultPayloadSize gives a 64 byte packet, like unix ping.
	DefaultPayloadSize = 56

	// offset of the TTL field in the IPv4 header
	ttlOffset = 8
)

var (
	// ErrMismatch is wrapped by every reason Decode rejects a buffer.
	ErrMismatch = errors.New("packet: not a matching echo reply")

	ErrShort        = fmt.Errorf("%w: buffer too short", ErrMismatch)
	ErrBadHeader    = fmt.Errorf("%w: bad ipv4 header length", ErrMismatch)
	ErrNotEchoReply = fmt.Errorf("%w: not an echo reply", ErrMismatch)
	ErrForeign      = fmt.Errorf("%w: identifier belongs to another pinger", ErrMismatch)
)

// Reply is a decoded Echo Reply.
type Reply struct {
	ID        uint16
	Seq       uint16
	TTL       int
	EchoReply bool
}

// Filler returns the payload carried by every request: byte i is '0'+i and
// the last byte is NUL.
func Filler(size int) []byte {
	if size <= 0 {
		return nil
	}

	b := make([]byte, size)
	for i := 0; i < size-1; i++ {
		b[i] = byte(i) + '0'
	}
	return b
}

// NewRequest returns an Echo Request with the given identifier and sequence
// and a payload of size filler bytes. The checksum covers the whole packet.
func NewRequest(id, seq uint16, size int) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()

	req := &layers.ICMPv4{
		TypeCode: layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoRequest, 0),
		Id:       id,
		Seq:      seq,
	}

	err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, req, gopacket.Payload(Filler(size)))
	if err != nil {
		return nil, fmt.Errorf("packet: serialize echo request: %w", err)
	}

	b := buf.Bytes()
	binary.BigEndian.PutUint16(b[2:4], 0)
	binary.BigEndian.PutUint16(b[2:4], Checksum(b))
	return b, nil
}

// Decode parses b, an IPv4 datagram as read from a raw ICMP socket, and
// returns the Echo Reply carried in it if it was sent back to identifier id.
// Any other content yields an error wrapping ErrMismatch.
func Decode(b []byte, id uint16) (*Reply, error) {
	if len(b) < ipv4.HeaderLen {
		return nil, ErrShort
	}

	hlen := int(b[0]&0x0f) << 2
	if hlen < ipv4.HeaderLen {
		return nil, ErrBadHeader
	}
	if len(b) < hlen+HeaderLen {
		return nil, ErrShort
	}

	var m layers.ICMPv4
	if err := m.DecodeFromBytes(b[hlen:], gopacket.NilDecodeFeedback); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMismatch, err)
	}

	if m.TypeCode.Type() != layers.ICMPv4TypeEchoReply {
		return nil, ErrNotEchoReply
	}
	if m.Id != id {
		return nil, ErrForeign
	}

	r := &Reply{
		ID:        m.Id,
		Seq:       m.Seq,
		TTL:       int(b[ttlOffset]),
		EchoReply: true,
	}
	return r, nil
}
