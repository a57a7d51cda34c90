package packet

// Checksum computes the RFC 1071 Internet checksum of b.
// Words are read big-endian; an odd trailing byte is padded with zero on the right.
func Checksum(b []byte) uint16 {
	var sum uint32

	n := len(b)
	for i := 0; i+1 < n; i += 2 {
		sum += uint32(b[i])<<8 | uint32(b[i+1])
	}
	if n%2 == 1 {
		sum += uint32(b[n-1]) << 8
	}

	for sum>>16 != 0 {
		sum = (sum & 0xffff) + (sum >> 16)
	}

	return ^uint16(sum)
}
