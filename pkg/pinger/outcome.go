package pinger

// Result is the terminal state of one probe.
type Result int

const (
	Matched Result = iota
	Timeout
	Mismatched
	TransmitFailed
	ReceiveFailed
)

func (r Result) String() string {
	switch r {
	case Matched:
		return "matched"
	case Timeout:
		return "timeout"
	case Mismatched:
		return "mismatched"
	case TransmitFailed:
		return "transmit failed"
	case ReceiveFailed:
		return "receive failed"
	}
	return "unknown"
}

// Outcome describes what happened to the probe with sequence Seq.
type Outcome struct {
	Result Result
	Seq    int

	// Set on Matched only
	RTT float64 // milliseconds
	TTL int

	// Bytes is the size of the request sent.
	Bytes int

	// Err is the cause of TransmitFailed and ReceiveFailed.
	Err error
}
