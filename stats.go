package transport

import "sync/atomic"

// Stats reports cumulative transport-level counters across the lifetime
// of a Connection, surviving every reconnect. Grounded on the teacher's
// countingReader/countingWriter byte counters and its atomic
// reconnectCount field in client.go — this package stops at bytes, so
// unlike the teacher's packetsSent/packetsReceived counters (which count
// calls to a packet's WriteTo), Stats counts only what the transport
// layer itself observes.
type Stats struct {
	BytesSent      uint64
	BytesReceived  uint64
	ReconnectCount uint64
}

type statsCounters struct {
	bytesSent      atomic.Uint64
	bytesReceived  atomic.Uint64
	reconnectCount atomic.Uint64
}

func (s *statsCounters) snapshot() Stats {
	return Stats{
		BytesSent:      s.bytesSent.Load(),
		BytesReceived:  s.bytesReceived.Load(),
		ReconnectCount: s.reconnectCount.Load(),
	}
}
