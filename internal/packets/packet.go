package packets

// Packet is the interface every MQTT 3.1.1 control packet body implements.
// A Packet only knows how to size and encode its own body; the fixed header
// (type, flags, Remaining Length) is written by the caller (EncodeMany),
// which is the one place that needs to know the body size up front.
type Packet interface {
	// Type returns the MQTT control packet type.
	Type() uint8

	// Flags returns this packet's required fixed-header flags (MQTT-2.2.2).
	Flags() uint8

	// EstimateSize returns the exact number of bytes Encode will append.
	EstimateSize() int

	// Encode appends the packet body (variable header + payload, no fixed
	// header) to dst and returns the extended slice.
	Encode(dst []byte) []byte
}
