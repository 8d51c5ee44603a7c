package transport

import (
	"fmt"

	"github.com/haldric/mqtt-transport/internal/packets"
)

// Encodable pairs a packet with its pre-computed size, the shape
// EncodeMany's contract in §4.3 requires: the caller sizes its
// destination buffer from sums of these before a single byte is written.
type Encodable struct {
	Packet packets.Packet
	Size   int // must equal Packet.EstimateSize(); call EstimateSize to build this
}

// NewEncodable wraps a packet with its estimated size.
func NewEncodable(p packets.Packet) Encodable {
	return Encodable{Packet: p, Size: p.EstimateSize()}
}

// EncodedSize returns the number of bytes EncodeMany will write for a
// single entry: fixed header byte + remaining-length varint + body.
func EncodedSize(e Encodable) (int, error) {
	varint, err := packets.EncodeRemainingLength(e.Size)
	if err != nil {
		return 0, fmt.Errorf("packet type %d: %w", e.Packet.Type(), err)
	}
	return 1 + len(varint) + e.Size, nil
}

// EncodeMany writes the fixed header, remaining-length varint, and body
// for each entry into dst, in order, and returns the total bytes written.
// It fails if dst's spare capacity can't hold every entry, rather than
// letting append grow past it: a reallocation there would write into a
// new backing array the caller's own dst variable never sees, silently
// discarding the cell the caller meant to fill (e.g. a fixed-size Cell
// rented from a Pool). It also fails if any entry's declared Size doesn't
// match what its Encode call actually produces — a caller bug (stale or
// hand-computed Size), not a decode-time concern.
func EncodeMany(entries []Encodable, dst []byte) (int, error) {
	needed, err := EstimateTotalSize(entries)
	if err != nil {
		return 0, err
	}
	if cap(dst)-len(dst) < needed {
		return 0, fmt.Errorf("transport: dst has %d spare bytes, need %d", cap(dst)-len(dst), needed)
	}

	start := len(dst)
	for _, e := range entries {
		header := packets.FixedHeader{
			PacketType:      e.Packet.Type(),
			Flags:           e.Packet.Flags(),
			RemainingLength: e.Size,
		}
		varint, err := packets.EncodeRemainingLength(e.Size)
		if err != nil {
			return len(dst) - start, fmt.Errorf("packet type %d: %w", header.PacketType, err)
		}
		dst = append(dst, (header.PacketType<<4)|(header.Flags&0x0F))
		dst = append(dst, varint...)

		before := len(dst)
		dst = e.Packet.Encode(dst)
		if len(dst)-before != e.Size {
			return len(dst) - start, fmt.Errorf(
				"packet type %d: declared size %d, encoded %d bytes",
				header.PacketType, e.Size, len(dst)-before)
		}
	}
	return len(dst) - start, nil
}

// EstimateTotalSize sums the full on-wire size (header + varint + body)
// of every entry, for pre-sizing a destination buffer.
func EstimateTotalSize(entries []Encodable) (int, error) {
	total := 0
	for _, e := range entries {
		n, err := EncodedSize(e)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
