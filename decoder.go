package transport

import (
	"fmt"

	"github.com/haldric/mqtt-transport/internal/packets"
)

type decoderMode int

const (
	awaitingHeader decoderMode = iota
	awaitingBody
)

// Decoder is the stateful streaming packet decoder from §4.2: it
// accumulates fed bytes and emits zero or more fully-framed packets per
// feed, preserving partial headers and partial bodies across calls.
// Grounded on the teacher's internal/packets reader.go dispatch table,
// restructured from a blocking io.Reader consumer (one DecodeFixedHeader
// + io.ReadFull per packet) into an accumulator driven by TryDecode, since
// a transport fed arbitrary byte chunks off a socket can't block waiting
// for "the rest of the packet" the way a single blocking read can.
type Decoder struct {
	maxFrameSize int

	acc    []byte
	mode   decoderMode
	header packets.FixedHeader
}

// NewDecoder creates a Decoder that rejects any frame whose Remaining
// Length would grow the accumulator past maxFrameSize bytes (the
// recommended, though spec-unspecified, cap from §9's second Open
// Question).
func NewDecoder(maxFrameSize int) *Decoder {
	return &Decoder{maxFrameSize: maxFrameSize}
}

// TryDecode appends feed to the accumulator and decodes as many complete
// packets as are now available, returning them in arrival order.
// consumedAny reports whether any bytes were actually drained from the
// accumulator (a bare partial fixed-header byte leaves it false).
//
// Decoder never retains a pointer into feed once TryDecode returns: the
// accumulator always holds its own copy (invariant 5).
func (d *Decoder) TryDecode(feed []byte) (consumedAny bool, pkts []packets.Packet, err error) {
	if len(feed) > 0 {
		d.acc = append(d.acc, feed...)
	}

	startLen := len(d.acc)
	for {
		switch d.mode {
		case awaitingHeader:
			header, n, status := packets.DecodeFixedHeader(d.acc)
			switch status {
			case packets.VarIntNeedMore:
				// Accumulator left exactly as it was; nothing to consume yet.
				return len(d.acc) < startLen, pkts, nil
			case packets.VarIntMalformed:
				return len(d.acc) < startLen, pkts, &DecodeError{
					PacketType: 0,
					Err:        fmt.Errorf("malformed fixed header"),
				}
			}
			if d.maxFrameSize > 0 && header.RemainingLength > d.maxFrameSize {
				return len(d.acc) < startLen, pkts, &DecodeError{
					PacketType: header.PacketType,
					Err:        ErrFrameTooLarge,
				}
			}
			d.header = header
			d.acc = d.acc[n:]
			d.mode = awaitingBody

		case awaitingBody:
			rem := d.header.RemainingLength
			if len(d.acc) < rem {
				return len(d.acc) < startLen, pkts, nil
			}
			body := d.acc[:rem]
			d.acc = d.acc[rem:]

			pkt, err := packets.DecodeBody(d.header, body)
			if err != nil {
				return true, pkts, &DecodeError{PacketType: d.header.PacketType, Err: err}
			}
			pkts = append(pkts, pkt)
			d.mode = awaitingHeader
			if len(d.acc) == 0 {
				// Nothing pending: drop the backing array instead of
				// carrying its capacity forward indefinitely.
				d.acc = nil
			}
		}
	}
}
