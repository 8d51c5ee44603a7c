package packets

import "fmt"

// FixedHeader is the 1-byte type+flags plus Remaining Length varint present
// at the start of every MQTT control packet.
type FixedHeader struct {
	PacketType      uint8
	Flags           uint8
	RemainingLength int
}

// appendBytes appends the encoded fixed header to dst. Grounded on the
// stack-buffer varint loop the teacher already wrote for its non-ByteWriter
// WriteTo fallback; the teacher's own call sites (puback.go, publish.go)
// expected a method of exactly this name and shape but it was never defined
// in the retrieved header.go, so this is a reconstruction of the missing
// piece from its two remaining callers' usage.
func (h FixedHeader) appendBytes(dst []byte) []byte {
	dst = append(dst, (h.PacketType<<4)|(h.Flags&0x0F))
	return AppendRemainingLength(dst, h.RemainingLength)
}

// DecodeFixedHeader decodes a fixed header from the head of buf.
// Returns the header, total bytes consumed (type+flags byte plus the
// Remaining Length varint), and a status mirroring DecodeRemainingLength's:
// VarIntNeedMore means buf doesn't yet contain a complete fixed header,
// VarIntMalformed means it never will.
func DecodeFixedHeader(buf []byte) (header FixedHeader, consumed int, status VarIntStatus) {
	if len(buf) < 1 {
		return FixedHeader{}, 0, VarIntNeedMore
	}
	first := buf[0]
	remLen, n, st := DecodeRemainingLength(buf[1:])
	if st != VarIntOK {
		return FixedHeader{}, 0, st
	}
	return FixedHeader{
		PacketType:      first >> 4,
		Flags:           first & 0x0F,
		RemainingLength: remLen,
	}, 1 + n, VarIntOK
}

func invalidFlags(typ, flags, want uint8) error {
	return fmt.Errorf("packet type %d: invalid fixed header flags 0x%X, want 0x%X", typ, flags, want)
}
