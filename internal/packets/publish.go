package packets

import (
	"encoding/binary"
	"fmt"
)

// PublishPacket represents an MQTT 3.1.1 PUBLISH control packet (MQTT-3.3).
type PublishPacket struct {
	Dup    bool
	QoS    uint8
	Retain bool

	Topic    string
	PacketID uint16 // only meaningful when QoS > 0

	Payload []byte
}

func (p *PublishPacket) Type() uint8 { return PUBLISH }

func (p *PublishPacket) Flags() uint8 {
	var f uint8
	if p.Dup {
		f |= 0x08
	}
	f |= (p.QoS & 0x03) << 1
	if p.Retain {
		f |= 0x01
	}
	return f
}

func (p *PublishPacket) EstimateSize() int {
	n := 2 + len(p.Topic)
	if p.QoS > 0 {
		n += 2
	}
	return n + len(p.Payload)
}

func (p *PublishPacket) Encode(dst []byte) []byte {
	dst = appendString(dst, p.Topic)
	if p.QoS > 0 {
		dst = binary.BigEndian.AppendUint16(dst, p.PacketID)
	}
	return append(dst, p.Payload...)
}

// DecodePublish decodes a PUBLISH packet body given its fixed header
// (QoS/Dup/Retain live in the fixed header flags, not the body).
func DecodePublish(buf []byte, header FixedHeader) (*PublishPacket, error) {
	if (header.Flags>>1)&0x03 == 3 {
		return nil, fmt.Errorf("invalid PUBLISH QoS 3 in fixed header flags (MQTT-3.3.1-4)")
	}

	pkt := &PublishPacket{
		Dup:    header.Flags&0x08 != 0,
		QoS:    (header.Flags >> 1) & 0x03,
		Retain: header.Flags&0x01 != 0,
	}

	offset := 0
	topic, n, err := decodeString(buf[offset:])
	if err != nil {
		return nil, fmt.Errorf("failed to decode topic: %w", err)
	}
	pkt.Topic = topic
	offset += n

	if pkt.QoS > 0 {
		if offset+2 > len(buf) {
			return nil, fmt.Errorf("buffer too short for packet ID")
		}
		pkt.PacketID = binary.BigEndian.Uint16(buf[offset : offset+2])
		offset += 2
	}

	pkt.Payload = append([]byte(nil), buf[offset:]...)
	return pkt, nil
}
