package packets

import (
	"encoding/binary"
	"fmt"
)

// UnsubscribePacket represents an MQTT 3.1.1 UNSUBSCRIBE control packet
// (MQTT-3.10). Its fixed header flags are fixed at 0x02 (MQTT-3.10.1-1).
type UnsubscribePacket struct {
	PacketID uint16
	Topics   []string
}

func (p *UnsubscribePacket) Type() uint8  { return UNSUBSCRIBE }
func (p *UnsubscribePacket) Flags() uint8 { return 0x02 }

func (p *UnsubscribePacket) EstimateSize() int {
	n := 2
	for _, t := range p.Topics {
		n += 2 + len(t)
	}
	return n
}

func (p *UnsubscribePacket) Encode(dst []byte) []byte {
	dst = binary.BigEndian.AppendUint16(dst, p.PacketID)
	for _, topic := range p.Topics {
		dst = appendString(dst, topic)
	}
	return dst
}

// DecodeUnsubscribe decodes an UNSUBSCRIBE packet body.
func DecodeUnsubscribe(buf []byte, header FixedHeader) (*UnsubscribePacket, error) {
	if header.Flags != 0x02 {
		return nil, invalidFlags(UNSUBSCRIBE, header.Flags, 0x02)
	}
	if len(buf) < 2 {
		return nil, fmt.Errorf("buffer too short for UNSUBSCRIBE packet")
	}
	pkt := &UnsubscribePacket{PacketID: binary.BigEndian.Uint16(buf[0:2])}
	offset := 2
	for offset < len(buf) {
		topic, n, err := decodeString(buf[offset:])
		if err != nil {
			return nil, fmt.Errorf("failed to decode topic filter: %w", err)
		}
		pkt.Topics = append(pkt.Topics, topic)
		offset += n
	}
	if len(pkt.Topics) == 0 {
		return nil, fmt.Errorf("UNSUBSCRIBE must contain at least one topic filter")
	}
	return pkt, nil
}
