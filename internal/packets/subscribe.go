package packets

import (
	"encoding/binary"
	"fmt"
)

// SubscribePacket represents an MQTT 3.1.1 SUBSCRIBE control packet
// (MQTT-3.8). Its fixed header flags are fixed at 0x02 (MQTT-3.8.1-1).
type SubscribePacket struct {
	PacketID uint16
	Topics   []string
	QoS      []uint8 // QoS[i] is the requested QoS for Topics[i]
}

func (p *SubscribePacket) Type() uint8  { return SUBSCRIBE }
func (p *SubscribePacket) Flags() uint8 { return 0x02 }

func (p *SubscribePacket) EstimateSize() int {
	n := 2
	for _, t := range p.Topics {
		n += 2 + len(t) + 1
	}
	return n
}

func (p *SubscribePacket) Encode(dst []byte) []byte {
	dst = binary.BigEndian.AppendUint16(dst, p.PacketID)
	for i, topic := range p.Topics {
		dst = appendString(dst, topic)
		qos := uint8(QoS0)
		if i < len(p.QoS) {
			qos = p.QoS[i]
		}
		dst = append(dst, qos&0x03)
	}
	return dst
}

// DecodeSubscribe decodes a SUBSCRIBE packet body.
func DecodeSubscribe(buf []byte, header FixedHeader) (*SubscribePacket, error) {
	if header.Flags != 0x02 {
		return nil, invalidFlags(SUBSCRIBE, header.Flags, 0x02)
	}
	if len(buf) < 2 {
		return nil, fmt.Errorf("buffer too short for SUBSCRIBE packet")
	}
	pkt := &SubscribePacket{PacketID: binary.BigEndian.Uint16(buf[0:2])}
	offset := 2
	for offset < len(buf) {
		topic, n, err := decodeString(buf[offset:])
		if err != nil {
			return nil, fmt.Errorf("failed to decode topic filter: %w", err)
		}
		offset += n
		if offset >= len(buf) {
			return nil, fmt.Errorf("buffer too short for options byte")
		}
		pkt.Topics = append(pkt.Topics, topic)
		pkt.QoS = append(pkt.QoS, buf[offset]&0x03)
		offset++
	}
	if len(pkt.Topics) == 0 {
		return nil, fmt.Errorf("SUBSCRIBE must contain at least one topic filter")
	}
	return pkt, nil
}
