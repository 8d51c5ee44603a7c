package packets

import (
	"encoding/binary"
	"fmt"
)

// SubackPacket represents an MQTT 3.1.1 SUBACK control packet (MQTT-3.9).
type SubackPacket struct {
	PacketID    uint16
	ReturnCodes []uint8
}

func (p *SubackPacket) Type() uint8       { return SUBACK }
func (p *SubackPacket) Flags() uint8      { return 0 }
func (p *SubackPacket) EstimateSize() int { return 2 + len(p.ReturnCodes) }

func (p *SubackPacket) Encode(dst []byte) []byte {
	dst = binary.BigEndian.AppendUint16(dst, p.PacketID)
	return append(dst, p.ReturnCodes...)
}

// DecodeSuback decodes a SUBACK packet body.
func DecodeSuback(buf []byte, header FixedHeader) (*SubackPacket, error) {
	if len(buf) < 2 {
		return nil, fmt.Errorf("buffer too short for SUBACK packet")
	}
	pkt := &SubackPacket{PacketID: binary.BigEndian.Uint16(buf[0:2])}
	if len(buf) > 2 {
		pkt.ReturnCodes = append([]byte(nil), buf[2:]...)
	}
	return pkt, nil
}
