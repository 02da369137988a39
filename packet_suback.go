//nolint:dupl // SUBACK and UNSUBACK are separate packet types with the same structure
package mqttcodec

import (
	"bytes"
	"io"
)

// SubackPacket represents an MQTT SUBACK packet.
//
// The payload is one reason-code byte per requested filter, in request
// order. In v3.1.1 only the granted-QoS codes and the 0x80 failure
// marker are allowed.
type SubackPacket struct {
	Version     ProtocolVersion
	PacketID    uint16
	Props       Properties
	ReasonCodes []ReasonCode
}

// Type returns the packet type.
func (p *SubackPacket) Type() PacketType { return PacketSUBACK }

// GetProperties returns a pointer to the packet's properties.
func (p *SubackPacket) GetProperties() *Properties { return &p.Props }

// GetPacketID returns the packet identifier.
func (p *SubackPacket) GetPacketID() uint16 { return p.PacketID }

// SetPacketID sets the packet identifier.
func (p *SubackPacket) SetPacketID(id uint16) { p.PacketID = id }

// Encode writes the packet to the writer.
func (p *SubackPacket) Encode(w io.Writer) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	var buf bytes.Buffer

	// Packet Identifier
	buf.Write([]byte{byte(p.PacketID >> 8), byte(p.PacketID)})

	// Properties
	if p.Version.orDefault() == Version50 {
		if _, err := p.Props.Encode(&buf); err != nil {
			return 0, err
		}
	}

	// Payload: reason codes
	for _, code := range p.ReasonCodes {
		buf.WriteByte(byte(code))
	}

	return encodeFrame(w, FixedHeader{
		PacketType: PacketSUBACK,
		Flags:      0x00,
	}, buf.Bytes())
}

// Decode reads the packet from the reader.
func (p *SubackPacket) Decode(r io.Reader, header FixedHeader) (int, error) {
	if header.PacketType != PacketSUBACK {
		return 0, ErrInvalidPacketType
	}

	var totalRead int

	// Packet Identifier
	var idBuf [2]byte
	n, err := io.ReadFull(r, idBuf[:])
	totalRead += n
	if err != nil {
		return totalRead, err
	}
	p.PacketID = uint16(idBuf[0])<<8 | uint16(idBuf[1])

	// Properties
	if p.Version.orDefault() == Version50 {
		n, err = p.Props.Decode(r)
		totalRead += n
		if err != nil {
			return totalRead, err
		}
	}

	// Payload: one reason code per requested filter
	p.ReasonCodes = nil
	for totalRead < int(header.RemainingLength) {
		var codeBuf [1]byte
		n, err = io.ReadFull(r, codeBuf[:])
		totalRead += n
		if err != nil {
			return totalRead, err
		}
		p.ReasonCodes = append(p.ReasonCodes, ReasonCode(codeBuf[0]))
	}

	return totalRead, nil
}

// Validate validates the packet contents.
func (p *SubackPacket) Validate() error {
	if p.PacketID == 0 {
		return ErrInvalidPacketID
	}
	if len(p.ReasonCodes) == 0 {
		return ErrProtocolViolation
	}

	v5 := p.Version.orDefault() == Version50
	for _, code := range p.ReasonCodes {
		if v5 {
			if !code.ValidForSUBACK() {
				return ErrInvalidReasonCode
			}
		} else if !code.ValidForSUBACKV4() {
			return ErrInvalidReasonCode
		}
	}
	return nil
}
