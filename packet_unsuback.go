//nolint:dupl // SUBACK and UNSUBACK are separate packet types with the same structure
package mqttcodec

import (
	"bytes"
	"io"
)

// UnsubackPacket represents an MQTT UNSUBACK packet.
//
// The v3.1.1 body is just the packet identifier. The v5.0 body adds
// properties and one reason-code byte per requested filter.
type UnsubackPacket struct {
	Version     ProtocolVersion
	PacketID    uint16
	Props       Properties
	ReasonCodes []ReasonCode
}

// Type returns the packet type.
func (p *UnsubackPacket) Type() PacketType { return PacketUNSUBACK }

// GetProperties returns a pointer to the packet's properties.
func (p *UnsubackPacket) GetProperties() *Properties { return &p.Props }

// GetPacketID returns the packet identifier.
func (p *UnsubackPacket) GetPacketID() uint16 { return p.PacketID }

// SetPacketID sets the packet identifier.
func (p *UnsubackPacket) SetPacketID(id uint16) { p.PacketID = id }

// Encode writes the packet to the writer.
func (p *UnsubackPacket) Encode(w io.Writer) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	var buf bytes.Buffer

	// Packet Identifier
	buf.Write([]byte{byte(p.PacketID >> 8), byte(p.PacketID)})

	if p.Version.orDefault() == Version50 {
		if _, err := p.Props.Encode(&buf); err != nil {
			return 0, err
		}

		for _, code := range p.ReasonCodes {
			buf.WriteByte(byte(code))
		}
	}

	return encodeFrame(w, FixedHeader{
		PacketType: PacketUNSUBACK,
		Flags:      0x00,
	}, buf.Bytes())
}

// Decode reads the packet from the reader.
func (p *UnsubackPacket) Decode(r io.Reader, header FixedHeader) (int, error) {
	if header.PacketType != PacketUNSUBACK {
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

	if p.Version.orDefault() != Version50 {
		return totalRead, nil
	}

	// Properties
	n, err = p.Props.Decode(r)
	totalRead += n
	if err != nil {
		return totalRead, err
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
func (p *UnsubackPacket) Validate() error {
	if p.PacketID == 0 {
		return ErrInvalidPacketID
	}

	if p.Version.orDefault() == Version50 {
		if len(p.ReasonCodes) == 0 {
			return ErrProtocolViolation
		}
		for _, code := range p.ReasonCodes {
			if !code.ValidForUNSUBACK() {
				return ErrInvalidReasonCode
			}
		}
	}

	return nil
}
