package mqttcodec

import (
	"bytes"
	"io"
)

// DisconnectPacket represents an MQTT DISCONNECT packet.
//
// The v3.1.1 body is empty. The v5.0 body carries an optional reason
// code and properties: both are omitted when the reason is normal
// disconnection and no properties are set.
type DisconnectPacket struct {
	Version    ProtocolVersion
	ReasonCode ReasonCode
	Props      Properties
}

// Type returns the packet type.
func (p *DisconnectPacket) Type() PacketType { return PacketDISCONNECT }

// GetProperties returns a pointer to the packet's properties.
func (p *DisconnectPacket) GetProperties() *Properties { return &p.Props }

// Encode writes the packet to the writer.
func (p *DisconnectPacket) Encode(w io.Writer) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	var buf bytes.Buffer

	if p.Version.orDefault() == Version50 {
		if p.ReasonCode != ReasonSuccess || p.Props.Len() > 0 {
			buf.WriteByte(byte(p.ReasonCode))

			if p.Props.Len() > 0 {
				if _, err := p.Props.Encode(&buf); err != nil {
					return 0, err
				}
			}
		}
	}

	return encodeFrame(w, FixedHeader{
		PacketType: PacketDISCONNECT,
		Flags:      0x00,
	}, buf.Bytes())
}

// Decode reads the packet from the reader.
func (p *DisconnectPacket) Decode(r io.Reader, header FixedHeader) (int, error) {
	if header.PacketType != PacketDISCONNECT {
		return 0, ErrInvalidPacketType
	}

	if p.Version.orDefault() != Version50 {
		// No variable header or payload in v3.1.1
		if header.RemainingLength != 0 {
			return 0, ErrProtocolViolation
		}
		return 0, nil
	}

	var totalRead int

	// Reason Code (optional)
	if header.RemainingLength > 0 {
		var reasonBuf [1]byte
		n, err := io.ReadFull(r, reasonBuf[:])
		totalRead += n
		if err != nil {
			return totalRead, err
		}
		p.ReasonCode = ReasonCode(reasonBuf[0])

		// Properties (optional)
		if header.RemainingLength > 1 {
			n, err = p.Props.Decode(r)
			totalRead += n
			if err != nil {
				return totalRead, err
			}
		}
	} else {
		p.ReasonCode = ReasonSuccess
	}

	return totalRead, nil
}

// Validate validates the packet contents.
func (p *DisconnectPacket) Validate() error {
	if p.Version.orDefault() == Version50 && !p.ReasonCode.ValidForDISCONNECT() {
		return ErrInvalidReasonCode
	}
	return nil
}
