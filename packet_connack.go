package mqttcodec

import (
	"bytes"
	"errors"
	"io"
)

// ErrInvalidAckFlags is returned when the CONNACK acknowledge flags
// byte has any bit other than session present set.
var ErrInvalidAckFlags = errors.New("invalid connect acknowledge flags")

// ConnackPacket represents an MQTT CONNACK packet.
//
// The v3.1.1 layout carries a connect return code, the v5.0 layout a
// reason code plus properties. Only the field matching Version is on
// the wire.
type ConnackPacket struct {
	// Version selects the v3.1.1 or v5.0 body layout.
	Version ProtocolVersion

	// SessionPresent indicates a session already exists for the client.
	SessionPresent bool

	// ReturnCode is the v3.1.1 connect return code.
	ReturnCode ConnackReturnCode

	// ReasonCode is the v5.0 connect reason code.
	ReasonCode ReasonCode

	// Props contains the CONNACK properties. v5.0 only.
	Props Properties
}

// Type returns the packet type.
func (p *ConnackPacket) Type() PacketType {
	return PacketCONNACK
}

// GetProperties returns a pointer to the packet's properties.
func (p *ConnackPacket) GetProperties() *Properties {
	return &p.Props
}

// Encode writes the packet to the writer.
func (p *ConnackPacket) Encode(w io.Writer) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	var buf bytes.Buffer

	// Acknowledge Flags
	var ackFlags byte
	if p.SessionPresent {
		ackFlags = 0x01
	}
	buf.WriteByte(ackFlags)

	if p.Version.orDefault() == Version50 {
		buf.WriteByte(byte(p.ReasonCode))

		if _, err := p.Props.Encode(&buf); err != nil {
			return 0, err
		}
	} else {
		buf.WriteByte(byte(p.ReturnCode))
	}

	return encodeFrame(w, FixedHeader{
		PacketType: PacketCONNACK,
		Flags:      0x00,
	}, buf.Bytes())
}

// Decode reads the packet from the reader.
func (p *ConnackPacket) Decode(r io.Reader, header FixedHeader) (int, error) {
	if header.PacketType != PacketCONNACK {
		return 0, ErrInvalidPacketType
	}

	var totalRead int

	var buf [2]byte
	n, err := io.ReadFull(r, buf[:])
	totalRead += n
	if err != nil {
		return totalRead, err
	}

	// Bits 7-1 of the acknowledge flags are reserved
	if buf[0]&0xFE != 0 {
		return totalRead, ErrInvalidAckFlags
	}
	p.SessionPresent = buf[0]&0x01 != 0

	if p.Version.orDefault() == Version50 {
		p.ReasonCode = ReasonCode(buf[1])

		n, err = p.Props.Decode(r)
		totalRead += n
		if err != nil {
			return totalRead, err
		}
	} else {
		p.ReturnCode = ConnackReturnCode(buf[1])
		if !p.ReturnCode.Valid() {
			return totalRead, ErrInvalidReturnCode
		}
	}

	return totalRead, nil
}

// Validate validates the packet contents.
func (p *ConnackPacket) Validate() error {
	if p.Version.orDefault() == Version50 {
		if !p.ReasonCode.ValidForCONNACK() {
			return ErrInvalidReasonCode
		}

		// Session present must be 0 on a rejected connection
		if p.ReasonCode.IsError() && p.SessionPresent {
			return ErrInvalidAckFlags
		}

		return nil
	}

	if !p.ReturnCode.Valid() {
		return ErrInvalidReturnCode
	}

	// Session present must be 0 on a refused connection
	if p.ReturnCode != ConnectionAccepted && p.SessionPresent {
		return ErrInvalidAckFlags
	}

	return nil
}
