package mqttcodec

import (
	"bytes"
	"errors"
	"io"
)

// ErrInvalidPacketID is returned when a packet identifier is zero
// where the protocol requires a nonzero one.
var ErrInvalidPacketID = errors.New("invalid packet identifier")

// ackPacket is a helper for encoding/decoding the acknowledgment
// packets (PUBACK, PUBREC, PUBREL, PUBCOMP).
//
// The v3.1.1 body is the 2-byte packet identifier and nothing else.
// The v5.0 body adds an optional reason code and properties: both are
// omitted when the reason is success and no properties are set.
type ackPacket struct {
	Version    ProtocolVersion
	PacketID   uint16
	ReasonCode ReasonCode
	Props      Properties
}

// encodeAck encodes an acknowledgment packet with the given packet type and flags.
func encodeAck(w io.Writer, packetType PacketType, flags byte, ack *ackPacket) (int, error) {
	var buf bytes.Buffer

	// Packet Identifier
	buf.Write([]byte{byte(ack.PacketID >> 8), byte(ack.PacketID)})

	if ack.Version.orDefault() == Version50 {
		// Reason Code and Properties (optional if success with no properties)
		if ack.ReasonCode != ReasonSuccess || ack.Props.Len() > 0 {
			buf.WriteByte(byte(ack.ReasonCode))

			if ack.Props.Len() > 0 {
				if _, err := ack.Props.Encode(&buf); err != nil {
					return 0, err
				}
			}
		}
	}

	return encodeFrame(w, FixedHeader{
		PacketType: packetType,
		Flags:      flags,
	}, buf.Bytes())
}

// decodeAck decodes an acknowledgment packet body.
func decodeAck(r io.Reader, header FixedHeader, ack *ackPacket) (int, error) {
	var totalRead int

	// Packet Identifier
	var idBuf [2]byte
	n, err := io.ReadFull(r, idBuf[:])
	totalRead += n
	if err != nil {
		return totalRead, err
	}
	ack.PacketID = uint16(idBuf[0])<<8 | uint16(idBuf[1])

	if ack.Version.orDefault() != Version50 {
		return totalRead, nil
	}

	// Reason Code (optional)
	if header.RemainingLength > 2 {
		var reasonBuf [1]byte
		n, err = io.ReadFull(r, reasonBuf[:])
		totalRead += n
		if err != nil {
			return totalRead, err
		}
		ack.ReasonCode = ReasonCode(reasonBuf[0])

		// Properties (optional)
		if header.RemainingLength > 3 {
			n, err = ack.Props.Decode(r)
			totalRead += n
			if err != nil {
				return totalRead, err
			}
		}
	} else {
		ack.ReasonCode = ReasonSuccess
	}

	return totalRead, nil
}

// validateAck applies the checks shared by the acknowledgment packets.
func validateAck(version ProtocolVersion, packetID uint16, reason ReasonCode, validReason func(ReasonCode) bool) error {
	if packetID == 0 {
		return ErrInvalidPacketID
	}

	if version.orDefault() == Version50 && !validReason(reason) {
		return ErrInvalidReasonCode
	}

	return nil
}
