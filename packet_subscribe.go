package mqttcodec

import (
	"bytes"
	"errors"
	"io"
)

// SUBSCRIBE packet errors.
var (
	ErrProtocolViolation     = errors.New("protocol violation")
	ErrInvalidSubscriptionID = errors.New("invalid subscription identifier")
)

// Subscription identifiers are varints, 1..268435455.
const maxSubscriptionIdentifierValue = uint32(maxVarint)

// Subscription represents a topic filter with subscription options.
//
// In the v3.1.1 layout the options byte carries only the requested
// QoS, the other fields stay zero on the wire.
type Subscription struct {
	TopicFilter     string
	QoS             QoS
	NoLocal         bool
	RetainAsPublish bool
	RetainHandling  byte
	SubscriptionID  uint32 // Set from SUBSCRIBE properties
}

// SubscribePacket represents an MQTT SUBSCRIBE packet.
//
// The payload is a sequence of topic filters with no count field, the
// list ends when the body does. Its fixed header flags must be 0x02.
type SubscribePacket struct {
	Version       ProtocolVersion
	PacketID      uint16
	Props         Properties
	Subscriptions []Subscription
}

// Type returns the packet type.
func (p *SubscribePacket) Type() PacketType { return PacketSUBSCRIBE }

// GetProperties returns a pointer to the packet's properties.
func (p *SubscribePacket) GetProperties() *Properties { return &p.Props }

// GetPacketID returns the packet identifier.
func (p *SubscribePacket) GetPacketID() uint16 { return p.PacketID }

// SetPacketID sets the packet identifier.
func (p *SubscribePacket) SetPacketID(id uint16) { p.PacketID = id }

// options returns the subscription options byte for the version.
func (p *SubscribePacket) options(sub Subscription) byte {
	options := byte(sub.QoS) & 0x03

	if p.Version.orDefault() == Version50 {
		if sub.NoLocal {
			options |= 0x04
		}
		if sub.RetainAsPublish {
			options |= 0x08
		}
		options |= (sub.RetainHandling & 0x03) << 4
	}

	return options
}

// setOptions parses the subscription options byte for the version.
func (p *SubscribePacket) setOptions(sub *Subscription, options byte) error {
	sub.QoS = QoS(options & 0x03)
	if !sub.QoS.Valid() {
		return ErrInvalidQoS
	}

	if p.Version.orDefault() == Version50 {
		sub.NoLocal = options&0x04 != 0
		sub.RetainAsPublish = options&0x08 != 0
		sub.RetainHandling = (options >> 4) & 0x03

		// Bits 7-6 are reserved
		if options&0xC0 != 0 {
			return ErrProtocolViolation
		}
		return nil
	}

	// In v3.1.1 everything above the QoS bits is reserved
	if options&0xFC != 0 {
		return ErrProtocolViolation
	}
	return nil
}

// Encode writes the packet to the writer.
func (p *SubscribePacket) Encode(w io.Writer) (int, error) {
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

	// Payload: subscriptions
	for _, sub := range p.Subscriptions {
		if _, err := encodeString(&buf, sub.TopicFilter); err != nil {
			return 0, err
		}

		buf.WriteByte(p.options(sub))
	}

	return encodeFrame(w, FixedHeader{
		PacketType: PacketSUBSCRIBE,
		Flags:      0x02,
	}, buf.Bytes())
}

// Decode reads the packet from the reader.
func (p *SubscribePacket) Decode(r io.Reader, header FixedHeader) (int, error) {
	if header.PacketType != PacketSUBSCRIBE {
		return 0, ErrInvalidPacketType
	}
	if header.Flags != 0x02 {
		return 0, ErrInvalidPacketFlags
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

	var subscriptionID uint32
	if p.Version.orDefault() == Version50 {
		// Properties
		n, err = p.Props.Decode(r)
		totalRead += n
		if err != nil {
			return totalRead, err
		}

		// Subscription identifier, if present, must be 1..268435455
		if p.Props.Has(PropSubscriptionIdentifier) {
			subscriptionID = p.Props.GetUint32(PropSubscriptionIdentifier)
			if subscriptionID == 0 || subscriptionID > maxSubscriptionIdentifierValue {
				return totalRead, ErrInvalidSubscriptionID
			}
		}
	}

	// Payload: filters until the body is exhausted. A truncated entry
	// fails the decode, it never yields a short list.
	p.Subscriptions = nil
	for totalRead < int(header.RemainingLength) {
		var sub Subscription

		sub.TopicFilter, n, err = decodeString(r)
		totalRead += n
		if err != nil {
			return totalRead, err
		}

		var optBuf [1]byte
		n, err = io.ReadFull(r, optBuf[:])
		totalRead += n
		if err != nil {
			return totalRead, err
		}

		if err := p.setOptions(&sub, optBuf[0]); err != nil {
			return totalRead, err
		}

		sub.SubscriptionID = subscriptionID

		p.Subscriptions = append(p.Subscriptions, sub)
	}

	return totalRead, nil
}

// Validate validates the packet contents.
func (p *SubscribePacket) Validate() error {
	if p.PacketID == 0 {
		return ErrInvalidPacketID
	}
	if len(p.Subscriptions) == 0 {
		return ErrProtocolViolation
	}
	for _, sub := range p.Subscriptions {
		if err := ValidateTopicFilter(sub.TopicFilter); err != nil {
			return err
		}
		if !sub.QoS.Valid() {
			return ErrInvalidQoS
		}
		if sub.RetainHandling > 2 {
			return ErrProtocolViolation
		}
	}
	return nil
}
