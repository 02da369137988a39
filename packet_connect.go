package mqttcodec

import (
	"bytes"
	"errors"
	"io"
)

// CONNECT protocol name shared by v3.1.1 and v5.0.
const protocolName = "MQTT"

// Connect flag bit positions.
const (
	connectFlagCleanStart   = 0x02
	connectFlagWillFlag     = 0x04
	connectFlagWillRetain   = 0x20
	connectFlagPasswordFlag = 0x40
	connectFlagUsernameFlag = 0x80
)

// CONNECT packet errors.
var (
	ErrInvalidProtocolName     = errors.New("invalid protocol name")
	ErrInvalidProtocolVersion  = errors.New("unsupported protocol version")
	ErrInvalidConnectFlags     = errors.New("invalid connect flags")
	ErrClientIDTooLong         = errors.New("client ID too long")
	ErrClientIDRequired        = errors.New("client ID required with clean start false")
	ErrPasswordWithoutUsername = errors.New("password set without username")
)

// ConnectPacket represents an MQTT CONNECT packet.
//
// Unlike the other packets, CONNECT self-describes its protocol
// version on the wire. Decode sets Version from the protocol level
// byte, and Encode writes the layout Version selects.
type ConnectPacket struct {
	// Version selects the v3.1.1 or v5.0 body layout.
	Version ProtocolVersion

	// ClientID is the client identifier.
	ClientID string

	// CleanStart indicates whether the session should start clean.
	// This is the Clean Session flag in v3.1.1.
	CleanStart bool

	// KeepAlive is the keep alive interval in seconds.
	KeepAlive uint16

	// Props contains the CONNECT properties. v5.0 only.
	Props Properties

	// Username for authentication.
	Username string

	// Password for authentication. In the v5.0 layout this field is
	// written with a 4-byte length prefix and is gated by the username
	// flag rather than the password flag.
	Password []byte

	// Will message configuration.
	WillFlag    bool
	WillRetain  bool
	WillQoS     QoS
	WillTopic   string
	WillPayload []byte
	WillProps   Properties
}

// Type returns the packet type.
func (p *ConnectPacket) Type() PacketType {
	return PacketCONNECT
}

// GetProperties returns a pointer to the packet's properties.
func (p *ConnectPacket) GetProperties() *Properties {
	return &p.Props
}

// connectFlags returns the connect flags byte.
func (p *ConnectPacket) connectFlags() byte {
	var flags byte

	if p.CleanStart {
		flags |= connectFlagCleanStart
	}

	if p.WillFlag {
		flags |= connectFlagWillFlag
		flags |= (byte(p.WillQoS) & 0x03) << 3
		if p.WillRetain {
			flags |= connectFlagWillRetain
		}
	}

	if len(p.Password) > 0 {
		flags |= connectFlagPasswordFlag
	}

	if p.Username != "" {
		flags |= connectFlagUsernameFlag
	}

	return flags
}

// setConnectFlags parses the connect flags byte.
func (p *ConnectPacket) setConnectFlags(flags byte) error {
	// Reserved bit must be 0
	if flags&0x01 != 0 {
		return ErrInvalidConnectFlags
	}

	p.CleanStart = flags&connectFlagCleanStart != 0
	p.WillFlag = flags&connectFlagWillFlag != 0
	p.WillQoS = QoS((flags >> 3) & 0x03)
	p.WillRetain = flags&connectFlagWillRetain != 0

	// Will QoS must be 0 if Will Flag is 0
	if !p.WillFlag && p.WillQoS != 0 {
		return ErrInvalidConnectFlags
	}

	// Will Retain must be 0 if Will Flag is 0
	if !p.WillFlag && p.WillRetain {
		return ErrInvalidConnectFlags
	}

	if !p.WillQoS.Valid() {
		return ErrInvalidConnectFlags
	}

	return nil
}

// Encode writes the packet to the writer.
func (p *ConnectPacket) Encode(w io.Writer) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	v := p.Version.orDefault()

	// Build variable header and payload
	var buf bytes.Buffer

	// Protocol Name
	if _, err := encodeString(&buf, protocolName); err != nil {
		return 0, err
	}

	// Protocol Level
	buf.WriteByte(byte(v))

	// Connect Flags
	buf.WriteByte(p.connectFlags())

	// Keep Alive
	buf.Write([]byte{byte(p.KeepAlive >> 8), byte(p.KeepAlive)})

	// Properties
	if v == Version50 {
		if _, err := p.Props.Encode(&buf); err != nil {
			return 0, err
		}
	}

	// Payload

	// Client ID
	if _, err := encodeString(&buf, p.ClientID); err != nil {
		return 0, err
	}

	// Will Properties, Topic, Payload
	if p.WillFlag {
		if v == Version50 {
			if _, err := p.WillProps.Encode(&buf); err != nil {
				return 0, err
			}
		}

		if _, err := encodeString(&buf, p.WillTopic); err != nil {
			return 0, err
		}

		if v == Version50 {
			if _, err := encodeBinary32(&buf, p.WillPayload); err != nil {
				return 0, err
			}
		} else {
			if _, err := encodeBinary(&buf, p.WillPayload); err != nil {
				return 0, err
			}
		}
	}

	// Username and Password
	if p.Username != "" {
		if _, err := encodeString(&buf, p.Username); err != nil {
			return 0, err
		}

		// The v5.0 layout writes the password whenever the username
		// flag is set, with a 4-byte prefix.
		if v == Version50 {
			if _, err := encodeBinary32(&buf, p.Password); err != nil {
				return 0, err
			}
		} else if len(p.Password) > 0 {
			if _, err := encodeBinary(&buf, p.Password); err != nil {
				return 0, err
			}
		}
	}

	return encodeFrame(w, FixedHeader{
		PacketType: PacketCONNECT,
		Flags:      0x00,
	}, buf.Bytes())
}

// Decode reads the packet from the reader.
func (p *ConnectPacket) Decode(r io.Reader, header FixedHeader) (int, error) {
	if header.PacketType != PacketCONNECT {
		return 0, ErrInvalidPacketType
	}

	var totalRead int

	// Protocol Name
	protoName, n, err := decodeString(r)
	totalRead += n
	if err != nil {
		return totalRead, err
	}
	if protoName != protocolName {
		return totalRead, ErrInvalidProtocolName
	}

	// Protocol Level selects the version
	var versionBuf [1]byte
	n, err = io.ReadFull(r, versionBuf[:])
	totalRead += n
	if err != nil {
		return totalRead, err
	}
	p.Version = ProtocolVersion(versionBuf[0])
	if !p.Version.Valid() {
		return totalRead, ErrInvalidProtocolVersion
	}

	// Connect Flags
	var flagsBuf [1]byte
	n, err = io.ReadFull(r, flagsBuf[:])
	totalRead += n
	if err != nil {
		return totalRead, err
	}
	if err := p.setConnectFlags(flagsBuf[0]); err != nil {
		return totalRead, err
	}

	usernameFlag := flagsBuf[0]&connectFlagUsernameFlag != 0
	passwordFlag := flagsBuf[0]&connectFlagPasswordFlag != 0

	// Keep Alive
	var keepAliveBuf [2]byte
	n, err = io.ReadFull(r, keepAliveBuf[:])
	totalRead += n
	if err != nil {
		return totalRead, err
	}
	p.KeepAlive = uint16(keepAliveBuf[0])<<8 | uint16(keepAliveBuf[1])

	// Properties
	if p.Version == Version50 {
		n, err = p.Props.Decode(r)
		totalRead += n
		if err != nil {
			return totalRead, err
		}
	}

	// Payload

	// Client ID
	p.ClientID, n, err = decodeString(r)
	totalRead += n
	if err != nil {
		return totalRead, err
	}

	// Will Properties, Topic, Payload
	if p.WillFlag {
		if p.Version == Version50 {
			n, err = p.WillProps.Decode(r)
			totalRead += n
			if err != nil {
				return totalRead, err
			}
		}

		p.WillTopic, n, err = decodeString(r)
		totalRead += n
		if err != nil {
			return totalRead, err
		}

		if p.Version == Version50 {
			p.WillPayload, n, err = decodeBinary32(r)
		} else {
			p.WillPayload, n, err = decodeBinary(r)
		}
		totalRead += n
		if err != nil {
			return totalRead, err
		}
	}

	// Username and Password
	if usernameFlag {
		p.Username, n, err = decodeString(r)
		totalRead += n
		if err != nil {
			return totalRead, err
		}

		if p.Version == Version50 {
			p.Password, n, err = decodeBinary32(r)
			totalRead += n
			if err != nil {
				return totalRead, err
			}
		}
	}

	if passwordFlag && p.Version != Version50 {
		p.Password, n, err = decodeBinary(r)
		totalRead += n
		if err != nil {
			return totalRead, err
		}
	}

	return totalRead, nil
}

// Validate validates the packet contents.
func (p *ConnectPacket) Validate() error {
	if !p.Version.orDefault().Valid() {
		return ErrInvalidProtocolVersion
	}

	// Client ID length is bounded by its 2-byte length prefix
	if len(p.ClientID) > maxUint16 {
		return ErrClientIDTooLong
	}

	// Client ID must be present if CleanStart is false
	if !p.CleanStart && p.ClientID == "" {
		return ErrClientIDRequired
	}

	if !p.WillQoS.Valid() {
		return ErrInvalidConnectFlags
	}

	// Will Retain and Will QoS should be 0 if Will Flag is not set
	if !p.WillFlag && (p.WillRetain || p.WillQoS != 0) {
		return ErrInvalidConnectFlags
	}

	if p.WillFlag {
		if err := ValidateTopicName(p.WillTopic); err != nil {
			return err
		}
	}

	// The password is carried behind the username on the wire
	if len(p.Password) > 0 && p.Username == "" {
		return ErrPasswordWithoutUsername
	}

	return nil
}
