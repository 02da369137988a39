package mqttcodec

import (
	"errors"
	"io"
)

// Codec errors.
var (
	ErrPacketTooLarge    = errors.New("mqttcodec: packet exceeds maximum size")
	ErrUnknownPacketType = errors.New("mqttcodec: unknown packet type")
	ErrFrameDesync       = errors.New("mqttcodec: packet body length does not match remaining length")
)

// ReadPacket reads a complete MQTT packet from the reader.
//
// The version is the protocol version negotiated on the connection and
// selects between the v3.1.1 and v5.0 body layouts. A zero version is
// treated as v3.1.1. CONNECT carries its version on the wire, so the
// decoded packet reports what the peer actually sent.
//
// If maxSize is greater than 0, packets whose remaining length exceeds
// maxSize return ErrPacketTooLarge before the body is read.
func ReadPacket(r io.Reader, version ProtocolVersion, maxSize uint32) (Packet, int, error) {
	var header FixedHeader
	n, err := header.Decode(r)
	if err != nil {
		return nil, n, err
	}

	if err := header.ValidateFlags(); err != nil {
		return nil, n, err
	}

	if maxSize > 0 && header.RemainingLength > maxSize {
		return nil, n, ErrPacketTooLarge
	}

	// Read exactly the body the remaining length announces.
	remaining := make([]byte, header.RemainingLength)
	if header.RemainingLength > 0 {
		rn, err := io.ReadFull(r, remaining)
		n += rn
		if err != nil {
			return nil, n, err
		}
	}

	v := version.orDefault()

	var packet Packet
	switch header.PacketType {
	case PacketCONNECT:
		packet = &ConnectPacket{}
	case PacketCONNACK:
		packet = &ConnackPacket{Version: v}
	case PacketPUBLISH:
		packet = &PublishPacket{Version: v}
	case PacketPUBACK:
		packet = &PubackPacket{Version: v}
	case PacketPUBREC:
		packet = &PubrecPacket{Version: v}
	case PacketPUBREL:
		packet = &PubrelPacket{Version: v}
	case PacketPUBCOMP:
		packet = &PubcompPacket{Version: v}
	case PacketSUBSCRIBE:
		packet = &SubscribePacket{Version: v}
	case PacketSUBACK:
		packet = &SubackPacket{Version: v}
	case PacketUNSUBSCRIBE:
		packet = &UnsubscribePacket{Version: v}
	case PacketUNSUBACK:
		packet = &UnsubackPacket{Version: v}
	case PacketPINGREQ:
		packet = &PingreqPacket{}
	case PacketPINGRESP:
		packet = &PingrespPacket{}
	case PacketDISCONNECT:
		packet = &DisconnectPacket{Version: v}
	default:
		return nil, n, ErrUnknownPacketType
	}

	reader := getBytesReader(remaining)
	defer putBytesReader(reader)

	bn, err := packet.Decode(reader, header)
	if err != nil {
		return nil, n, err
	}

	// The body must be consumed exactly, a short or long parse means
	// the stream is no longer framed correctly.
	if uint32(bn) != header.RemainingLength {
		return nil, n, ErrFrameDesync
	}

	return packet, n, nil
}

// WritePacket writes a complete MQTT packet to the writer.
// If maxSize is greater than 0, packets larger than maxSize will return ErrPacketTooLarge.
func WritePacket(w io.Writer, packet Packet, maxSize uint32) (int, error) {
	if err := packet.Validate(); err != nil {
		return 0, err
	}

	// If max size check is needed, encode to buffer first
	if maxSize > 0 {
		buf := getBytesBuffer()
		defer putBytesBuffer(buf)

		n, err := packet.Encode(buf)
		if err != nil {
			return 0, err
		}
		if uint32(n) > maxSize {
			return 0, ErrPacketTooLarge
		}
		return w.Write(buf.Bytes())
	}

	return packet.Encode(w)
}

// bytesReader wraps a byte slice for io.Reader interface.
type bytesReader struct {
	data []byte
	pos  int
}

func newBytesReader(data []byte) *bytesReader {
	return &bytesReader{data: data}
}

func (r *bytesReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// bytesBuffer is a simple buffer for encoding.
type bytesBuffer struct {
	data []byte
}

func (b *bytesBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *bytesBuffer) Bytes() []byte {
	return b.data
}

func (b *bytesBuffer) Len() int {
	return len(b.data)
}
