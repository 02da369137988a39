package mqttcodec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingreqPacket(t *testing.T) {
	p := &PingreqPacket{}
	assert.Equal(t, PacketPINGREQ, p.Type())
	assert.NoError(t, p.Validate())

	var buf bytes.Buffer
	n, err := p.Encode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0xC0, 0x00}, buf.Bytes())

	var header FixedHeader
	_, err = header.Decode(&buf)
	require.NoError(t, err)

	var decoded PingreqPacket
	bn, err := decoded.Decode(&buf, header)
	require.NoError(t, err)
	assert.Zero(t, bn)
}

func TestPingrespPacket(t *testing.T) {
	p := &PingrespPacket{}
	assert.Equal(t, PacketPINGRESP, p.Type())
	assert.NoError(t, p.Validate())

	var buf bytes.Buffer
	_, err := p.Encode(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xD0, 0x00}, buf.Bytes())
}

func TestPingPacketRejectsBody(t *testing.T) {
	var req PingreqPacket
	header := FixedHeader{PacketType: PacketPINGREQ, RemainingLength: 1}
	_, err := req.Decode(bytes.NewReader([]byte{0x00}), header)
	assert.ErrorIs(t, err, ErrProtocolViolation)

	var resp PingrespPacket
	header = FixedHeader{PacketType: PacketPINGRESP, RemainingLength: 3}
	_, err = resp.Decode(bytes.NewReader([]byte{0x00, 0x00, 0x00}), header)
	assert.ErrorIs(t, err, ErrProtocolViolation)
}

func TestPingPacketWrongType(t *testing.T) {
	var req PingreqPacket
	_, err := req.Decode(bytes.NewReader(nil), FixedHeader{PacketType: PacketPINGRESP})
	assert.ErrorIs(t, err, ErrInvalidPacketType)

	var resp PingrespPacket
	_, err = resp.Decode(bytes.NewReader(nil), FixedHeader{PacketType: PacketPINGREQ})
	assert.ErrorIs(t, err, ErrInvalidPacketType)
}
