//nolint:dupl // Similar test structure for similar packet types
package mqttcodec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnsubackPacketType(t *testing.T) {
	p := &UnsubackPacket{}
	assert.Equal(t, PacketUNSUBACK, p.Type())
}

func TestUnsubackPacketEncodeDecodeV4(t *testing.T) {
	packet := UnsubackPacket{PacketID: 17}

	var buf bytes.Buffer
	_, err := packet.Encode(&buf)
	require.NoError(t, err)

	// v3.1.1 UNSUBACK is just the packet identifier
	assert.Equal(t, []byte{0xB0, 0x02, 0x00, 0x11}, buf.Bytes())

	var header FixedHeader
	_, err = header.Decode(&buf)
	require.NoError(t, err)

	var decoded UnsubackPacket
	_, err = decoded.Decode(&buf, header)
	require.NoError(t, err)
	assert.Equal(t, packet, decoded)
}

func TestUnsubackPacketEncodeDecodeV5(t *testing.T) {
	packet := UnsubackPacket{
		Version:     Version50,
		PacketID:    18,
		ReasonCodes: []ReasonCode{ReasonSuccess, ReasonNoSubscriptionExisted},
	}
	packet.Props.Set(PropReasonString, "done")

	var buf bytes.Buffer
	_, err := packet.Encode(&buf)
	require.NoError(t, err)

	var header FixedHeader
	_, err = header.Decode(&buf)
	require.NoError(t, err)

	decoded := UnsubackPacket{Version: Version50}
	bn, err := decoded.Decode(&buf, header)
	require.NoError(t, err)
	assert.Equal(t, int(header.RemainingLength), bn)

	assert.Equal(t, packet.ReasonCodes, decoded.ReasonCodes)
	assert.Equal(t, "done", decoded.Props.GetString(PropReasonString))
}

func TestUnsubackPacketValidation(t *testing.T) {
	assert.NoError(t, (&UnsubackPacket{PacketID: 1}).Validate())
	assert.ErrorIs(t, (&UnsubackPacket{}).Validate(), ErrInvalidPacketID)

	assert.ErrorIs(t, (&UnsubackPacket{
		Version:  Version50,
		PacketID: 1,
	}).Validate(), ErrProtocolViolation)

	assert.ErrorIs(t, (&UnsubackPacket{
		Version:     Version50,
		PacketID:    1,
		ReasonCodes: []ReasonCode{ReasonGrantedQoS1},
	}).Validate(), ErrInvalidReasonCode)
}
