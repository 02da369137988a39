//nolint:dupl // Similar test structure for similar packet types
package mqttcodec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubackPacketType(t *testing.T) {
	p := &SubackPacket{}
	assert.Equal(t, PacketSUBACK, p.Type())
}

func TestSubackPacketEncodeDecodeV4(t *testing.T) {
	tests := []struct {
		name   string
		packet SubackPacket
	}{
		{
			name:   "single granted qos1",
			packet: SubackPacket{PacketID: 1, ReasonCodes: []ReasonCode{ReasonGrantedQoS1}},
		},
		{
			name: "grants in request order",
			packet: SubackPacket{
				PacketID: 42,
				ReasonCodes: []ReasonCode{
					ReasonGrantedQoS0,
					ReasonGrantedQoS1,
					ReasonGrantedQoS2,
				},
			},
		},
		{
			name:   "with failure marker",
			packet: SubackPacket{PacketID: 7, ReasonCodes: []ReasonCode{ReasonGrantedQoS1, ReasonFailure}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			_, err := tt.packet.Encode(&buf)
			require.NoError(t, err)

			var header FixedHeader
			_, err = header.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, PacketSUBACK, header.PacketType)
			assert.Equal(t, uint32(2+len(tt.packet.ReasonCodes)), header.RemainingLength)

			var decoded SubackPacket
			_, err = decoded.Decode(&buf, header)
			require.NoError(t, err)
			assert.Equal(t, tt.packet, decoded)
		})
	}
}

func TestSubackPacketEncodeDecodeV5(t *testing.T) {
	packet := SubackPacket{
		Version:     Version50,
		PacketID:    3,
		ReasonCodes: []ReasonCode{ReasonGrantedQoS2, ReasonTopicFilterInvalid},
	}
	packet.Props.Set(PropReasonString, "partial")

	var buf bytes.Buffer
	_, err := packet.Encode(&buf)
	require.NoError(t, err)

	var header FixedHeader
	_, err = header.Decode(&buf)
	require.NoError(t, err)

	decoded := SubackPacket{Version: Version50}
	_, err = decoded.Decode(&buf, header)
	require.NoError(t, err)

	assert.Equal(t, packet.ReasonCodes, decoded.ReasonCodes)
	assert.Equal(t, "partial", decoded.Props.GetString(PropReasonString))
}

func TestSubackPacketValidation(t *testing.T) {
	tests := []struct {
		name    string
		packet  SubackPacket
		wantErr error
	}{
		{
			name:    "v4 valid",
			packet:  SubackPacket{PacketID: 1, ReasonCodes: []ReasonCode{ReasonGrantedQoS0}},
			wantErr: nil,
		},
		{
			name:    "zero packet id",
			packet:  SubackPacket{ReasonCodes: []ReasonCode{ReasonGrantedQoS0}},
			wantErr: ErrInvalidPacketID,
		},
		{
			name:    "no reason codes",
			packet:  SubackPacket{PacketID: 1},
			wantErr: ErrProtocolViolation,
		},
		{
			name:    "v4 rejects v5-only code",
			packet:  SubackPacket{PacketID: 1, ReasonCodes: []ReasonCode{ReasonNotAuthorized}},
			wantErr: ErrInvalidReasonCode,
		},
		{
			name: "v5 accepts v5 code",
			packet: SubackPacket{
				Version:     Version50,
				PacketID:    1,
				ReasonCodes: []ReasonCode{ReasonNotAuthorized},
			},
			wantErr: nil,
		},
		{
			name: "v5 invalid code",
			packet: SubackPacket{
				Version:     Version50,
				PacketID:    1,
				ReasonCodes: []ReasonCode{ReasonPacketIDNotFound},
			},
			wantErr: ErrInvalidReasonCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.packet.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func BenchmarkSubackPacketEncode(b *testing.B) {
	packet := SubackPacket{PacketID: 1, ReasonCodes: []ReasonCode{ReasonGrantedQoS1}}
	var buf bytes.Buffer
	buf.Grow(16)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		buf.Reset()
		_, _ = packet.Encode(&buf)
	}
}
