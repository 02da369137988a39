package mqttcodec

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectPacketType(t *testing.T) {
	p := &ConnectPacket{}
	assert.Equal(t, PacketCONNECT, p.Type())
}

func TestConnectPacketEncodeDecodeV4(t *testing.T) {
	tests := []struct {
		name   string
		packet ConnectPacket
	}{
		{
			name: "minimal",
			packet: ConnectPacket{
				Version:    Version311,
				ClientID:   "client-1",
				CleanStart: true,
				KeepAlive:  60,
			},
		},
		{
			name: "with credentials",
			packet: ConnectPacket{
				Version:    Version311,
				ClientID:   "client-2",
				CleanStart: true,
				KeepAlive:  30,
				Username:   "user",
				Password:   []byte("secret"),
			},
		},
		{
			name: "with will",
			packet: ConnectPacket{
				Version:     Version311,
				ClientID:    "client-3",
				CleanStart:  false,
				KeepAlive:   120,
				WillFlag:    true,
				WillQoS:     QoSExactlyOnce,
				WillRetain:  true,
				WillTopic:   "status/client-3",
				WillPayload: []byte("gone"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := tt.packet.Encode(&buf)
			require.NoError(t, err)
			assert.Equal(t, buf.Len(), n)

			var header FixedHeader
			_, err = header.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, PacketCONNECT, header.PacketType)
			assert.Equal(t, byte(0x00), header.Flags)

			var decoded ConnectPacket
			bn, err := decoded.Decode(&buf, header)
			require.NoError(t, err)
			assert.Equal(t, int(header.RemainingLength), bn)
			assert.Equal(t, tt.packet, decoded)
		})
	}
}

// The canonical v3.1.1 session establishment frame: every connect flag
// in play, remaining length computed from the individual field widths.
func TestConnectPacketV4Scenario(t *testing.T) {
	packet := ConnectPacket{
		Version:     Version311,
		ClientID:    "client_01",
		CleanStart:  true,
		KeepAlive:   10,
		Username:    "rump",
		Password:    []byte("mq"),
		WillFlag:    true,
		WillQoS:     QoSAtLeastOnce,
		WillRetain:  false,
		WillTopic:   "/a",
		WillPayload: []byte("offline"),
	}

	var buf bytes.Buffer
	_, err := packet.Encode(&buf)
	require.NoError(t, err)

	data := buf.Bytes()
	assert.Equal(t, byte(0x10), data[0])

	// 10 fixed bytes, then each field behind its 2-byte length prefix:
	// client id 2+9, will topic 2+2, will payload 2+7, username 2+4,
	// password 2+2.
	wantRemaining := 10 + (2 + 9) + (2 + 2) + (2 + 7) + (2 + 4) + (2 + 2)
	assert.Equal(t, byte(wantRemaining), data[1])

	// Connect flags: username | password | will qos 1 | will flag | clean
	assert.Equal(t, byte(0xCE), data[9])

	var header FixedHeader
	_, err = header.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(wantRemaining), header.RemainingLength)

	var decoded ConnectPacket
	_, err = decoded.Decode(&buf, header)
	require.NoError(t, err)
	assert.Equal(t, packet, decoded)
}

func TestConnectPacketEncodeDecodeV5(t *testing.T) {
	packet := ConnectPacket{
		Version:     Version50,
		ClientID:    "client-5",
		CleanStart:  true,
		KeepAlive:   45,
		Username:    "user",
		Password:    []byte("pass"),
		WillFlag:    true,
		WillQoS:     QoSAtLeastOnce,
		WillTopic:   "will/topic",
		WillPayload: []byte("bye"),
	}
	packet.Props.Set(PropSessionExpiryInterval, uint32(3600))
	packet.Props.Set(PropReceiveMaximum, uint16(20))
	packet.WillProps.Set(PropWillDelayInterval, uint32(5))

	var buf bytes.Buffer
	_, err := packet.Encode(&buf)
	require.NoError(t, err)

	var header FixedHeader
	_, err = header.Decode(&buf)
	require.NoError(t, err)

	var decoded ConnectPacket
	bn, err := decoded.Decode(&buf, header)
	require.NoError(t, err)
	assert.Equal(t, int(header.RemainingLength), bn)

	assert.Equal(t, Version50, decoded.Version)
	assert.Equal(t, packet.ClientID, decoded.ClientID)
	assert.Equal(t, packet.Username, decoded.Username)
	assert.Equal(t, packet.Password, decoded.Password)
	assert.Equal(t, packet.WillTopic, decoded.WillTopic)
	assert.Equal(t, packet.WillPayload, decoded.WillPayload)
	assert.Equal(t, uint32(3600), decoded.Props.GetUint32(PropSessionExpiryInterval))
	assert.Equal(t, uint32(5), decoded.WillProps.GetUint32(PropWillDelayInterval))
}

func TestConnectPacketDecodeSelectsVersion(t *testing.T) {
	// The decoded version comes from the protocol level byte, not from
	// the version hint the reader was constructed with.
	packet := ConnectPacket{Version: Version50, ClientID: "c", CleanStart: true}

	var buf bytes.Buffer
	_, err := packet.Encode(&buf)
	require.NoError(t, err)

	decoded, _, err := ReadPacket(&buf, Version311, 0)
	require.NoError(t, err)

	connect, ok := decoded.(*ConnectPacket)
	require.True(t, ok)
	assert.Equal(t, Version50, connect.Version)
}

func TestConnectPacketDecodeErrors(t *testing.T) {
	encode := func(mutate func([]byte)) *bytes.Reader {
		packet := ConnectPacket{Version: Version311, ClientID: "c", CleanStart: true}
		var buf bytes.Buffer
		_, err := packet.Encode(&buf)
		require.NoError(t, err)
		data := buf.Bytes()
		mutate(data)
		return bytes.NewReader(data[2:]) // skip fixed header
	}

	t.Run("wrong protocol name", func(t *testing.T) {
		r := encode(func(data []byte) { data[4] = 'X' })
		var p ConnectPacket
		_, err := p.Decode(r, FixedHeader{PacketType: PacketCONNECT})
		assert.ErrorIs(t, err, ErrInvalidProtocolName)
	})

	t.Run("unsupported protocol level", func(t *testing.T) {
		r := encode(func(data []byte) { data[8] = 3 })
		var p ConnectPacket
		_, err := p.Decode(r, FixedHeader{PacketType: PacketCONNECT})
		assert.ErrorIs(t, err, ErrInvalidProtocolVersion)
	})

	t.Run("reserved flag bit set", func(t *testing.T) {
		r := encode(func(data []byte) { data[9] |= 0x01 })
		var p ConnectPacket
		_, err := p.Decode(r, FixedHeader{PacketType: PacketCONNECT})
		assert.ErrorIs(t, err, ErrInvalidConnectFlags)
	})

	t.Run("will qos without will flag", func(t *testing.T) {
		r := encode(func(data []byte) { data[9] |= 0x08 })
		var p ConnectPacket
		_, err := p.Decode(r, FixedHeader{PacketType: PacketCONNECT})
		assert.ErrorIs(t, err, ErrInvalidConnectFlags)
	})

	t.Run("wrong packet type", func(t *testing.T) {
		var p ConnectPacket
		_, err := p.Decode(bytes.NewReader(nil), FixedHeader{PacketType: PacketPUBLISH})
		assert.ErrorIs(t, err, ErrInvalidPacketType)
	})
}

func TestConnectPacketValidation(t *testing.T) {
	tests := []struct {
		name    string
		packet  ConnectPacket
		wantErr error
	}{
		{
			name:    "valid",
			packet:  ConnectPacket{ClientID: "c", CleanStart: true},
			wantErr: nil,
		},
		{
			name:    "empty client id without clean start",
			packet:  ConnectPacket{CleanStart: false},
			wantErr: ErrClientIDRequired,
		},
		{
			name:    "will retain without will flag",
			packet:  ConnectPacket{ClientID: "c", CleanStart: true, WillRetain: true},
			wantErr: ErrInvalidConnectFlags,
		},
		{
			name:    "invalid will qos",
			packet:  ConnectPacket{ClientID: "c", CleanStart: true, WillFlag: true, WillQoS: 3, WillTopic: "t"},
			wantErr: ErrInvalidConnectFlags,
		},
		{
			name:    "will topic with wildcard",
			packet:  ConnectPacket{ClientID: "c", CleanStart: true, WillFlag: true, WillTopic: "a/#"},
			wantErr: ErrInvalidTopicName,
		},
		{
			name:    "password without username",
			packet:  ConnectPacket{ClientID: "c", CleanStart: true, Password: []byte("p")},
			wantErr: ErrPasswordWithoutUsername,
		},
		{
			name:    "unsupported version",
			packet:  ConnectPacket{Version: 3, ClientID: "c", CleanStart: true},
			wantErr: ErrInvalidProtocolVersion,
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

func BenchmarkConnectPacketEncode(b *testing.B) {
	packet := ConnectPacket{
		Version:    Version311,
		ClientID:   "bench-client",
		CleanStart: true,
		KeepAlive:  60,
	}
	var buf bytes.Buffer
	buf.Grow(64)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		buf.Reset()
		_, _ = packet.Encode(&buf)
	}
}

func FuzzConnectPacketDecode(f *testing.F) {
	seed := ConnectPacket{
		Version:    Version311,
		ClientID:   "client_01",
		CleanStart: true,
		KeepAlive:  10,
		Username:   "rump",
		Password:   []byte("mq"),
	}
	var buf bytes.Buffer
	_, _ = seed.Encode(&buf)
	f.Add(buf.Bytes())

	seed5 := ConnectPacket{Version: Version50, ClientID: "c5", CleanStart: true}
	buf.Reset()
	_, _ = seed5.Encode(&buf)
	f.Add(buf.Bytes())

	for i := 0; i < 10; i++ {
		size := rand.Intn(48) + 1
		data := make([]byte, size)
		for i := range data {
			data[i] = byte(rand.Intn(256))
		}
		f.Add(data)
	}

	f.Fuzz(func(_ *testing.T, data []byte) {
		r := bytes.NewReader(data)
		var header FixedHeader
		n, err := header.Decode(r)
		if err != nil || header.PacketType != PacketCONNECT {
			return
		}

		remaining := data[n:]
		if len(remaining) < int(header.RemainingLength) {
			return
		}

		var p ConnectPacket
		_, _ = p.Decode(bytes.NewReader(remaining), header)
	})
}
