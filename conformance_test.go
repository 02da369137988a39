package mqttcodec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTripPackets returns a representative value for every packet
// type in the given protocol version.
func roundTripPackets(version ProtocolVersion) []Packet {
	// The v3.1.1 UNSUBACK body carries no reason codes, so the list is
	// only part of the fixture where it survives a round trip.
	unsuback := &UnsubackPacket{Version: version, PacketID: 10}
	if version == Version50 {
		unsuback.ReasonCodes = []ReasonCode{ReasonSuccess}
	}

	return []Packet{
		&ConnectPacket{
			Version:     version,
			ClientID:    "conformance",
			CleanStart:  true,
			KeepAlive:   30,
			Username:    "user",
			Password:    []byte("pass"),
			WillFlag:    true,
			WillQoS:     QoSAtLeastOnce,
			WillTopic:   "wills/conformance",
			WillPayload: []byte("gone"),
		},
		&ConnackPacket{Version: version, SessionPresent: true},
		&PublishPacket{
			Version:  version,
			Topic:    "round/trip",
			Payload:  []byte("payload"),
			QoS:      QoSExactlyOnce,
			PacketID: 2,
		},
		&PubackPacket{Version: version, PacketID: 3},
		&PubrecPacket{Version: version, PacketID: 4},
		&PubrelPacket{Version: version, PacketID: 5},
		&PubcompPacket{Version: version, PacketID: 6},
		&SubscribePacket{
			Version:  version,
			PacketID: 7,
			Subscriptions: []Subscription{
				{TopicFilter: "round/+", QoS: QoSAtLeastOnce},
			},
		},
		&SubackPacket{
			Version:     version,
			PacketID:    8,
			ReasonCodes: []ReasonCode{ReasonGrantedQoS1},
		},
		&UnsubscribePacket{
			Version:      version,
			PacketID:     9,
			TopicFilters: []string{"round/+"},
		},
		unsuback,
		&PingreqPacket{},
		&PingrespPacket{},
		&DisconnectPacket{Version: version},
	}
}

func TestRoundTripAllPacketTypes(t *testing.T) {
	for _, version := range []ProtocolVersion{Version311, Version50} {
		t.Run(version.String(), func(t *testing.T) {
			for _, packet := range roundTripPackets(version) {
				t.Run(packet.Type().String(), func(t *testing.T) {
					var buf bytes.Buffer
					wn, err := WritePacket(&buf, packet, 0)
					require.NoError(t, err)

					decoded, rn, err := ReadPacket(&buf, version, 0)
					require.NoError(t, err)
					assert.Equal(t, wn, rn)
					assert.Equal(t, packet.Type(), decoded.Type())
					assert.Equal(t, packet, decoded)
					assert.NoError(t, decoded.Validate())
				})
			}
		})
	}
}

// Every decoded packet must consume its body exactly, so re-encoding
// must reproduce the original bytes.
func TestReEncodeStability(t *testing.T) {
	for _, version := range []ProtocolVersion{Version311, Version50} {
		t.Run(version.String(), func(t *testing.T) {
			for _, packet := range roundTripPackets(version) {
				var first bytes.Buffer
				_, err := WritePacket(&first, packet, 0)
				require.NoError(t, err)
				wire := append([]byte(nil), first.Bytes()...)

				decoded, _, err := ReadPacket(&first, version, 0)
				require.NoError(t, err)

				var second bytes.Buffer
				_, err = WritePacket(&second, decoded, 0)
				require.NoError(t, err)
				assert.Equal(t, wire, second.Bytes(), "%s re-encode drifted", packet.Type())
			}
		})
	}
}

func TestPacketInterfaces(t *testing.T) {
	// Packets carrying an identifier expose it through PacketWithID
	withID := []Packet{
		&PublishPacket{}, &PubackPacket{}, &PubrecPacket{}, &PubrelPacket{},
		&PubcompPacket{}, &SubscribePacket{}, &SubackPacket{},
		&UnsubscribePacket{}, &UnsubackPacket{},
	}
	for _, p := range withID {
		pid, ok := p.(PacketWithID)
		require.True(t, ok, "%s should implement PacketWithID", p.Type())
		pid.SetPacketID(99)
		assert.Equal(t, uint16(99), pid.GetPacketID())
	}

	withProps := []Packet{
		&ConnectPacket{}, &ConnackPacket{}, &PublishPacket{}, &PubackPacket{},
		&PubrecPacket{}, &PubrelPacket{}, &PubcompPacket{}, &SubscribePacket{},
		&SubackPacket{}, &UnsubscribePacket{}, &UnsubackPacket{}, &DisconnectPacket{},
	}
	for _, p := range withProps {
		pp, ok := p.(PacketWithProperties)
		require.True(t, ok, "%s should implement PacketWithProperties", p.Type())
		assert.NotNil(t, pp.GetProperties())
	}
}
