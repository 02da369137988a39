// Package mqttcodec implements the binary wire format of MQTT 3.1.1
// and MQTT 5.0 control packets.
//
// The package covers framing only: it converts between packet structs
// and bytes. It does not open connections, track sessions or retry
// deliveries.
//
// # Packet Types
//
// The package provides structs for the 14 MQTT control packets shared
// by both protocol versions:
//
//   - ConnectPacket, ConnackPacket: Connection establishment
//   - PublishPacket, PubackPacket, PubrecPacket, PubrelPacket, PubcompPacket: Message delivery
//   - SubscribePacket, SubackPacket: Topic subscription
//   - UnsubscribePacket, UnsubackPacket: Topic unsubscription
//   - PingreqPacket, PingrespPacket: Keep-alive
//   - DisconnectPacket: Connection termination
//
// Every packet carries a Version field selecting the v3.1.1 or v5.0
// body layout. The zero value means v3.1.1, so code that never touches
// the field keeps the older framing. CONNECT is the exception: it
// reads its version from the wire.
//
// Use ReadPacket and WritePacket to read/write packets from/to any
// io.Reader/io.Writer:
//
//	// Read a packet on a connection negotiated as v5.0
//	pkt, n, err := mqttcodec.ReadPacket(conn, mqttcodec.Version50, maxPacketSize)
//
//	// Write a packet
//	n, err := mqttcodec.WritePacket(conn, packet, maxPacketSize)
//
// ReadPacket verifies the fixed-header flag rules for the packet type
// and that the body consumes exactly the announced remaining length.
// A violation of either returns a typed error and the stream should be
// considered desynchronized.
//
// # Properties
//
// MQTT v5.0 properties are represented by the Properties type with
// typed accessors:
//
//	var p mqttcodec.Properties
//	p.Set(mqttcodec.PropSessionExpiryInterval, uint32(3600))
//	p.Add(mqttcodec.PropUserProperty, mqttcodec.StringPair{Key: "k", Value: "v"})
//
// # Topic Validation
//
// Topic names and filters are validated during packet Validate calls,
// and the helpers are exported for direct use:
//
//	err := mqttcodec.ValidateTopicName("sensors/temperature")
//	err = mqttcodec.ValidateTopicFilter("sensors/+/status")
//	matched := mqttcodec.TopicMatch("sensors/#", "sensors/room1/temp")
package mqttcodec
