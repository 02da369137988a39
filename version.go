package mqttcodec

// ProtocolVersion is the MQTT protocol level carried in the CONNECT
// variable header.
type ProtocolVersion byte

// Supported protocol levels.
const (
	// Version311 is MQTT 3.1.1 (protocol level 4).
	Version311 ProtocolVersion = 4
	// Version50 is MQTT 5.0 (protocol level 5).
	Version50 ProtocolVersion = 5
)

// String returns the string representation of the protocol version.
func (v ProtocolVersion) String() string {
	switch v {
	case Version311:
		return "MQTT 3.1.1"
	case Version50:
		return "MQTT 5.0"
	default:
		return "UNKNOWN"
	}
}

// Valid returns true if the protocol version is supported.
func (v ProtocolVersion) Valid() bool {
	return v == Version311 || v == Version50
}

// orDefault maps the zero value to Version311 so that plain struct
// literals encode the v3.1.1 wire layout.
func (v ProtocolVersion) orDefault() ProtocolVersion {
	if v == 0 {
		return Version311
	}
	return v
}
