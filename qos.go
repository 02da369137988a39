package mqttcodec

import "errors"

// ErrInvalidQoS is returned for the reserved 2-bit QoS value 3.
var ErrInvalidQoS = errors.New("invalid QoS level")

// QoS is the Quality of Service level of a message delivery.
type QoS byte

// Quality of Service levels.
const (
	QoSAtMostOnce  QoS = 0
	QoSAtLeastOnce QoS = 1
	QoSExactlyOnce QoS = 2
)

// String returns the string representation of the QoS level.
func (q QoS) String() string {
	switch q {
	case QoSAtMostOnce:
		return "AtMostOnce"
	case QoSAtLeastOnce:
		return "AtLeastOnce"
	case QoSExactlyOnce:
		return "ExactlyOnce"
	default:
		return "INVALID"
	}
}

// Valid returns true if the QoS level is 0, 1 or 2.
func (q QoS) Valid() bool {
	return q <= QoSExactlyOnce
}

// ParseQoS converts a raw byte to a QoS level.
// The reserved value 3 (and anything above) is rejected.
func ParseQoS(b byte) (QoS, error) {
	q := QoS(b)
	if !q.Valid() {
		return 0, ErrInvalidQoS
	}
	return q, nil
}
