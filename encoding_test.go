package mqttcodec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeVarintBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		value uint32
		want  []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"one byte max", 127, []byte{0x7F}},
		{"two byte min", 128, []byte{0x80, 0x01}},
		{"two byte max", 16383, []byte{0xFF, 0x7F}},
		{"three byte min", 16384, []byte{0x80, 0x80, 0x01}},
		{"three byte max", 2097151, []byte{0xFF, 0xFF, 0x7F}},
		{"four byte min", 2097152, []byte{0x80, 0x80, 0x80, 0x01}},
		{"four byte max", 268435455, []byte{0xFF, 0xFF, 0xFF, 0x7F}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := encodeVarint(&buf, tt.value)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), n)
			assert.Equal(t, tt.want, buf.Bytes())

			decoded, dn, err := decodeVarint(&buf)
			require.NoError(t, err)
			assert.Equal(t, tt.value, decoded)
			assert.Equal(t, len(tt.want), dn)
		})
	}
}

func TestEncodeVarintTooLarge(t *testing.T) {
	var buf bytes.Buffer
	_, err := encodeVarint(&buf, 268435456)
	assert.ErrorIs(t, err, ErrVarintTooLarge)
	assert.Zero(t, buf.Len())
}

func TestDecodeVarintMalformed(t *testing.T) {
	// Five continuation bytes can never be a valid encoding
	r := bytes.NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x01})
	_, _, err := decodeVarint(r)
	assert.ErrorIs(t, err, ErrVarintMalformed)
}

func TestDecodeVarintTruncated(t *testing.T) {
	r := bytes.NewReader([]byte{0x80})
	_, _, err := decodeVarint(r)
	assert.Error(t, err)
}

func TestVarintSize(t *testing.T) {
	assert.Equal(t, 1, varintSize(0))
	assert.Equal(t, 1, varintSize(127))
	assert.Equal(t, 2, varintSize(128))
	assert.Equal(t, 2, varintSize(16383))
	assert.Equal(t, 3, varintSize(16384))
	assert.Equal(t, 3, varintSize(2097151))
	assert.Equal(t, 4, varintSize(2097152))
	assert.Equal(t, 4, varintSize(268435455))
}

func TestEncodeDecodeString(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"ascii", "hello"},
		{"topic", "sensors/room1/temperature"},
		{"utf8", "датчик/температура"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := encodeString(&buf, tt.value)
			require.NoError(t, err)
			assert.Equal(t, 2+len(tt.value), n)

			decoded, dn, err := decodeString(&buf)
			require.NoError(t, err)
			assert.Equal(t, tt.value, decoded)
			assert.Equal(t, n, dn)
		})
	}
}

func TestEncodeStringErrors(t *testing.T) {
	var buf bytes.Buffer

	_, err := encodeString(&buf, strings.Repeat("a", 65536))
	assert.ErrorIs(t, err, ErrStringTooLong)

	_, err = encodeString(&buf, string([]byte{0xFF, 0xFE}))
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	_, err = encodeString(&buf, "has\x00null")
	assert.ErrorIs(t, err, ErrStringContainsNull)
}

func TestDecodeStringErrors(t *testing.T) {
	// Invalid UTF-8 body
	_, _, err := decodeString(bytes.NewReader([]byte{0x00, 0x02, 0xFF, 0xFE}))
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	// Embedded null
	_, _, err = decodeString(bytes.NewReader([]byte{0x00, 0x02, 'a', 0x00}))
	assert.ErrorIs(t, err, ErrStringContainsNull)

	// Dangling length prefix
	_, _, err = decodeString(bytes.NewReader([]byte{0x00, 0x05, 'a'}))
	assert.Error(t, err)
}

func TestEncodeDecodeBinary(t *testing.T) {
	var buf bytes.Buffer
	data := []byte{0x01, 0x02, 0x03}

	n, err := encodeBinary(&buf, data)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	decoded, dn, err := decodeBinary(&buf)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
	assert.Equal(t, 5, dn)
}

func TestEncodeBinaryTooLong(t *testing.T) {
	var buf bytes.Buffer
	_, err := encodeBinary(&buf, make([]byte, 65536))
	assert.ErrorIs(t, err, ErrBinaryTooLong)
}

func TestEncodeDecodeBinary32(t *testing.T) {
	var buf bytes.Buffer
	data := []byte("offline")

	n, err := encodeBinary32(&buf, data)
	require.NoError(t, err)
	assert.Equal(t, 4+len(data), n)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x07}, buf.Bytes()[:4])

	decoded, dn, err := decodeBinary32(&buf)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
	assert.Equal(t, n, dn)
}

func TestDecodeBinary32HostilePrefix(t *testing.T) {
	// A declared length beyond the maximum remaining length must be
	// rejected without allocating the buffer.
	r := bytes.NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	_, _, err := decodeBinary32(r)
	assert.ErrorIs(t, err, ErrBinaryTooLong)
}

func TestEncodeDecodeStringPair(t *testing.T) {
	var buf bytes.Buffer
	pair := StringPair{Key: "region", Value: "eu-west"}

	n, err := encodeStringPair(&buf, pair)
	require.NoError(t, err)
	assert.Equal(t, 2+6+2+7, n)

	key, _, err := decodeString(&buf)
	require.NoError(t, err)
	value, _, err := decodeString(&buf)
	require.NoError(t, err)
	assert.Equal(t, pair.Key, key)
	assert.Equal(t, pair.Value, value)
}

func BenchmarkEncodeVarint(b *testing.B) {
	var buf bytes.Buffer
	buf.Grow(8)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		buf.Reset()
		_, _ = encodeVarint(&buf, 2097152)
	}
}

func BenchmarkDecodeVarint(b *testing.B) {
	data := []byte{0x80, 0x80, 0x80, 0x01}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		r := newBytesReader(data)
		_, _, _ = decodeVarint(r)
	}
}
