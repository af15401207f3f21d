package ws2812

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

var TestByteEncodesToSPIBytes = []struct {
	In     byte
	Expect [3]byte
}{
	// All zero bits: 100 repeated -> 100100100100100100100100.
	{0x00, [3]byte{0x92, 0x49, 0x24}},
	// All one bits: 110 repeated -> 110110110110110110110110.
	{0xFF, [3]byte{0xDB, 0x6D, 0xB6}},
	// 10100101 -> 110 100 110 100 100 110 100 110.
	{0xA5, [3]byte{0xD3, 0x49, 0xA6}},
	// 10000000: only the MSB is a 1.
	{0x80, [3]byte{0xD2, 0x49, 0x24}},
	// 00000001: only the LSB is a 1.
	{0x01, [3]byte{0x92, 0x49, 0x26}},
}

func TestEncodeKnownValues(t *testing.T) {
	lut := encodeLUT()
	for _, v := range TestByteEncodesToSPIBytes {
		t.Run("0x"+strconv.FormatUint(uint64(v.In), 16), func(t *testing.T) {
			assert.Equal(t, v.Expect, lut[v.In])
		})
	}
}

// decode reverses one 3-byte expansion through the fixed 110/100 mapping.
func decode(t *testing.T, enc [3]byte) byte {
	t.Helper()
	bits := uint32(enc[0])<<16 | uint32(enc[1])<<8 | uint32(enc[2])
	var out byte
	for i := 7; i >= 0; i-- {
		tri := (bits >> (3 * i)) & 0b111
		switch tri {
		case bitOne:
			out = out<<1 | 1
		case bitZero:
			out = out << 1
		default:
			t.Fatalf("invalid bit pattern %03b in %x", tri, enc)
		}
	}
	return out
}

func TestEncodeRoundTripAllValues(t *testing.T) {
	lut := encodeLUT()
	for v := 0; v < 256; v++ {
		assert.Equal(t, byte(v), decode(t, lut[v]), "value 0x%02x must survive the expansion", v)
	}
}

func TestEncodeTableIsStable(t *testing.T) {
	// The table is built once; later calls return the same backing array.
	a := encodeLUT()
	b := encodeLUT()
	assert.Same(t, a, b)
}
