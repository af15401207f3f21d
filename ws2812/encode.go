package ws2812

import (
	"sync"

	"periph.io/x/conn/v3/physic"
)

const (
	// bitOne and bitZero are the 3-SPI-bit expansions of one protocol bit.
	// At busFreq, 3 bits span ~1.25us: 110 holds the line high long enough
	// to read as a 1, 100 short enough to read as a 0.
	bitOne  = 0b110
	bitZero = 0b100

	// encodedLen is the number of SPI bytes one channel byte expands to
	// (8 bits * 3 = 24 bits).
	encodedLen = 3

	// preambleLen is the run of zero bytes ahead of the pixel data. 42 bytes
	// at busFreq keep MOSI low for ~140us, comfortably past the strips'
	// reset threshold, so the first real bit is read as a frame start.
	preambleLen = 42

	// busFreq is the fixed SPI clock. 2.4MHz / 3 = 800kHz protocol bit rate.
	busFreq = 2400 * physic.KiloHertz
)

var (
	lutOnce sync.Once
	lut     [256][encodedLen]byte
)

// encodeLUT returns the 256-entry channel-byte to SPI-byte expansion table,
// building it on first use. The table is immutable afterwards and safe for
// concurrent reads.
func encodeLUT() *[256][encodedLen]byte {
	lutOnce.Do(func() {
		for v := 0; v < 256; v++ {
			out := uint32(0)
			for i := 7; i >= 0; i-- {
				tri := uint32(bitZero)
				if (v>>i)&1 == 1 {
					tri = bitOne
				}
				out = (out << 3) | tri
			}
			lut[v][0] = byte(out >> 16)
			lut[v][1] = byte(out >> 8)
			lut[v][2] = byte(out)
		}
	})
	return &lut
}
