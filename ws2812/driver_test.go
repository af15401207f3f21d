package ws2812

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/tiko09/rpi5-ws2812-rgbw/model"
)

func TestDevString(t *testing.T) {
	buf := bytes.Buffer{}
	d, err := NewSPI(spitest.NewRecordRaw(&buf), 1, false)
	assert.NoError(t, err)
	assert.Equal(t, "ws2812{recordraw}", d.String())
}

func TestNewSPIInvalidCount(t *testing.T) {
	buf := bytes.Buffer{}
	_, err := NewSPI(spitest.NewRecordRaw(&buf), 0, false)
	assert.Error(t, err)
}

func TestWriteFrameLayout(t *testing.T) {
	buf := bytes.Buffer{}
	d, err := NewSPI(spitest.NewRecordRaw(&buf), 2, false)
	assert.NoError(t, err)

	assert.NoError(t, d.Write([]byte{20, 10, 30, 20, 10, 30}))

	frame := buf.Bytes()
	assert.Len(t, frame, preambleLen+2*3*encodedLen)

	// The preamble keeps the line idle long enough to read as a reset.
	assert.Equal(t, make([]byte, preambleLen), frame[:preambleLen])

	lut := encodeLUT()
	for i, b := range []byte{20, 10, 30, 20, 10, 30} {
		off := preambleLen + i*encodedLen
		assert.Equal(t, lut[b][:], frame[off:off+encodedLen], "channel byte %d", i)
	}
}

func TestWriteWrongLength(t *testing.T) {
	buf := bytes.Buffer{}
	d, err := NewSPI(spitest.NewRecordRaw(&buf), 2, false)
	assert.NoError(t, err)

	assert.ErrorIs(t, d.Write([]byte{1, 2, 3}), ErrFrameLength)
	assert.ErrorIs(t, d.Write(make([]byte, 8)), ErrFrameLength)
	assert.Zero(t, buf.Len(), "a rejected frame must not touch the bus")

	dw, err := NewSPI(spitest.NewRecordRaw(&buf), 2, true)
	assert.NoError(t, err)
	assert.ErrorIs(t, dw.Write(make([]byte, 6)), ErrFrameLength)
	assert.NoError(t, dw.Write(make([]byte, 8)))
}

func TestClearIdempotent(t *testing.T) {
	buf := bytes.Buffer{}
	d, err := NewSPI(spitest.NewRecordRaw(&buf), 3, false)
	assert.NoError(t, err)

	assert.NoError(t, d.Clear())
	first := make([]byte, buf.Len())
	copy(first, buf.Bytes())
	buf.Reset()
	assert.NoError(t, d.Clear())

	assert.Equal(t, first, buf.Bytes(), "back-to-back clears transfer identical frames")

	// The all-off frame is the preamble plus the encoding of zero for every
	// channel byte.
	lut := encodeLUT()
	assert.Equal(t, make([]byte, preambleLen), first[:preambleLen])
	for off := preambleLen; off < len(first); off += encodedLen {
		assert.Equal(t, lut[0][:], first[off:off+encodedLen])
	}
}

func TestStripThroughDevRGBW(t *testing.T) {
	buf := bytes.Buffer{}
	d, err := NewSPI(spitest.NewRecordRaw(&buf), 1, true)
	assert.NoError(t, err)

	s := d.Strip()
	assert.Equal(t, 1, s.NumPixels())
	assert.True(t, s.HasWhite())

	assert.NoError(t, s.SetPixel(0, model.RGBW(255, 0, 0, 128)))
	assert.NoError(t, s.Show())

	// Each wire byte (G,R,B,W = 0,255,0,128) lands as its table entry at
	// consecutive 3-byte offsets after the preamble.
	frame := buf.Bytes()
	lut := encodeLUT()
	for i, b := range []byte{0, 255, 0, 128} {
		off := preambleLen + i*encodedLen
		assert.Equal(t, lut[b][:], frame[off:off+encodedLen], "wire byte %d", i)
	}
}

func TestWriteBusError(t *testing.T) {
	p := &spitest.Playback{Playback: conntest.Playback{DontPanic: true}}
	d, err := NewSPI(p, 1, false)
	assert.NoError(t, err)

	// The playback port has no expected ops, so the transfer fails; the
	// driver surfaces it without retrying.
	assert.Error(t, d.Write([]byte{1, 2, 3}))
	assert.Error(t, d.Clear())
}

func TestClosedDev(t *testing.T) {
	buf := bytes.Buffer{}
	d, err := NewSPI(spitest.NewRecordRaw(&buf), 1, false)
	assert.NoError(t, err)
	assert.NoError(t, d.Close())
	assert.ErrorIs(t, d.Write([]byte{1, 2, 3}), ErrClosed)
	assert.ErrorIs(t, d.Clear(), ErrClosed)
}

func TestLedCount(t *testing.T) {
	buf := bytes.Buffer{}
	d, err := NewSPI(spitest.NewRecordRaw(&buf), 12, false)
	assert.NoError(t, err)
	assert.Equal(t, 12, d.LedCount())
	assert.False(t, d.HasWhite())
}
