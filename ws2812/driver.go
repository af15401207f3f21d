package ws2812

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"github.com/tiko09/rpi5-ws2812-rgbw/model"
)

var (
	// ErrFrameLength is returned by Write when the wire buffer does not
	// match the configured LED count and channel mode.
	ErrFrameLength = errors.New("wire buffer length does not match strip")
	// ErrClosed is returned once the device has been closed.
	ErrClosed = errors.New("device closed")
)

// Dev is a handle to a WS2812/SK6812 strip on a SPI port. It owns two
// fixed-size buffers for the lifetime of the handle: the transmit frame
// (preamble + encoded pixel data) and a prebuilt all-off frame of the same
// size. Write and Clear each issue exactly one bus transfer and block until
// it completes; calls are not synchronized, so concurrent callers must
// serialize externally.
type Dev struct {
	name     string
	c        spi.Conn
	closer   spi.PortCloser
	ledCount int
	channels int
	buf      []byte
	offBuf   []byte
}

// New opens the spidev port for (busID, devID), configures it for the fixed
// encoding clock, and returns a ready device. hasWhite selects 4-channel
// SK6812-RGBW framing over 3-channel WS2812 framing. Close releases the
// port.
func New(busID, devID, ledCount int, hasWhite bool) (*Dev, error) {
	p, err := spireg.Open(fmt.Sprintf("SPI%d.%d", busID, devID))
	if err != nil {
		return nil, fmt.Errorf("ws2812: open port: %w", err)
	}
	d, err := NewSPI(p, ledCount, hasWhite)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	d.closer = p
	return d, nil
}

// NewSPI returns a device on an already opened port. The port is connected
// at the fixed 2.4MHz clock, mode 0, 8 bits per word, MSB first; the caller
// retains ownership of the port.
func NewSPI(p spi.Port, ledCount int, hasWhite bool) (*Dev, error) {
	if ledCount <= 0 {
		return nil, fmt.Errorf("ws2812: invalid LED count: %d", ledCount)
	}
	c, err := p.Connect(busFreq, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("ws2812: connect: %w", err)
	}
	channels := 3
	if hasWhite {
		channels = 4
	}
	n := preambleLen + ledCount*channels*encodedLen
	d := &Dev{
		name:     c.String(),
		c:        c,
		ledCount: ledCount,
		channels: channels,
		buf:      make([]byte, n),
		offBuf:   make([]byte, n),
	}
	zero := encodeLUT()[0]
	for off := preambleLen; off < n; off += encodedLen {
		copy(d.offBuf[off:], zero[:])
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("ws2812{%s}", d.name)
}

// Write transmits one frame of wire-ordered channel bytes (GRB per pixel,
// GRBW when the device was configured with a white channel). Each byte is
// expanded through the lookup table into the transmit buffer and the whole
// frame goes out in a single transfer. The transfer is never retried; on
// failure the caller's pixel state is untouched and a retry is just another
// Write.
func (d *Dev) Write(wire []byte) error {
	if d.c == nil {
		return fmt.Errorf("ws2812: write: %w", ErrClosed)
	}
	if len(wire) != d.ledCount*d.channels {
		return fmt.Errorf("ws2812: %w: got %d bytes, want %d", ErrFrameLength, len(wire), d.ledCount*d.channels)
	}
	t := encodeLUT()
	for i, b := range wire {
		copy(d.buf[preambleLen+i*encodedLen:], t[b][:])
	}
	if err := d.c.Tx(d.buf, nil); err != nil {
		return fmt.Errorf("ws2812: write: %w", err)
	}
	return nil
}

// Clear transmits the prebuilt all-off frame.
func (d *Dev) Clear() error {
	if d.c == nil {
		return fmt.Errorf("ws2812: clear: %w", ErrClosed)
	}
	if err := d.c.Tx(d.offBuf, nil); err != nil {
		return fmt.Errorf("ws2812: clear: %w", err)
	}
	return nil
}

// Halt turns every LED off. It implements conn.Resource.
func (d *Dev) Halt() error {
	return d.Clear()
}

// LedCount returns the number of LEDs the device was configured for.
func (d *Dev) LedCount() int {
	return d.ledCount
}

// HasWhite reports whether the device transmits 4 channels per pixel.
func (d *Dev) HasWhite() bool {
	return d.channels == 4
}

// Strip returns a pixel buffer bound to this device.
func (d *Dev) Strip() *model.Strip {
	return model.NewStrip(d, d.channels == 4)
}

// Close invalidates the device and releases the port if the device opened
// it. A device built with NewSPI leaves the port to its owner.
func (d *Dev) Close() error {
	d.c = nil
	if d.closer != nil {
		err := d.closer.Close()
		d.closer = nil
		return err
	}
	return nil
}

var _ model.StripDriver = &Dev{}
