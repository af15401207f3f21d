package ws2812

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/nrzled"

	"github.com/tiko09/rpi5-ws2812-rgbw/model"
)

// NRZ is an alternate SPI backend that delegates the bit expansion to
// periph.io's nrzled rasterizer instead of the local lookup table. It speaks
// the same StripDriver contract, so a Strip cannot tell the two apart.
type NRZ struct {
	dev      *nrzled.Dev
	ledCount int
	channels int
	rgb      []byte
}

// NewNRZ returns an nrzled-backed device on an already opened port.
func NewNRZ(p spi.Port, ledCount int, hasWhite bool) (*NRZ, error) {
	if ledCount <= 0 {
		return nil, fmt.Errorf("ws2812: invalid LED count: %d", ledCount)
	}
	channels := 3
	if hasWhite {
		channels = 4
	}
	opts := nrzled.Opts{
		NumPixels: ledCount,
		Channels:  channels,
		Freq:      2500 * physic.KiloHertz,
	}
	dev, err := nrzled.NewSPI(p, &opts)
	if err != nil {
		return nil, fmt.Errorf("ws2812: nrzled: %w", err)
	}
	return &NRZ{
		dev:      dev,
		ledCount: ledCount,
		channels: channels,
		rgb:      make([]byte, ledCount*channels),
	}, nil
}

func (n *NRZ) String() string {
	return n.dev.String()
}

// Write transmits one frame of wire-ordered channel bytes. nrzled performs
// the GRB(W) reorder itself, so the wire bytes are swapped back to RGB(W)
// before being handed over.
func (n *NRZ) Write(wire []byte) error {
	if len(wire) != n.ledCount*n.channels {
		return fmt.Errorf("ws2812: %w: got %d bytes, want %d", ErrFrameLength, len(wire), n.ledCount*n.channels)
	}
	for i := 0; i < n.ledCount; i++ {
		off := i * n.channels
		n.rgb[off+0] = wire[off+1]
		n.rgb[off+1] = wire[off+0]
		n.rgb[off+2] = wire[off+2]
		if n.channels == 4 {
			n.rgb[off+3] = wire[off+3]
		}
	}
	if _, err := n.dev.Write(n.rgb); err != nil {
		return fmt.Errorf("ws2812: write: %w", err)
	}
	return nil
}

// Clear turns every LED off.
func (n *NRZ) Clear() error {
	if err := n.dev.Halt(); err != nil {
		return fmt.Errorf("ws2812: clear: %w", err)
	}
	return nil
}

// LedCount returns the number of LEDs the device was configured for.
func (n *NRZ) LedCount() int {
	return n.ledCount
}

// Strip returns a pixel buffer bound to this device.
func (n *NRZ) Strip() *model.Strip {
	return model.NewStrip(n, n.channels == 4)
}

var _ model.StripDriver = &NRZ{}
