// Package preview renders strip frames as ANSI colors on the terminal. It
// is the no-hardware stand-in for the SPI device: same driver contract, so
// animations can be exercised on a dev machine without a strip attached.
package preview

import (
	"fmt"
	"image"

	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"

	"github.com/tiko09/rpi5-ws2812-rgbw/model"
)

type Driver struct {
	drawer   display.Drawer
	ledCount int
	channels int
}

// New returns a terminal preview driver for ledCount pixels.
func New(ledCount int, hasWhite bool) *Driver {
	channels := 3
	if hasWhite {
		channels = 4
	}
	return &Driver{
		drawer:   screen.New(ledCount),
		ledCount: ledCount,
		channels: channels,
	}
}

// Write decodes one wire-ordered frame back into colors and draws it.
func (d *Driver) Write(wire []byte) error {
	if len(wire) != d.ledCount*d.channels {
		return fmt.Errorf("preview: wire buffer length %d does not match %d pixels", len(wire), d.ledCount)
	}
	img := image.NewNRGBA(image.Rect(0, 0, d.ledCount, 1))
	for i := 0; i < d.ledCount; i++ {
		off := i * d.channels
		// Wire order is GRB(W); the white channel has no terminal
		// representation and is dropped.
		img.Pix[i*4+0] = wire[off+1]
		img.Pix[i*4+1] = wire[off+0]
		img.Pix[i*4+2] = wire[off+2]
		img.Pix[i*4+3] = 0xFF
	}
	if err := d.drawer.Draw(d.drawer.Bounds(), img, image.Point{}); err != nil {
		return fmt.Errorf("preview: draw: %w", err)
	}
	fmt.Printf("\n")
	return nil
}

// Clear blanks the preview.
func (d *Driver) Clear() error {
	if err := d.drawer.Halt(); err != nil {
		return fmt.Errorf("preview: halt: %w", err)
	}
	return nil
}

// LedCount returns the number of pixels previewed.
func (d *Driver) LedCount() int {
	return d.ledCount
}

// Strip returns a pixel buffer bound to the preview.
func (d *Driver) Strip() *model.Strip {
	return model.NewStrip(d, d.channels == 4)
}

var _ model.StripDriver = &Driver{}
