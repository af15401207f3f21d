package model

import (
	"errors"
	"fmt"
)

var (
	// ErrPixelIndex is returned by SetPixel for an index outside the strip.
	ErrPixelIndex = errors.New("pixel index out of range")
	// ErrChannelShape is returned by SetPixelChannels when the rows are not
	// uniformly 3 or 4 channels wide.
	ErrChannelShape = errors.New("channel rows must be uniformly 3 or 4 wide")
)

// Strip is the in-memory pixel buffer for one LED strip. It accumulates
// per-LED colors and, on Show, flattens them into the GRB(W) wire order the
// LED controllers expect and hands the frame to its StripDriver.
//
// The strip length is fixed at construction from the driver's LED count.
// Brightness is a stored hint for callers; it is deliberately NOT applied to
// transmitted values, so renderers that pre-scale upstream are never scaled
// twice.
type Strip struct {
	driver     StripDriver
	pixels     []Color
	brightness float64
	hasWhite   bool
}

// NewStrip returns a Strip sized to the driver's LED count, all pixels off,
// brightness 1.0. hasWhite selects 4-channel (SK6812-RGBW) output; RGB
// strips ignore the white channel entirely.
func NewStrip(d StripDriver, hasWhite bool) *Strip {
	return &Strip{
		driver:     d,
		pixels:     make([]Color, d.LedCount()),
		brightness: 1.0,
		hasWhite:   hasWhite,
	}
}

// SetPixel replaces the color of pixel i. The change is not transmitted
// until Show is called.
func (s *Strip) SetPixel(i int, c Color) error {
	if i < 0 || i >= len(s.pixels) {
		return fmt.Errorf("%w: %d (strip has %d)", ErrPixelIndex, i, len(s.pixels))
	}
	s.pixels[i] = c
	return nil
}

// Pixel returns the buffered color of pixel i.
func (s *Strip) Pixel(i int) (Color, error) {
	if i < 0 || i >= len(s.pixels) {
		return Color{}, fmt.Errorf("%w: %d (strip has %d)", ErrPixelIndex, i, len(s.pixels))
	}
	return s.pixels[i], nil
}

// SetPixels writes colors sequentially starting at start. Writing stops
// silently at the end of the strip; the overrun is a clamp, not an error.
func (s *Strip) SetPixels(start int, colors []Color) {
	if start < 0 {
		return
	}
	for i, c := range colors {
		if start+i >= len(s.pixels) {
			return
		}
		s.pixels[start+i] = c
	}
}

// SetPixelChannels writes colors from flat per-pixel channel rows starting
// at start. Every row must have the width of the first row, and that width
// must be 3 (RGB) or 4 (RGBW); otherwise ErrChannelShape is returned and
// nothing is written. Three-wide rows leave the white channel at 0. The same
// end-of-strip clamp as SetPixels applies.
func (s *Strip) SetPixelChannels(start int, rows [][]uint8) error {
	if len(rows) == 0 {
		return nil
	}
	width := len(rows[0])
	if width != 3 && width != 4 {
		return fmt.Errorf("%w: got %d", ErrChannelShape, width)
	}
	for _, row := range rows {
		if len(row) != width {
			return fmt.Errorf("%w: got %d and %d", ErrChannelShape, width, len(row))
		}
	}
	if start < 0 {
		return nil
	}
	for i, row := range rows {
		if start+i >= len(s.pixels) {
			break
		}
		c := Color{R: row[0], G: row[1], B: row[2]}
		if width == 4 {
			c.W = row[3]
		}
		s.pixels[start+i] = c
	}
	return nil
}

// SetAll replaces every pixel with the same color.
func (s *Strip) SetAll(c Color) {
	for i := range s.pixels {
		s.pixels[i] = c
	}
}

// Clear resets every pixel to off and immediately transmits the driver's
// prebuilt all-off frame, bypassing the normal Show path. The buffer is
// reset even if the transfer fails.
func (s *Strip) Clear() error {
	for i := range s.pixels {
		s.pixels[i] = Color{}
	}
	return s.driver.Clear()
}

// Show flattens the buffer into the controller's wire channel order (green
// first: G,R,B for RGB strips, G,R,B,W for RGBW) and writes it through the
// driver. Callers specify colors as RGB(W); the GRB(W) reorder here is a
// fixed part of the contract, not configurable. On failure the buffer is
// left untouched so the caller may simply Show again.
func (s *Strip) Show() error {
	channels := 3
	if s.hasWhite {
		channels = 4
	}
	wire := make([]byte, 0, len(s.pixels)*channels)
	for _, p := range s.pixels {
		wire = append(wire, p.G, p.R, p.B)
		if s.hasWhite {
			wire = append(wire, p.W)
		}
	}
	return s.driver.Write(wire)
}

// SetBrightness stores a brightness hint, clamped into [0,1]. It is not
// applied by Show; scaling is the caller's responsibility.
func (s *Strip) SetBrightness(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	s.brightness = v
}

// Brightness returns the stored brightness hint.
func (s *Strip) Brightness() float64 {
	return s.brightness
}

// NumPixels returns the strip length.
func (s *Strip) NumPixels() int {
	return len(s.pixels)
}

// HasWhite reports whether the strip transmits a white channel.
func (s *Strip) HasWhite() bool {
	return s.hasWhite
}
