package model

import "fmt"

// Color is a single RGBW pixel value. For RGB-only strips (WS2812/WS2812B)
// the W channel is carried but ignored by the output path; for SK6812-RGBW
// strips all four channels are transmitted.
//
// Color is a plain comparable value: two colors are equal iff all four
// channels are equal, and assigning a Color always copies it. Channel values
// are not range-checked; they are already constrained to 0..255 by the type.
type Color struct {
	R, G, B, W uint8
}

// RGB returns an RGB color with the white channel off.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// RGBW returns a four-channel color.
func RGBW(r, g, b, w uint8) Color {
	return Color{R: r, G: g, B: b, W: w}
}

// Channels returns the channel values in R, G, B, W order for ordered
// unpacking into flat buffers.
func (c Color) Channels() [4]uint8 {
	return [4]uint8{c.R, c.G, c.B, c.W}
}

func (c Color) String() string {
	if c.W > 0 {
		return fmt.Sprintf("Color(r=%d, g=%d, b=%d, w=%d)", c.R, c.G, c.B, c.W)
	}
	return fmt.Sprintf("Color(r=%d, g=%d, b=%d)", c.R, c.G, c.B)
}
