package raster

import "github.com/chewxy/math32"

// Color is a linear RGB intensity. Channels are nominally in [0,1] but are
// never clamped; callers keep them sane before packing.
type Color struct {
	R, G, B float32
}

func Black() Color { return Color{} }

func Red() Color { return Color{R: 1} }

// Scale returns c with every channel multiplied by k.
func (c Color) Scale(k float32) Color {
	return Color{R: c.R * k, G: c.G * k, B: c.B * k}
}

// Pack truncates each channel to 0–255 and packs them as 0xRRGGBB.
// Channels outside [0,1] wrap or saturate depending on the platform's
// float-to-integer conversion.
func (c Color) Pack() uint32 {
	r := uint32(math32.Floor(c.R * 255))
	g := uint32(math32.Floor(c.G * 255))
	b := uint32(math32.Floor(c.B * 255))
	return r<<16 | g<<8 | b
}

// Unpack splits a packed 0xRRGGBB value into its 8-bit channels.
func Unpack(p uint32) (r, g, b uint8) {
	return uint8(p >> 16), uint8(p >> 8), uint8(p)
}
