package raster

import (
	"image"

	"github.com/chewxy/math32"
)

// FrameBuffer holds the render target as flat row-major slices, origin at the
// top-left. Color entries are packed 0xRRGGBB; Depth starts at +Inf so the
// first fragment at any pixel always wins.
//
// A FrameBuffer is owned by one render call at a time.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint32  // len = W*H
	Depth  []float32 // len = W*H
}

// NewFrameBuffer allocates a black color buffer and a +Inf depth buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	n := w * h
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint32, n),
		Depth:  make([]float32, n),
	}
	fb.ClearDepth()
	return fb
}

// Clear starts a new frame: every pixel gets the packed background color
// and every depth goes back to +Inf.
func (fb *FrameBuffer) Clear(background Color) {
	packed := background.Pack()
	for i := range fb.Color {
		fb.Color[i] = packed
	}
	fb.ClearDepth()
}

// ClearDepth resets only the depth buffer.
func (fb *FrameBuffer) ClearDepth() {
	inf := math32.Inf(1)
	for i := range fb.Depth {
		fb.Depth[i] = inf
	}
}

// Contains reports whether (x, y) addresses a pixel of the buffer.
func (fb *FrameBuffer) Contains(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// Bounds is the pixel range of fb. It is empty for a zero-sized buffer.
func (fb *FrameBuffer) Bounds() Box {
	return Box{MaxX: fb.Width - 1, MaxY: fb.Height - 1}
}

// Composite applies the depth test for one fragment. The fragment is written
// only when it lies inside the buffer and is strictly nearer than what is
// stored; at equal depth the earlier fragment stays. It reports whether the
// buffers changed.
func (fb *FrameBuffer) Composite(f Fragment) bool {
	if !fb.Contains(f.X, f.Y) {
		return false
	}
	i := f.Y*fb.Width + f.X
	if !(f.Depth < fb.Depth[i]) {
		return false
	}
	fb.Depth[i] = f.Depth
	fb.Color[i] = f.Color.Pack()
	return true
}

// CompositeAll composites fragments in order and returns how many were
// written.
func (fb *FrameBuffer) CompositeAll(fragments []Fragment) int {
	written := 0
	for i := range fragments {
		if fb.Composite(fragments[i]) {
			written++
		}
	}
	return written
}

// Pixel returns the packed color at (x, y), or 0 outside the buffer.
func (fb *FrameBuffer) Pixel(x, y int) uint32 {
	if !fb.Contains(x, y) {
		return 0
	}
	return fb.Color[y*fb.Width+x]
}

// DepthAt returns the stored depth at (x, y), or +Inf outside the buffer.
func (fb *FrameBuffer) DepthAt(x, y int) float32 {
	if !fb.Contains(x, y) {
		return math32.Inf(1)
	}
	return fb.Depth[y*fb.Width+x]
}

// Image converts the packed color buffer to an opaque NRGBA image for the
// encoders.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	fb.CopyRGBA(img.Pix)
	return img
}

// CopyRGBA writes the color buffer as interleaved RGBA bytes into dst, which
// must hold at least W*H*4 bytes.
func (fb *FrameBuffer) CopyRGBA(dst []byte) {
	for i, p := range fb.Color {
		r, g, b := Unpack(p)
		o := i * 4
		dst[o] = r
		dst[o+1] = g
		dst[o+2] = b
		dst[o+3] = 255
	}
}
