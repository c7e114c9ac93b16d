package raster

// Fragment is one candidate pixel produced by rasterizing a triangle, before
// the depth test decides whether it lands in the framebuffer.
type Fragment struct {
	X, Y  int
	Color Color
	Depth float32
}
