package raster

import (
	"github.com/chewxy/math32"

	"flatraster/internal/mathutil"
)

// degenerateEpsilon is the smallest barycentric denominator (squared
// parallelogram area) that still counts as a triangle.
const degenerateEpsilon = 1e-12

// coordLimit bounds screen coordinates before they are converted to int, so
// huge finite values still give a well-defined box.
const coordLimit = 1 << 30

// unclipped is the clip box RasterizeTriangle scans with.
var unclipped = Box{MinX: -coordLimit, MinY: -coordLimit, MaxX: coordLimit, MaxY: coordLimit}

// Box is an inclusive integer pixel range.
type Box struct {
	MinX, MinY int
	MaxX, MaxY int
}

// Empty reports whether the box covers no pixels.
func (b Box) Empty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Intersect returns the pixels covered by both b and o.
func (b Box) Intersect(o Box) Box {
	return Box{
		MinX: max(b.MinX, o.MinX),
		MinY: max(b.MinY, o.MinY),
		MaxX: min(b.MaxX, o.MaxX),
		MaxY: min(b.MaxY, o.MaxY),
	}
}

func clampCoord(f float32) int {
	return int(math32.Max(-coordLimit, math32.Min(coordLimit, f)))
}

// BoundingBox returns floor(min) .. ceil(max) of the three screen-space
// positions, clamped to ±2^30. ok is false when any coordinate is NaN or infinite, since such a
// box cannot be scanned.
func BoundingBox(a, b, c mathutil.Vec3) (box Box, ok bool) {
	if !a.IsFinite() || !b.IsFinite() || !c.IsFinite() {
		return Box{}, false
	}
	return Box{
		MinX: clampCoord(math32.Floor(mathutil.Min3(a[0], b[0], c[0]))),
		MinY: clampCoord(math32.Floor(mathutil.Min3(a[1], b[1], c[1]))),
		MaxX: clampCoord(math32.Ceil(mathutil.Max3(a[0], b[0], c[0]))),
		MaxY: clampCoord(math32.Ceil(mathutil.Max3(a[1], b[1], c[1]))),
	}, true
}

// barycentric holds the per-triangle part of the 2×2 solve so the pixel loop
// only does the point-dependent half.
type barycentric struct {
	ax, ay   float32
	v0x, v0y float32
	v1x, v1y float32
	d00      float32
	d01      float32
	d11      float32
	invDenom float32
}

func newBarycentric(a, b, c mathutil.Vec3) (barycentric, bool) {
	bc := barycentric{
		ax: a[0], ay: a[1],
		v0x: b[0] - a[0], v0y: b[1] - a[1],
		v1x: c[0] - a[0], v1y: c[1] - a[1],
	}
	bc.d00 = bc.v0x*bc.v0x + bc.v0y*bc.v0y
	bc.d01 = bc.v0x*bc.v1x + bc.v0y*bc.v1y
	bc.d11 = bc.v1x*bc.v1x + bc.v1y*bc.v1y
	denom := bc.d00*bc.d11 - bc.d01*bc.d01
	if !(math32.Abs(denom) >= degenerateEpsilon) || math32.IsInf(denom, 0) {
		return barycentric{}, false
	}
	bc.invDenom = 1 / denom
	return bc, true
}

// weights returns the barycentric weights of (px, py) for vertices a, b, c.
func (bc *barycentric) weights(px, py float32) (u, v, w float32) {
	v2x, v2y := px-bc.ax, py-bc.ay
	d20 := v2x*bc.v0x + v2y*bc.v0y
	d21 := v2x*bc.v1x + v2y*bc.v1y
	v = (bc.d11*d20 - bc.d01*d21) * bc.invDenom
	w = (bc.d00*d21 - bc.d01*d20) * bc.invDenom
	u = 1 - v - w
	return u, v, w
}

// Barycentric returns the weights of p against triangle a, b, c in screen
// space (z ignored). ok is false for a degenerate triangle.
func Barycentric(p, a, b, c mathutil.Vec3) (u, v, w float32, ok bool) {
	bc, ok := newBarycentric(a, b, c)
	if !ok {
		return 0, 0, 0, false
	}
	u, v, w = bc.weights(p[0], p[1])
	return u, v, w, true
}

// RasterizeTriangle scans the screen-space bounding box of a transformed
// triangle and returns one Fragment per pixel center whose barycentric
// weights are all non-negative. Edges are inclusive, so a pixel on an edge
// shared by two triangles is emitted by both.
//
// Lighting is flat: v1's transformed normal stands in for the whole face.
// Degenerate or non-finite triangles yield no fragments.
func RasterizeTriangle(v1, v2, v3 Vertex) []Fragment {
	return appendTriangle(nil, unclipped, v1, v2, v3)
}

// appendTriangle is RasterizeTriangle appending into dst and scanning only
// the part of the bounding box inside clip. Callers rendering into a
// FrameBuffer pass its bounds so work is limited to the visible area.
func appendTriangle(dst []Fragment, clip Box, v1, v2, v3 Vertex) []Fragment {
	a, b, c := v1.TransformedPosition, v2.TransformedPosition, v3.TransformedPosition

	box, ok := BoundingBox(a, b, c)
	if !ok {
		return dst
	}
	box = box.Intersect(clip)
	if box.Empty() {
		return dst
	}
	bc, ok := newBarycentric(a, b, c)
	if !ok {
		return dst
	}

	lit := FlatShade(v1.TransformedNormal)
	az, bz, cz := a[2], b[2], c[2]

	for y := box.MinY; y <= box.MaxY; y++ {
		py := float32(y)
		for x := box.MinX; x <= box.MaxX; x++ {
			u, v, w := bc.weights(float32(x), py)
			if !(u >= 0 && v >= 0 && w >= 0) {
				continue
			}
			dst = append(dst, Fragment{
				X:     x,
				Y:     y,
				Color: lit,
				Depth: u*az + v*bz + w*cz,
			})
		}
	}
	return dst
}
