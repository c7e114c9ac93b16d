package raster

import (
	"testing"

	"github.com/chewxy/math32"

	"flatraster/internal/mathutil"
)

func TestNewFrameBuffer(t *testing.T) {
	fb := NewFrameBuffer(4, 3)
	if len(fb.Color) != 12 || len(fb.Depth) != 12 {
		t.Fatalf("buffer sizes = %d/%d, want 12/12", len(fb.Color), len(fb.Depth))
	}
	for i, d := range fb.Depth {
		if !math32.IsInf(d, 1) {
			t.Fatalf("depth[%d] = %v, want +Inf", i, d)
		}
	}
}

func TestFrameBufferClear(t *testing.T) {
	fb := NewFrameBuffer(3, 3)
	fb.Composite(Fragment{X: 1, Y: 1, Color: Red(), Depth: 0.5})

	fb.Clear(Color{0, 0, 1})
	for i := range fb.Color {
		if fb.Color[i] != 0x0000FF {
			t.Fatalf("color[%d] = %#06x, want 0x0000ff", i, fb.Color[i])
		}
		if !math32.IsInf(fb.Depth[i], 1) {
			t.Fatalf("depth[%d] = %v, want +Inf", i, fb.Depth[i])
		}
	}
}

func TestCompositeDepthRule(t *testing.T) {
	near := Color{1, 0, 0}
	far := Color{0, 1, 0}
	tests := []struct {
		name      string
		first     Fragment
		second    Fragment
		wantColor uint32
		wantDepth float32
		wantWrite bool
	}{
		{
			name:      "nearer overwrites",
			first:     Fragment{X: 1, Y: 1, Color: far, Depth: 0.8},
			second:    Fragment{X: 1, Y: 1, Color: near, Depth: 0.2},
			wantColor: 0xFF0000, wantDepth: 0.2, wantWrite: true,
		},
		{
			name:      "farther ignored",
			first:     Fragment{X: 1, Y: 1, Color: near, Depth: 0.2},
			second:    Fragment{X: 1, Y: 1, Color: far, Depth: 0.8},
			wantColor: 0xFF0000, wantDepth: 0.2, wantWrite: false,
		},
		{
			name:      "tie keeps first writer",
			first:     Fragment{X: 1, Y: 1, Color: near, Depth: 0.5},
			second:    Fragment{X: 1, Y: 1, Color: far, Depth: 0.5},
			wantColor: 0xFF0000, wantDepth: 0.5, wantWrite: false,
		},
		{
			name:      "nan depth never wins",
			first:     Fragment{X: 1, Y: 1, Color: near, Depth: 0.5},
			second:    Fragment{X: 1, Y: 1, Color: far, Depth: math32.NaN()},
			wantColor: 0xFF0000, wantDepth: 0.5, wantWrite: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFrameBuffer(3, 3)
			if !fb.Composite(tt.first) {
				t.Fatal("first fragment into an empty buffer was not written")
			}
			if got := fb.Composite(tt.second); got != tt.wantWrite {
				t.Errorf("second Composite = %v, want %v", got, tt.wantWrite)
			}
			if got := fb.Pixel(1, 1); got != tt.wantColor {
				t.Errorf("color = %#06x, want %#06x", got, tt.wantColor)
			}
			if got := fb.DepthAt(1, 1); got != tt.wantDepth {
				t.Errorf("depth = %v, want %v", got, tt.wantDepth)
			}
		})
	}
}

func TestCompositeOutOfBounds(t *testing.T) {
	fb := NewFrameBuffer(4, 2)
	fb.Clear(Black())
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 2}, {100, 100}, {-5, 1}} {
		if fb.Composite(Fragment{X: p[0], Y: p[1], Color: Red(), Depth: 0}) {
			t.Errorf("fragment at %v reported as written", p)
		}
	}
	for i := range fb.Color {
		if fb.Color[i] != 0 || !math32.IsInf(fb.Depth[i], 1) {
			t.Fatalf("pixel %d changed by an out-of-bounds fragment", i)
		}
	}
}

func TestCompositeTriangleOcclusion(t *testing.T) {
	tri := func(z float32, normal mathutil.Vec3) []Fragment {
		return RasterizeTriangle(
			screenVertex(1, 1, z, normal),
			screenVertex(7, 1, z, normal),
			screenVertex(1, 7, z, normal),
		)
	}
	tilted := mathutil.Vec3{0, -1, -1}

	fb := NewFrameBuffer(8, 8)
	fb.Clear(Black())
	fb.CompositeAll(tri(0.5, facingLight))
	before := append([]uint32(nil), fb.Color...)

	if n := fb.CompositeAll(tri(0.8, tilted)); n != 0 {
		t.Errorf("triangle behind wrote %d pixels, want 0", n)
	}
	for i := range before {
		if fb.Color[i] != before[i] {
			t.Fatalf("pixel %d changed by a triangle behind", i)
		}
	}

	front := tri(0.2, tilted)
	if n := fb.CompositeAll(front); n != len(front) {
		t.Errorf("triangle in front wrote %d pixels, want %d", n, len(front))
	}
	want := FlatShade(tilted).Pack()
	for _, f := range front {
		if got := fb.Pixel(f.X, f.Y); got != want {
			t.Fatalf("pixel %d,%d = %#06x, want %#06x", f.X, f.Y, got, want)
		}
	}
}

func TestFrameBufferImage(t *testing.T) {
	fb := NewFrameBuffer(2, 2)
	fb.Clear(Black())
	fb.Composite(Fragment{X: 1, Y: 0, Color: Color{1, 0.5, 0}, Depth: 0})

	img := fb.Image()
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("image bounds = %v", img.Bounds())
	}
	c := img.NRGBAAt(1, 0)
	if c.R != 255 || c.G != 127 || c.B != 0 || c.A != 255 {
		t.Errorf("pixel (1,0) = %+v, want {255 127 0 255}", c)
	}
	if c := img.NRGBAAt(0, 1); c.R != 0 || c.A != 255 {
		t.Errorf("pixel (0,1) = %+v, want opaque black", c)
	}
}
