package mesh

import (
	"flatraster/internal/mathutil"
	"flatraster/internal/raster"
)

// Mesh is a flat, fully expanded vertex list: every three consecutive
// vertices form one triangle. Indexing has already been resolved.
type Mesh struct {
	Name     string
	Vertices []raster.Vertex
}

// Options control load-time fixups.
type Options struct {
	// FlipZ negates z of every position and normal, so a model authored with
	// +Z toward the viewer faces the pipeline's -Z light and gets smaller
	// depth for nearer points.
	FlipZ bool
}

// Triangles returns the number of complete triangles.
func (m *Mesh) Triangles() int {
	return len(m.Vertices) / 3
}

// Bounds returns the axis-aligned bounds of the object-space positions.
// ok is false for an empty mesh.
func (m *Mesh) Bounds() (lo, hi mathutil.Vec3, ok bool) {
	if len(m.Vertices) == 0 {
		return lo, hi, false
	}
	lo = m.Vertices[0].Position
	hi = lo
	for _, v := range m.Vertices[1:] {
		for k := 0; k < 3; k++ {
			if v.Position[k] < lo[k] {
				lo[k] = v.Position[k]
			}
			if v.Position[k] > hi[k] {
				hi[k] = v.Position[k]
			}
		}
	}
	return lo, hi, true
}

// Fit returns uniforms that centre the mesh in a w×h framebuffer, with its
// larger X/Y extent covering fill of the smaller screen side. Y is mirrored
// so model +Y points up on screen.
func (m *Mesh) Fit(w, h int, fill float32) raster.Uniforms {
	lo, hi, ok := m.Bounds()
	if !ok {
		return raster.IdentityUniforms()
	}

	center := lo.Add(hi).Scale(0.5)
	span := hi[0] - lo[0]
	if spanY := hi[1] - lo[1]; spanY > span {
		span = spanY
	}
	if span < 0.001 {
		span = 0.001
	}

	side := w
	if h < side {
		side = h
	}
	s := fill * float32(side) / span

	t := mathutil.Vec3{
		float32(w)/2 - s*center[0],
		float32(h)/2 + s*center[1],
		-s * center[2],
	}
	return raster.Uniforms{Model: mathutil.Mat4ScaleTranslate(s, -s, s, t)}
}

func (o Options) apply(m *Mesh) {
	if !o.FlipZ {
		return
	}
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position[2] = -v.Position[2]
		v.Normal[2] = -v.Normal[2]
		v.TransformedPosition[2] = -v.TransformedPosition[2]
		v.TransformedNormal[2] = -v.TransformedNormal[2]
	}
}
