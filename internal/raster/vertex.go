package raster

import "flatraster/internal/mathutil"

// Vertex carries object-space attributes plus the transformed position and
// normal filled in by TransformVertex.
type Vertex struct {
	Position  mathutil.Vec3
	Normal    mathutil.Vec3
	TexCoords mathutil.Vec2 // carried through, never sampled
	Color     Color

	TransformedPosition mathutil.Vec3
	TransformedNormal   mathutil.Vec3
}

// NewVertex builds a vertex from loader output. The transformed fields start
// out equal to the untransformed ones.
func NewVertex(position, normal mathutil.Vec3, texCoords mathutil.Vec2) Vertex {
	return Vertex{
		Position:            position,
		Normal:              normal,
		TexCoords:           texCoords,
		Color:               Black(),
		TransformedPosition: position,
		TransformedNormal:   normal,
	}
}

// NewColoredVertex builds a vertex with only a position and color; every
// other field, including the transformed ones, is zero.
func NewColoredVertex(position mathutil.Vec3, color Color) Vertex {
	return Vertex{
		Position: position,
		Color:    color,
	}
}

// DefaultVertex is a vertex at the origin with a +Y normal.
func DefaultVertex() Vertex {
	up := mathutil.Vec3{0, 1, 0}
	return Vertex{
		Normal:            up,
		TransformedNormal: up,
	}
}

// WithTransformed returns a copy of v with its transformed position and
// normal replaced. v itself is not modified.
func (v Vertex) WithTransformed(position, normal mathutil.Vec3) Vertex {
	return Vertex{
		Position:            v.Position,
		Normal:              v.Normal,
		TexCoords:           v.TexCoords,
		Color:               v.Color,
		TransformedPosition: position,
		TransformedNormal:   normal,
	}
}
