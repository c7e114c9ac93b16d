package raster

import "flatraster/internal/mathutil"

// TransformVertex runs the model matrix over v's position and applies the
// perspective divide. w == 0 is not guarded: the transformed position becomes
// non-finite and the rasterizer discards the triangle.
//
// The normal is passed through untouched.
func TransformVertex(v Vertex, u Uniforms) Vertex {
	clip := u.Model.MulVec4(v.Position.Point())
	w := clip[3]
	ndc := mathutil.Vec3{clip[0] / w, clip[1] / w, clip[2] / w}
	return v.WithTransformed(ndc, v.Normal)
}

// TransformVertices maps TransformVertex over vertices in order into a new
// slice.
func TransformVertices(vertices []Vertex, u Uniforms) []Vertex {
	out := make([]Vertex, len(vertices))
	for i := range vertices {
		out[i] = TransformVertex(vertices[i], u)
	}
	return out
}
