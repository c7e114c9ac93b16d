package raster

import "flatraster/internal/mathutil"

// Uniforms is the per-draw transform state. It is read-only for the
// duration of a render call.
type Uniforms struct {
	Model mathutil.Mat4
}

// NewUniforms builds a model matrix that scales uniformly by scale and then
// translates by translation.
func NewUniforms(scale float32, translation mathutil.Vec3) Uniforms {
	return Uniforms{Model: mathutil.Mat4ScaleTranslate(scale, scale, scale, translation)}
}

// IdentityUniforms leaves vertices where they are.
func IdentityUniforms() Uniforms {
	return Uniforms{Model: mathutil.Mat4Identity()}
}
