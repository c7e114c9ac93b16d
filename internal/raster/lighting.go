package raster

import (
	"github.com/chewxy/math32"

	"flatraster/internal/mathutil"
)

// The pipeline has exactly one directional light and one material.
var (
	// LightDir points down -Z, toward the far plane.
	LightDir = mathutil.Vec3{0, 0, -1}

	// BaseColor is the mid-gray material every triangle is shaded with.
	BaseColor = Color{R: 100.0 / 255.0, G: 100.0 / 255.0, B: 100.0 / 255.0}
)

// Intensity returns the Lambert term for a face normal, clamped at zero so
// faces turned away from the light go black rather than negative.
func Intensity(normal mathutil.Vec3) float32 {
	return math32.Max(0, normal.Normalize().Dot(LightDir))
}

// FlatShade returns the lit color for a whole triangle given its
// representative normal.
func FlatShade(normal mathutil.Vec3) Color {
	return BaseColor.Scale(Intensity(normal))
}
