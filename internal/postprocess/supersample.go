package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample scales a supersampled render down to w×h with CatmullRom
// filtering. Frames from the rasterizer are fully opaque, so no alpha
// premultiplication is needed. Images already at or below the target size
// are returned unchanged.
func Downsample(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= w && b.Dy() <= h {
		return img
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
