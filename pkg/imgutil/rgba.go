// Package imgutil holds the pixel helpers shared by the recognition stages.
package imgutil

import (
	"image"

	"golang.org/x/image/draw"
)

// EnsureRGBA converts img to an *image.RGBA whose bounds start at (0, 0).
// An RGBA that already starts at the origin is returned as is.
func EnsureRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Crop copies r out of src into a new origin-based RGBA.
// r is clamped to the source bounds first; an empty intersection yields nil.
func Crop(src *image.RGBA, r image.Rectangle) *image.RGBA {
	r = r.Intersect(src.Bounds())
	if r.Empty() {
		return nil
	}
	w, h := r.Dx(), r.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	base := src.PixOffset(r.Min.X, r.Min.Y)
	for y := 0; y < h; y++ {
		srcRow := base + y*src.Stride
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w*4], src.Pix[srcRow:srcRow+w*4])
	}
	return dst
}

// Center returns the integer centre of r, rounding down like the legacy x + w // 2.
func Center(r image.Rectangle) image.Point {
	return image.Pt(r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2)
}
