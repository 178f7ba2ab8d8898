package detection

import (
	"image"

	"github.com/AtlasScout/AtlasScout/agent/go-service/pkg/imgutil"
)

// Validator decides whether a match centre looks like a map icon.
type Validator interface {
	IsPlausible(frame *image.RGBA, center image.Point) bool
}

var (
	// MapBlue is the glow around undiscovered map nodes.
	MapBlue = imgutil.HSVRange{
		Lower: imgutil.HSV{H: 85, S: 100, V: 200},
		Upper: imgutil.HSV{H: 130, S: 255, V: 255},
	}
	// MapWhite is the bright core of map nodes.
	MapWhite = imgutil.HSVRange{
		Lower: imgutil.HSV{H: 0, S: 0, V: 200},
		Upper: imgutil.HSV{H: 180, S: 30, V: 255},
	}
)

// RegionValidator counts pixels of a small neighbourhood that fall inside any
// of Bands and accepts the point when their share exceeds MinFraction.
//
// The share is computed against the nominal (2*HalfWidth)^2 window, even when
// the window is clipped by the frame edge. Set ClampedArea to divide by the
// clipped pixel count instead.
type RegionValidator struct {
	HalfWidth   int
	MinFraction float64
	ClampedArea bool
	Bands       []imgutil.HSVRange
}

// DefaultRegionValidator returns the 16x16, 8% blue-or-white validator.
func DefaultRegionValidator() *RegionValidator {
	return &RegionValidator{
		HalfWidth:   8,
		MinFraction: 0.08,
		Bands:       []imgutil.HSVRange{MapBlue, MapWhite},
	}
}

// IsPlausible implements Validator.
func (v *RegionValidator) IsPlausible(frame *image.RGBA, center image.Point) bool {
	r := image.Rect(
		center.X-v.HalfWidth, center.Y-v.HalfWidth,
		center.X+v.HalfWidth, center.Y+v.HalfWidth,
	).Intersect(frame.Bounds())
	if r.Empty() {
		return false
	}

	matching := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			off := frame.PixOffset(x, y)
			c := imgutil.ToHSV(frame.Pix[off], frame.Pix[off+1], frame.Pix[off+2])
			for _, band := range v.Bands {
				if band.Contains(c) {
					matching++
					break
				}
			}
		}
	}

	total := 4 * v.HalfWidth * v.HalfWidth
	if v.ClampedArea {
		total = r.Dx() * r.Dy()
	}
	return float64(matching) > float64(total)*v.MinFraction
}
