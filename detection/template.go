package detection

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/AtlasScout/AtlasScout/agent/go-service/pkg/imgutil"
)

// Variant is one resized and rotated rendition of a template.
type Variant struct {
	Scale   float64
	Angle   float64
	Image   *image.RGBA
	pattern *Pattern
}

// Size returns the footprint of the variant in frame pixels.
func (v *Variant) Size() image.Point {
	return v.Image.Bounds().Size()
}

// Template is a reference image with its pre-generated variants.
type Template struct {
	Name     string
	Variants []*Variant
}

// NewTemplate generates one variant per (scale, rotation) pair. Pairs whose
// resized width or height truncates to zero are skipped.
func NewTemplate(name string, img image.Image, scales, rotations []float64) *Template {
	src := imgutil.EnsureRGBA(img)
	b := src.Bounds()
	t := &Template{Name: name}

	for _, scale := range scales {
		w := int(float64(b.Dx()) * scale)
		h := int(float64(b.Dy()) * scale)
		if w <= 0 || h <= 0 {
			logger().Debug().
				Str("template", name).
				Float64("scale", scale).
				Msg("skipping degenerate template size")
			continue
		}
		resized := imgutil.Resize(src, w, h)
		for _, angle := range rotations {
			out := resized
			if angle != 0 {
				out = imgutil.Rotate(resized, angle)
			}
			t.Variants = append(t.Variants, &Variant{
				Scale:   scale,
				Angle:   angle,
				Image:   out,
				pattern: NewPattern(out),
			})
		}
	}
	return t
}

// LoadTemplate decodes the image at path and builds its variants.
func LoadTemplate(path string, scales, rotations []float64) (*Template, error) {
	img, err := imgutil.Load(path)
	if err != nil {
		return nil, err
	}
	return NewTemplate(path, img, scales, rotations), nil
}

// LoadTemplates loads every file matching the glob pattern. Files that fail to
// decode are logged and skipped; a pattern that matches nothing returns an
// empty slice.
func LoadTemplates(pattern string, scales, rotations []float64) ([]*Template, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad template pattern %q: %w", pattern, err)
	}

	templates := make([]*Template, 0, len(files))
	for _, file := range files {
		t, err := LoadTemplate(file, scales, rotations)
		if err != nil {
			logger().Error().Err(err).Str("path", file).Msg("failed to load template")
			continue
		}
		templates = append(templates, t)
	}

	logger().Info().
		Str("pattern", pattern).
		Int("count", len(templates)).
		Msg("templates loaded")
	return templates, nil
}
