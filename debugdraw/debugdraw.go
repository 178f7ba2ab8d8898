// Package debugdraw renders scan reports as annotated PNG files.
package debugdraw

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/AtlasScout/AtlasScout/agent/go-service/scanner"
)

var (
	candidateColor = color.RGBA{255, 215, 0, 255}
	fallbackColor  = color.RGBA{255, 0, 0, 255}
	labelShadow    = color.RGBA{0, 0, 0, 255}
)

// Render copies the report frame and outlines every candidate. Accepted
// observations are outlined in their layout colour and labelled with the map
// name and activities.
func Render(r scanner.Report) *image.RGBA {
	if r.Frame == nil || r.Frame.Image == nil {
		return nil
	}
	src := r.Frame.Image
	img := image.NewRGBA(src.Bounds())
	draw.Copy(img, image.Point{}, src, src.Bounds(), draw.Src, nil)

	for _, c := range r.Candidates {
		strokeRect(img, c.Rect, candidateColor, 1)
	}
	for _, o := range r.Observations {
		c := parseHexColor(o.Color)
		strokeRect(img, o.Rect, c, 2)
		label := o.MapName
		for _, a := range o.Activities {
			label += " | " + a.Name
		}
		drawText(img, o.Rect.Min.X, o.Rect.Min.Y-4, label, c)
	}
	return img
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.RGBA, width int) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for w := 0; w < width; w++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, r.Min.Y+w, c)
			img.SetRGBA(x, r.Max.Y-1-w, c)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			img.SetRGBA(r.Min.X+w, y, c)
			img.SetRGBA(r.Max.X-1-w, y, c)
		}
	}
}

// drawText renders text with its baseline at (x, y), over a one pixel shadow.
func drawText(img *image.RGBA, x, y int, text string, c color.RGBA) {
	if y < basicfont.Face7x13.Ascent {
		y = basicfont.Face7x13.Ascent
	}
	for _, layer := range []struct {
		dx int
		c  color.RGBA
	}{{1, labelShadow}, {0, c}} {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(layer.c),
			Face: basicfont.Face7x13,
			Dot:  fixed.Point26_6{X: fixed.I(x + layer.dx), Y: fixed.I(y + layer.dx)},
		}
		d.DrawString(text)
	}
}

func parseHexColor(hex string) color.RGBA {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return fallbackColor
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return fallbackColor
	}
	return color.RGBA{r, g, b, 255}
}

// Dumper writes one PNG per report into Dir.
type Dumper struct {
	Dir string
	now func() time.Time
}

func NewDumper(dir string) *Dumper {
	return &Dumper{Dir: dir, now: time.Now}
}

// Dump renders r and returns the written path. Reports without a frame are
// skipped with an empty path.
func (d *Dumper) Dump(r scanner.Report) (string, error) {
	img := Render(r)
	if img == nil {
		return "", nil
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create dump dir: %w", err)
	}

	name := fmt.Sprintf("%s-%s.png", r.Mode, d.now().Format("20060102-150405.000"))
	path := filepath.Join(d.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("observations", len(r.Observations)).Msg("scan dump written")
	return path, nil
}

// Inspect adapts Dump to scanner.Deps.Inspect, logging failures.
func (d *Dumper) Inspect(r scanner.Report) {
	if _, err := d.Dump(r); err != nil {
		log.Warn().Err(err).Msg("failed to write scan dump")
	}
}
