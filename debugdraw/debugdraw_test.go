package debugdraw

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtlasScout/AtlasScout/agent/go-service/activity"
	"github.com/AtlasScout/AtlasScout/agent/go-service/detection"
	"github.com/AtlasScout/AtlasScout/agent/go-service/scanner"
)

func report() scanner.Report {
	frame := image.NewRGBA(image.Rect(0, 0, 120, 80))
	return scanner.Report{
		Mode:  scanner.ModeScreen,
		Frame: &scanner.Frame{Image: frame, Window: image.Rect(10, 10, 130, 90)},
		Candidates: []detection.Candidate{
			{Rect: image.Rect(5, 5, 15, 15)},
			{Rect: image.Rect(60, 40, 80, 60)},
		},
		Observations: []scanner.Observation{{
			Rect:       image.Rect(60, 40, 80, 60),
			MapName:    "Savannah",
			Color:      "#00ff00",
			Activities: []activity.Activity{activity.Parse("boss")},
		}},
	}
}

func TestRender(t *testing.T) {
	r := report()
	img := Render(r)
	require.NotNil(t, img)

	assert.Equal(t, candidateColor, img.RGBAAt(5, 5))
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, img.RGBAAt(60, 50))
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, img.RGBAAt(61, 50), "observations use a two pixel stroke")
	assert.Equal(t, color.RGBA{}, img.RGBAAt(70, 50), "inside is untouched")
	assert.Equal(t, color.RGBA{}, r.Frame.Image.RGBAAt(5, 5), "source frame is not modified")
}

func TestRenderWithoutFrame(t *testing.T) {
	assert.Nil(t, Render(scanner.Report{}))
}

func TestParseHexColor(t *testing.T) {
	assert.Equal(t, color.RGBA{0x12, 0x34, 0x56, 255}, parseHexColor("#123456"))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, parseHexColor("ffffff"))
	assert.Equal(t, fallbackColor, parseHexColor("#fff"))
	assert.Equal(t, fallbackColor, parseHexColor("zzzzzz"))
}

func TestDump(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dumps")
	d := NewDumper(dir)
	d.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	path, err := d.Dump(report())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "screen-20260102-030405.000.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 120, 80), img.Bounds())

	path, err = d.Dump(scanner.Report{Mode: scanner.ModeHovered})
	require.NoError(t, err)
	assert.Empty(t, path)
}
