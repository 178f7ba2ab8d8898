package ocr

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/AtlasScout/AtlasScout/agent/go-service/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entries = []catalog.MapEntry{
	{Name: "Crimson Temple", Biomes: []string{"Desert"}, Layout: "Linear", Notes: "Good for breach"},
	{Name: "Temple", Layout: "Open"},
	{Name: "Savannah", Biomes: []string{"Grass"}, Layout: "Open"},
}

func TestMatchCatalog(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"tooltip with extra lines", "Crimson Temple\nLayout: Linear", "Crimson Temple", true},
		{"case and padding", "  cRIMSON temple  \n", "Crimson Temple", true},
		{"padded inner line", "Tier 15\n   savannah \nrest", "Savannah", true},
		{"catalog order wins", "Temple\nCrimson Temple", "Crimson Temple", true},
		{"substring is not a match", "Crimson Temple Ruins", "", false},
		{"empty", "", "", false},
		{"whitespace only", " \n\t ", "", false},
		{"unknown", "Nowhere", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchCatalog(tt.text, entries)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestMatchCatalogReturnsFullEntry(t *testing.T) {
	got, ok := MatchCatalog("Crimson Temple", entries)
	require.True(t, ok)
	assert.Equal(t, entries[0], got)
}

func region() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			c := color.RGBA{10, 10, 10, 255}
			if x >= 10 {
				c = color.RGBA{240, 240, 240, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestExtractAndValidate(t *testing.T) {
	var seen image.Image
	r := NewRecognizer(EngineFunc(func(img image.Image) (string, error) {
		seen = img
		return "Crimson Temple\nLayout: Linear", nil
	}))

	got, ok := r.ExtractAndValidate(region(), entries)
	require.True(t, ok)
	assert.Equal(t, "Crimson Temple", got.Name)

	bin, isGray := seen.(*image.Gray)
	require.True(t, isGray)
	assert.Equal(t, uint8(255), bin.GrayAt(0, 0).Y, "dark pixels become white")
	assert.Equal(t, uint8(0), bin.GrayAt(15, 0).Y, "bright pixels become black")
}

func TestExtractAndValidateEngineError(t *testing.T) {
	r := NewRecognizer(EngineFunc(func(image.Image) (string, error) {
		return "Crimson Temple", errors.New("engine down")
	}))
	_, ok := r.ExtractAndValidate(region(), entries)
	assert.False(t, ok)
}

func TestExtractAndValidateNoInput(t *testing.T) {
	called := false
	r := NewRecognizer(EngineFunc(func(image.Image) (string, error) {
		called = true
		return "Savannah", nil
	}))
	_, ok := r.ExtractAndValidate(image.NewRGBA(image.Rectangle{}), entries)
	assert.False(t, ok)
	assert.False(t, called)

	var nilRecognizer *Recognizer
	_, ok = nilRecognizer.ExtractAndValidate(region(), entries)
	assert.False(t, ok)
}
