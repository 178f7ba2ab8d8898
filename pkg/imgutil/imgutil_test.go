package imgutil

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    HSV
	}{
		{"black", 0, 0, 0, HSV{0, 0, 0}},
		{"white", 255, 255, 255, HSV{0, 0, 255}},
		{"red", 255, 0, 0, HSV{0, 255, 255}},
		{"green", 0, 255, 0, HSV{60, 255, 255}},
		{"blue", 0, 0, 255, HSV{120, 255, 255}},
		{"map blue", 40, 160, 240, HSV{102, 213, 240}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHSV(tt.r, tt.g, tt.b))
		})
	}
}

func TestHSVRangeContains(t *testing.T) {
	blue := HSVRange{Lower: HSV{85, 100, 200}, Upper: HSV{130, 255, 255}}
	assert.True(t, blue.Contains(ToHSV(0, 0, 255)))
	assert.False(t, blue.Contains(ToHSV(255, 255, 255)))
	assert.False(t, blue.Contains(ToHSV(0, 0, 120)))
}

func TestOtsuThresholdSplitsBimodal(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range img.Pix {
		if i < 50 {
			img.Pix[i] = 20
		} else {
			img.Pix[i] = 220
		}
	}
	th := OtsuThreshold(img)
	assert.GreaterOrEqual(t, th, uint8(20))
	assert.Less(t, th, uint8(220))
}

func TestOtsuThresholdEmpty(t *testing.T) {
	assert.Equal(t, uint8(128), OtsuThreshold(image.NewGray(image.Rect(0, 0, 0, 0))))
}

func TestBinarizeInverted(t *testing.T) {
	img := solid(4, 2, color.RGBA{0, 0, 0, 255})
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	bin, _ := BinarizeInverted(img)
	assert.Equal(t, uint8(0), bin.GrayAt(0, 0).Y, "bright pixels become black")
	assert.Equal(t, uint8(255), bin.GrayAt(3, 1).Y, "dark pixels become white")
}

func TestCropClampsToBounds(t *testing.T) {
	src := solid(10, 10, color.RGBA{1, 2, 3, 255})
	src.SetRGBA(9, 9, color.RGBA{9, 9, 9, 255})

	out := Crop(src, image.Rect(5, 5, 20, 20))
	require.NotNil(t, out)
	assert.Equal(t, image.Rect(0, 0, 5, 5), out.Bounds())
	assert.Equal(t, color.RGBA{9, 9, 9, 255}, out.RGBAAt(4, 4))

	assert.Nil(t, Crop(src, image.Rect(20, 20, 30, 30)))
}

func TestEnsureRGBANormalisesOrigin(t *testing.T) {
	src := solid(10, 10, color.RGBA{1, 2, 3, 255})
	sub := src.SubImage(image.Rect(2, 2, 6, 6))
	out := EnsureRGBA(sub)
	assert.Equal(t, image.Rect(0, 0, 4, 4), out.Bounds())
	assert.Same(t, src, EnsureRGBA(src))
}

func TestResizeAndRotateKeepCanvas(t *testing.T) {
	src := solid(8, 4, color.RGBA{200, 10, 10, 255})

	resized := Resize(src, 16, 8)
	assert.Equal(t, image.Rect(0, 0, 16, 8), resized.Bounds())
	assert.Equal(t, uint8(200), resized.RGBAAt(8, 4).R)

	rotated := Rotate(src, 90)
	assert.Equal(t, src.Bounds(), rotated.Bounds())
	assert.Equal(t, uint8(0), rotated.RGBAAt(0, 0).R, "corners outside the rotated source stay black")
	assert.Equal(t, uint8(200), rotated.RGBAAt(4, 2).R)
}

func TestCenter(t *testing.T) {
	assert.Equal(t, image.Pt(132, 132), Center(image.Rect(100, 100, 164, 164)))
	assert.Equal(t, image.Pt(2, 1), Center(image.Rect(0, 0, 5, 3)))
}
