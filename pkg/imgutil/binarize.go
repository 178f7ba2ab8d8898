package imgutil

import (
	"image"
	"image/color"
)

// ToGray converts img to grayscale using Y = 0.299*R + 0.587*G + 0.114*B.
func ToGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	grayImg := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			lum := uint8(0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8) + 0.5)
			grayImg.SetGray(x-bounds.Min.X, y-bounds.Min.Y, color.Gray{Y: lum})
		}
	}
	return grayImg
}

// OtsuThreshold picks the threshold that maximises the between-class variance
// of the gray histogram. An empty image yields 128.
func OtsuThreshold(img *image.Gray) uint8 {
	bounds := img.Bounds()

	var histogram [256]int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			histogram[img.GrayAt(x, y).Y]++
		}
	}

	totalPixels := bounds.Dx() * bounds.Dy()
	if totalPixels == 0 {
		return 128
	}

	var totalSum float64
	for i := 0; i < 256; i++ {
		totalSum += float64(i) * float64(histogram[i])
	}

	var sumBackground float64
	var weightBackground, weightForeground int
	var maxVariance float64
	var bestThreshold uint8

	for t := 0; t < 256; t++ {
		weightBackground += histogram[t]
		if weightBackground == 0 {
			continue
		}

		weightForeground = totalPixels - weightBackground
		if weightForeground == 0 {
			break
		}

		sumBackground += float64(t) * float64(histogram[t])

		meanBackground := sumBackground / float64(weightBackground)
		meanForeground := (totalSum - sumBackground) / float64(weightForeground)

		variance := float64(weightBackground) * float64(weightForeground) *
			(meanBackground - meanForeground) * (meanBackground - meanForeground)

		if variance > maxVariance {
			maxVariance = variance
			bestThreshold = uint8(t)
		}
	}

	return bestThreshold
}

// BinarizeInverted thresholds img with Otsu and inverts the result:
// pixels above the threshold become 0, the rest 255.
// It returns the binary image and the chosen threshold.
func BinarizeInverted(img image.Image) (*image.Gray, uint8) {
	gray := ToGray(img)
	threshold := OtsuThreshold(gray)

	out := image.NewGray(gray.Bounds())
	for i, v := range gray.Pix {
		if v > threshold {
			out.Pix[i] = 0
		} else {
			out.Pix[i] = 255
		}
	}
	return out, threshold
}
