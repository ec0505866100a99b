package ocr

import (
	"image"
	"image/color"
	"testing"
)

func TestOtsuBinarizeSeparatesInkFromPaper(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			// left half faded ink, right half paper
			v := uint8(200)
			if x < 5 {
				v = 90
			}
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}

	bin := otsuBinarize(img)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			got := bin.NRGBAAt(x, y)
			if got.R != got.G || got.G != got.B || (got.R != 0 && got.R != 255) {
				t.Fatalf("pixel (%d,%d) not binary: %+v", x, y, got)
			}
			if x < 5 && got.R != 0 {
				t.Fatalf("ink pixel (%d,%d) not black", x, y)
			}
			if x >= 5 && got.R != 255 {
				t.Fatalf("paper pixel (%d,%d) not white", x, y)
			}
		}
	}
}

func TestOtsuBinarizeUniformImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	bin := otsuBinarize(img)
	first := bin.NRGBAAt(0, 0)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if bin.NRGBAAt(x, y) != first {
				t.Fatalf("uniform input split at (%d,%d)", x, y)
			}
		}
	}
}
