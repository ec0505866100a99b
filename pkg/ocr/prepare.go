package ocr

import (
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"
)

// prepareImage writes a cleaned variant of a receipt photo to a temp file
// and returns its path with a cleanup func. The pipeline is grayscale,
// contrast stretch, mild sharpen, upscale of small captures, then an Otsu
// threshold to split print from paper.
func prepareImage(path string) (string, func(), error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", nil, err
	}

	gray := imaging.Grayscale(img)
	gray = imaging.AdjustContrast(gray, 15)
	gray = imaging.Sharpen(gray, 0.7)
	if gray.Bounds().Dy() < 1000 {
		gray = imaging.Resize(gray, 0, 1400, imaging.Lanczos)
	}
	bin := otsuBinarize(gray)

	tmp, err := os.CreateTemp("", "receiptscan-*.png")
	if err != nil {
		return "", nil, err
	}
	name := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return "", nil, err
	}
	if err := imaging.Save(bin, name); err != nil {
		_ = os.Remove(name)
		return "", nil, err
	}
	return name, func() { _ = os.Remove(name) }, nil
}

// otsuBinarize thresholds a grayscale image at the level that maximizes
// the between-class variance of the two pixel populations. A fixed
// threshold misses faded thermal prints; Otsu adapts per image.
func otsuBinarize(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	var hist [256]int
	total := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[grayLevel(img.NRGBAAt(x, y))]++
			total++
		}
	}
	if total == 0 {
		return img
	}

	sum := 0.0
	for v, count := range hist {
		sum += float64(v) * float64(count)
	}
	threshold := 127
	sumBelow, weightBelow, bestVariance := 0.0, 0, -1.0
	for t := 0; t < 256; t++ {
		weightBelow += hist[t]
		if weightBelow == 0 {
			continue
		}
		weightAbove := total - weightBelow
		if weightAbove == 0 {
			break
		}
		sumBelow += float64(t) * float64(hist[t])
		meanBelow := sumBelow / float64(weightBelow)
		meanAbove := (sum - sumBelow) / float64(weightAbove)
		variance := float64(weightBelow) * float64(weightAbove) * (meanBelow - meanAbove) * (meanBelow - meanAbove)
		if variance > bestVariance {
			bestVariance, threshold = variance, t
		}
	}

	out := image.NewNRGBA(b)
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.NRGBA{A: 255}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if grayLevel(img.NRGBAAt(x, y)) <= threshold {
				out.SetNRGBA(x, y, black)
			} else {
				out.SetNRGBA(x, y, white)
			}
		}
	}
	return out
}

func grayLevel(c color.NRGBA) int {
	return (int(c.R) + int(c.G) + int(c.B)) / 3
}
