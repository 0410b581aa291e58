package ocr

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Upscaling target width in pixels. Small scans recognize poorly; the
// engine wants roughly 300 DPI input.
const targetWidth = 2500

// Preprocess prepares an image for recognition: grayscale conversion, an
// upscale of small images, and a linear contrast stretch. Aggressive
// binarization is deliberately avoided; it destroys thin strokes and
// misbehaves on photos with uneven lighting.
func Preprocess(img image.Image) image.Image {
	gray := toGray(img)
	if gray.Bounds().Dx() < targetWidth {
		gray = upscale(gray, targetWidth)
	}
	return stretchContrast(gray)
}

func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

func upscale(img *image.Gray, width int) *image.Gray {
	b := img.Bounds()
	scale := float64(width) / float64(b.Dx())
	h := int(float64(b.Dy()) * scale)
	dst := image.NewGray(image.Rect(0, 0, width, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// stretchContrast maps the observed intensity range onto the full 0-255
// range. A flat image (single intensity) is returned unchanged.
func stretchContrast(img *image.Gray) *image.Gray {
	b := img.Bounds()
	lo, hi := uint8(255), uint8(0)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := img.GrayAt(x, y).Y
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if hi <= lo {
		return img
	}

	out := image.NewGray(b)
	span := float64(hi - lo)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := float64(img.GrayAt(x, y).Y-lo) / span * 255.0
			out.SetGray(x, y, color.Gray{Y: uint8(v + 0.5)})
		}
	}
	return out
}
