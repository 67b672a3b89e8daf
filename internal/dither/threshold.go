package dither

import "fmt"

// monochromeThreshold is the luma boundary for Monochrome and the simple
// diffusion variant. Luma exactly equal to it counts as dark.
const monochromeThreshold = 128.0

// Pair is the two-colour palette used by the threshold ditherers.
type Pair struct {
	Light Pixel // chosen when the pixel is brighter than the threshold
	Dark  Pixel // chosen otherwise
}

// BlackWhite is the default pair for Random and Ordered dithering.
var BlackWhite = Pair{Light: White, Dark: Black}

// RandomSource supplies uniform values in [0, 1). *rand.Rand from both
// math/rand and math/rand/v2 satisfy it.
type RandomSource interface {
	Float64() float64
}

// Monochrome maps every pixel to pair.Light when its luma is strictly
// greater than 128 and to pair.Dark otherwise.
func Monochrome(buf *Buffer, pair Pair) error {
	if buf == nil {
		return ErrEmptyBuffer
	}
	for i, p := range buf.pix {
		if Luma(p) > monochromeThreshold {
			buf.pix[i] = pair.Light
		} else {
			buf.pix[i] = pair.Dark
		}
	}
	return nil
}

// Random compares each pixel's normalized luma (luma/255) with one uniform
// draw from src and picks pair.Light when the luma is larger.
//
// Draws are independent per pixel. The output is reproducible only when
// src is seeded by the caller.
func Random(buf *Buffer, pair Pair, src RandomSource) error {
	if buf == nil {
		return ErrEmptyBuffer
	}
	if src == nil {
		return fmt.Errorf("random dither needs a random source")
	}
	for i, p := range buf.pix {
		if Luma(p)/255 > src.Float64() {
			buf.pix[i] = pair.Light
		} else {
			buf.pix[i] = pair.Dark
		}
	}
	return nil
}

// Ordered compares each pixel's normalized luma with the Bayer threshold at
// its position, tiling the matrix over the whole image.
func Ordered(buf *Buffer, pair Pair, m *Matrix) error {
	if buf == nil {
		return ErrEmptyBuffer
	}
	if m == nil {
		return fmt.Errorf("nil matrix: %w", ErrInvalidOrder)
	}
	for y := 0; y < buf.height; y++ {
		for x := 0; x < buf.width; x++ {
			i := y*buf.width + x
			if Luma(buf.pix[i])/255 > m.Threshold(x, y) {
				buf.pix[i] = pair.Light
			} else {
				buf.pix[i] = pair.Dark
			}
		}
	}
	return nil
}

// Quantize replaces every pixel by its nearest palette entry without
// spreading the quantization error.
func Quantize(buf *Buffer, palette Palette) error {
	if buf == nil {
		return ErrEmptyBuffer
	}
	if err := palette.Validate(); err != nil {
		return err
	}
	for i, p := range buf.pix {
		buf.pix[i] = palette.nearest(float64(p.R), float64(p.G), float64(p.B))
	}
	return nil
}
