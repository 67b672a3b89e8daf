package imaging

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/ditherpunk/internal/dither"
)

// RGBAColor represents an RGBA color with 8-bit components including alpha.
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"` // 0 = fully transparent, 255 = fully opaque
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a sampled color in the representations useful when
// inspecting dithered output.
type ColorResult struct {
	Hex  string       `json:"hex"` // "#rrggbb", alpha excluded
	RGB  dither.Pixel `json:"rgb"`
	RGBA RGBAColor    `json:"rgba"`
	HSL  HSLColor     `json:"hsl"`

	// Luma is the BT.709 luma the ditherers threshold on.
	Luma float64 `json:"luma"`
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - img: The source image to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y) in multiple formats.
//   - error: Non-nil if coordinates are outside the image bounds.
//
// For 16-bit images, values are scaled down by right-shifting 8 bits.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	r, g, b, a := img.At(x, y).RGBA()
	px := dither.Pixel{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}

	return &ColorResult{
		Hex:  toColorful(px).Hex(),
		RGB:  px,
		RGBA: RGBAColor{R: px.R, G: px.G, B: px.B, A: uint8(a >> 8)},
		HSL:  toHSL(px),
		Luma: math.Round(dither.Luma(px)*100) / 100,
	}, nil
}

// ColorFrequency is one entry of a colour histogram.
type ColorFrequency struct {
	Hex        string       `json:"hex"`        // "#rrggbb" of the bucket mean
	Percentage float64      `json:"percentage"` // share of pixels in the bucket (0-100)
	RGB        dither.Pixel `json:"rgb"`        // bucket mean
}

// bucketStep is the per-channel width of a histogram bucket.
const bucketStep = 16

// DominantColors returns up to count of the most frequent colours of img,
// most frequent first.
//
// # Color Quantization
//
// Pixels are grouped into buckets by dividing each 8-bit component by 16,
// so colours within the same 16-wide cube share a bucket. Each bucket is
// reported by the mean of its members rather than its corner, which keeps
// the extracted colours faithful to the image. Ties in frequency are broken
// by bucket index so the result is deterministic.
//
// Returns an error when count is not positive or img is empty.
func DominantColors(img image.Image, count int) ([]ColorFrequency, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive (got %d)", count)
	}
	buf := dither.FromImage(img)
	total := buf.Width() * buf.Height()
	if total == 0 {
		return nil, fmt.Errorf("image is empty")
	}

	type bucket struct {
		key     int
		n       int
		r, g, b int
	}
	buckets := make(map[int]*bucket)
	for y := 0; y < buf.Height(); y++ {
		for x := 0; x < buf.Width(); x++ {
			p := buf.At(x, y)
			key := int(p.R/bucketStep)<<8 | int(p.G/bucketStep)<<4 | int(p.B/bucketStep)
			bk, ok := buckets[key]
			if !ok {
				bk = &bucket{key: key}
				buckets[key] = bk
			}
			bk.n++
			bk.r += int(p.R)
			bk.g += int(p.G)
			bk.b += int(p.B)
		}
	}

	sorted := make([]*bucket, 0, len(buckets))
	for _, bk := range buckets {
		sorted = append(sorted, bk)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].n != sorted[j].n {
			return sorted[i].n > sorted[j].n
		}
		return sorted[i].key < sorted[j].key
	})
	if len(sorted) > count {
		sorted = sorted[:count]
	}

	colors := make([]ColorFrequency, 0, len(sorted))
	for _, bk := range sorted {
		px := dither.Pixel{
			R: uint8((bk.r + bk.n/2) / bk.n),
			G: uint8((bk.g + bk.n/2) / bk.n),
			B: uint8((bk.b + bk.n/2) / bk.n),
		}
		colors = append(colors, ColorFrequency{
			Hex:        toColorful(px).Hex(),
			Percentage: math.Round(float64(bk.n)/float64(total)*10000) / 100,
			RGB:        px,
		})
	}
	return colors, nil
}

// DominantPalette extracts a dithering palette of up to count colours from
// img using DominantColors.
func DominantPalette(img image.Image, count int) (dither.Palette, error) {
	colors, err := DominantColors(img, count)
	if err != nil {
		return nil, err
	}
	palette := make(dither.Palette, len(colors))
	for i, c := range colors {
		palette[i] = c.RGB
	}
	return palette, nil
}

func toColorful(p dither.Pixel) colorful.Color {
	return colorful.Color{R: float64(p.R) / 255, G: float64(p.G) / 255, B: float64(p.B) / 255}
}

// toHSL converts p to HSL with integer degrees and percentages, truncating
// toward zero.
func toHSL(p dither.Pixel) HSLColor {
	h, s, l := toColorful(p).Hsl()
	if s == 0 {
		h = 0
	}
	return HSLColor{
		H: int(h),
		S: int(s * 100),
		L: int(l * 100),
	}
}
