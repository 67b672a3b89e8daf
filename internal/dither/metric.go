package dither

import "math"

// ITU-R BT.709 luma coefficients.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

// Luma returns the perceptual brightness of p in [0, 255] using BT.709
// weights: 0.2126*R + 0.7152*G + 0.0722*B.
func Luma(p Pixel) float64 {
	return luma(float64(p.R), float64(p.G), float64(p.B))
}

// luma works on unrounded channel values. The explicit conversions stop the
// compiler from fusing the products into FMA instructions, which would move
// results sitting exactly on the 128 threshold.
func luma(r, g, b float64) float64 {
	return float64(lumaR*r) + float64(lumaG*g) + float64(lumaB*b)
}

// Distance returns the Euclidean distance between a and b in RGB space.
// It is symmetric and zero only when a == b.
func Distance(a, b Pixel) float64 {
	return math.Sqrt(distanceSq(float64(a.R), float64(a.G), float64(a.B), b))
}

// distanceSq is the squared distance from an unrounded colour to a palette
// entry. Comparing squared distances picks the same winner as Distance.
func distanceSq(r, g, b float64, p Pixel) float64 {
	dr := r - float64(p.R)
	dg := g - float64(p.G)
	db := b - float64(p.B)
	return dr*dr + dg*dg + db*db
}

// clampChannel limits a working channel value to [0, 255].
func clampChannel(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
