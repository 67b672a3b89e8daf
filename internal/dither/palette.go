package dither

// Palette is an ordered list of colours an image is reduced to.
//
// Order matters only for ties: when two entries are equally close to a
// colour, the one that appears first wins. Duplicate entries are allowed and
// never change the result.
type Palette []Pixel

// Validate returns ErrEmptyPalette when the palette has no colours.
func (p Palette) Validate() error {
	if len(p) == 0 {
		return ErrEmptyPalette
	}
	return nil
}

// Nearest returns the palette entry with the smallest Euclidean RGB distance
// to px. Ties go to the earliest entry, which keeps output reproducible.
//
// Returns ErrEmptyPalette when the palette is empty.
func (p Palette) Nearest(px Pixel) (Pixel, error) {
	if err := p.Validate(); err != nil {
		return Pixel{}, err
	}
	return p.nearest(float64(px.R), float64(px.G), float64(px.B)), nil
}

// nearest is Nearest for unrounded channels. The palette must be non-empty.
func (p Palette) nearest(r, g, b float64) Pixel {
	best := p[0]
	bestDist := distanceSq(r, g, b, best)
	for _, c := range p[1:] {
		if d := distanceSq(r, g, b, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
