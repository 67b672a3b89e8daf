package dither

import "fmt"

// Tap is one entry of a diffusion kernel: the neighbour at (DX, DY) relative
// to the current pixel receives Weight/Factor of its quantization error.
type Tap struct {
	DX     int `json:"dx"`
	DY     int `json:"dy"`
	Weight int `json:"weight"`
}

// Kernel describes how an error diffusion ditherer spreads the residual of
// each pixel to its not yet visited neighbours.
//
// Weights are integers normalized by Factor. A kernel whose weights sum to
// Factor conserves the whole error; Atkinson deliberately sums to 6/8 and
// drops the rest.
type Kernel struct {
	Name   string `json:"name"`
	Taps   []Tap  `json:"taps"`
	Factor int    `json:"factor"`
}

// Validate checks that the kernel has taps, a positive factor, no negative
// weights, at least one non-zero weight, and that every tap points to a
// pixel after the current one in raster order (to the right on the same
// row, or on a later row).
func (k Kernel) Validate() error {
	if len(k.Taps) == 0 {
		return fmt.Errorf("kernel %q has no taps: %w", k.Name, ErrInvalidKernel)
	}
	if k.Factor <= 0 {
		return fmt.Errorf("kernel %q has factor %d: %w", k.Name, k.Factor, ErrInvalidKernel)
	}
	for _, t := range k.Taps {
		if t.Weight < 0 {
			return fmt.Errorf("kernel %q tap (%d,%d) has negative weight: %w", k.Name, t.DX, t.DY, ErrInvalidKernel)
		}
		if t.DY < 0 || (t.DY == 0 && t.DX <= 0) {
			return fmt.Errorf("kernel %q tap (%d,%d) points at a visited pixel: %w", k.Name, t.DX, t.DY, ErrInvalidKernel)
		}
	}
	if k.Sum() == 0 {
		return fmt.Errorf("kernel %q has only zero weights: %w", k.Name, ErrInvalidKernel)
	}
	return nil
}

// Sum returns the total of all weights.
func (k Kernel) Sum() int {
	sum := 0
	for _, t := range k.Taps {
		sum += t.Weight
	}
	return sum
}

// Diffuse quantizes buf to palette while diffusing the error with kernel.
//
// Parameters:
//   - buf: pixels to dither, modified in place.
//   - palette: target colours; must not be empty.
//   - kernel: diffusion weights; must pass Validate.
//
// Returns ErrEmptyBuffer, ErrEmptyPalette or ErrInvalidKernel (wrapped)
// before touching any pixel.
//
// # Algorithm
//
// Pixels are visited row by row from the top, left to right within a row.
// For each pixel:
//
//  1. Read the working colour old (unrounded, may carry earlier error)
//  2. new = nearest palette entry to old
//  3. Write new to the buffer; the pixel is final from here on
//  4. err = old - new per channel
//  5. For each tap inside the buffer add err*Weight/Factor to the target,
//     clamped to [0, 255]. Shares for taps outside the buffer are lost.
//
// Working values stay in float64 until the final write so long runs of
// small residuals are not truncated away.
func Diffuse(buf *Buffer, palette Palette, kernel Kernel) error {
	if buf == nil {
		return ErrEmptyBuffer
	}
	if err := palette.Validate(); err != nil {
		return err
	}
	if err := kernel.Validate(); err != nil {
		return err
	}

	taps := scaledTaps(kernel)
	w := buf.width
	work := make([]float64, len(buf.pix)*3)
	for i, p := range buf.pix {
		work[i*3], work[i*3+1], work[i*3+2] = float64(p.R), float64(p.G), float64(p.B)
	}

	for y := 0; y < buf.height; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 3
			r, g, b := work[i], work[i+1], work[i+2]

			chosen := palette.nearest(r, g, b)
			buf.pix[y*w+x] = chosen

			er := r - float64(chosen.R)
			eg := g - float64(chosen.G)
			eb := b - float64(chosen.B)
			if er == 0 && eg == 0 && eb == 0 {
				continue
			}

			for _, t := range taps {
				tx, ty := x+t.dx, y+t.dy
				if !buf.In(tx, ty) {
					continue
				}
				j := (ty*w + tx) * 3
				work[j] = clampChannel(work[j] + er*t.share)
				work[j+1] = clampChannel(work[j+1] + eg*t.share)
				work[j+2] = clampChannel(work[j+2] + eb*t.share)
			}
		}
	}
	return nil
}

// DiffuseLuma dithers buf to black and white by thresholding luma at 128
// and diffusing the luma error with kernel. Unlike Diffuse it uses no
// palette and ignores hue, so the output is always grayscale.
func DiffuseLuma(buf *Buffer, kernel Kernel) error {
	if buf == nil {
		return ErrEmptyBuffer
	}
	if err := kernel.Validate(); err != nil {
		return err
	}

	taps := scaledTaps(kernel)
	w := buf.width
	work := make([]float64, len(buf.pix))
	for i, p := range buf.pix {
		work[i] = Luma(p)
	}

	for y := 0; y < buf.height; y++ {
		for x := 0; x < w; x++ {
			old := work[y*w+x]
			target := 0.0
			buf.pix[y*w+x] = Black
			if old > monochromeThreshold {
				target = 255
				buf.pix[y*w+x] = White
			}

			e := old - target
			for _, t := range taps {
				tx, ty := x+t.dx, y+t.dy
				if !buf.In(tx, ty) {
					continue
				}
				j := ty*w + tx
				work[j] = clampChannel(work[j] + e*t.share)
			}
		}
	}
	return nil
}

// Simple runs DiffuseLuma with the Naive two-tap kernel. Pixels on the last
// row or column have only one in-bounds neighbour and keep the other half
// of their error; the weights are not renormalized at the edges.
func Simple(buf *Buffer) error {
	return DiffuseLuma(buf, Naive)
}

type scaledTap struct {
	dx, dy int
	share  float64
}

func scaledTaps(k Kernel) []scaledTap {
	taps := make([]scaledTap, 0, len(k.Taps))
	for _, t := range k.Taps {
		if t.Weight == 0 {
			continue
		}
		taps = append(taps, scaledTap{
			dx:    t.DX,
			dy:    t.DY,
			share: float64(t.Weight) / float64(k.Factor),
		})
	}
	return taps
}
