package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/disintegration/imaging"
)

// PrepareOptions describes the optional preprocessing applied to a source
// image before it is dithered. The zero value leaves the image untouched.
type PrepareOptions struct {
	// MaxWidth and MaxHeight bound the output size. The image is scaled down
	// with a Lanczos filter, keeping its aspect ratio, until it fits. Zero
	// means unbounded on that axis. Images are never scaled up.
	MaxWidth  int `json:"max_width,omitempty"`
	MaxHeight int `json:"max_height,omitempty"`

	// Gamma applies gamma correction; values above 1 brighten midtones.
	// Zero or 1 disables it.
	Gamma float64 `json:"gamma,omitempty"`

	// Contrast and Brightness are relative changes in [-1, 1]; 0 disables.
	Contrast   float64 `json:"contrast,omitempty"`
	Brightness float64 `json:"brightness,omitempty"`
}

// IsZero reports whether opts would leave the image unchanged.
func (o PrepareOptions) IsZero() bool {
	return o.MaxWidth == 0 && o.MaxHeight == 0 &&
		(o.Gamma == 0 || o.Gamma == 1) && o.Contrast == 0 && o.Brightness == 0
}

// Validate rejects negative bounds, negative gamma and out of range
// contrast or brightness.
func (o PrepareOptions) Validate() error {
	if o.MaxWidth < 0 || o.MaxHeight < 0 {
		return fmt.Errorf("resize bounds must not be negative (got %dx%d)", o.MaxWidth, o.MaxHeight)
	}
	if o.Gamma < 0 {
		return fmt.Errorf("gamma must not be negative (got %g)", o.Gamma)
	}
	if o.Contrast < -1 || o.Contrast > 1 {
		return fmt.Errorf("contrast must be within [-1, 1] (got %g)", o.Contrast)
	}
	if o.Brightness < -1 || o.Brightness > 1 {
		return fmt.Errorf("brightness must be within [-1, 1] (got %g)", o.Brightness)
	}
	return nil
}

// Prepare resizes and tone-adjusts img according to opts.
//
// Steps run in a fixed order: resize, gamma, contrast, brightness. Resizing
// first keeps the adjustments cheap on large photos. When opts is the zero
// value img is returned as is.
func Prepare(img image.Image, opts PrepareOptions) (image.Image, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.IsZero() {
		return img, nil
	}

	out := img
	bounds := img.Bounds()
	maxW, maxH := opts.MaxWidth, opts.MaxHeight
	if maxW == 0 {
		maxW = bounds.Dx()
	}
	if maxH == 0 {
		maxH = bounds.Dy()
	}
	if bounds.Dx() > maxW || bounds.Dy() > maxH {
		out = imaging.Fit(out, maxW, maxH, imaging.Lanczos)
	}

	if opts.Gamma != 0 && opts.Gamma != 1 {
		out = adjust.Gamma(out, opts.Gamma)
	}
	if opts.Contrast != 0 {
		out = adjust.Contrast(out, opts.Contrast)
	}
	if opts.Brightness != 0 {
		out = adjust.Brightness(out, opts.Brightness)
	}
	return out, nil
}

// Thumbnail scales img down so that its longest side is at most maxSide
// pixels. Images already small enough are returned unchanged. Nearest
// neighbour sampling keeps dithered dots crisp.
func Thumbnail(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	if maxSide <= 0 || (b.Dx() <= maxSide && b.Dy() <= maxSide) {
		return img
	}
	return imaging.Fit(img, maxSide, maxSide, imaging.NearestNeighbor)
}
