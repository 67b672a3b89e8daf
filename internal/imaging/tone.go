package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/ditherpunk/internal/dither"
)

// ToneResult compares the overall brightness of an image before and after
// dithering. Error diffusion should keep the mean luma close to the
// original; threshold methods usually drift further.
type ToneResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// OriginalMeanLuma and DitheredMeanLuma are BT.709 luma averages (0-255).
	OriginalMeanLuma float64 `json:"original_mean_luma"`
	DitheredMeanLuma float64 `json:"dithered_mean_luma"`

	// Delta is DitheredMeanLuma - OriginalMeanLuma.
	Delta float64 `json:"delta"`

	// DistinctColors is the number of different colours in the dithered image.
	DistinctColors int `json:"distinct_colors"`
}

// CompareTone measures how well dithered preserves the tone of original.
//
// Both images must have the same dimensions. Alpha is ignored, as it is by
// the ditherers. Lumas are rounded to two decimals.
func CompareTone(original, dithered image.Image) (*ToneResult, error) {
	ob, db := original.Bounds(), dithered.Bounds()
	if ob.Dx() != db.Dx() || ob.Dy() != db.Dy() {
		return nil, fmt.Errorf("size mismatch: original %dx%d, dithered %dx%d",
			ob.Dx(), ob.Dy(), db.Dx(), db.Dy())
	}

	src := dither.FromImage(original)
	out := dither.FromImage(dithered)
	w, h := src.Width(), src.Height()

	result := &ToneResult{Width: w, Height: h}
	if w == 0 || h == 0 {
		return result, nil
	}

	var sumOrig, sumOut float64
	distinct := make(map[dither.Pixel]struct{})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sumOrig += dither.Luma(src.At(x, y))
			p := out.At(x, y)
			sumOut += dither.Luma(p)
			distinct[p] = struct{}{}
		}
	}

	n := float64(w * h)
	meanOrig, meanOut := sumOrig/n, sumOut/n
	result.OriginalMeanLuma = math.Round(meanOrig*100) / 100
	result.DitheredMeanLuma = math.Round(meanOut*100) / 100
	result.Delta = math.Round((meanOut-meanOrig)*100) / 100
	result.DistinctColors = len(distinct)
	return result, nil
}
