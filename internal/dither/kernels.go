package dither

import (
	"fmt"
	"math"
	"sort"
	"strings"

	edm "github.com/makeworld-the-better-one/dither/v2"
)

// Kernel presets. Offsets are relative to the current pixel.
var (
	// Naive sends half the error right and half down.
	Naive = Kernel{
		Name: "naive",
		Taps: []Tap{
			{1, 0, 1},
			{0, 1, 1},
		},
		Factor: 2,
	}

	// FloydSteinberg is the classic four-tap kernel.
	//
	//	    *  7
	//	 3  5  1     (/16)
	FloydSteinberg = Kernel{
		Name: "floyd-steinberg",
		Taps: []Tap{
			{1, 0, 7},
			{-1, 1, 3}, {0, 1, 5}, {1, 1, 1},
		},
		Factor: 16,
	}

	// JarvisJudiceNinke spreads the error over two rows below.
	//
	//	       *  7  5
	//	 3  5  7  5  3
	//	 1  3  5  3  1   (/48)
	JarvisJudiceNinke = Kernel{
		Name: "jarvis-judice-ninke",
		Taps: []Tap{
			{1, 0, 7}, {2, 0, 5},
			{-2, 1, 3}, {-1, 1, 5}, {0, 1, 7}, {1, 1, 5}, {2, 1, 3},
			{-2, 2, 1}, {-1, 2, 3}, {0, 2, 5}, {1, 2, 3}, {2, 2, 1},
		},
		Factor: 48,
	}

	// Atkinson diffuses only 6/8 of the error, which keeps edges crisp.
	//
	//	    *  1  1
	//	 1  1  1
	//	    1          (/8)
	Atkinson = Kernel{
		Name: "atkinson",
		Taps: []Tap{
			{1, 0, 1}, {2, 0, 1},
			{-1, 1, 1}, {0, 1, 1}, {1, 1, 1},
			{0, 2, 1},
		},
		Factor: 8,
	}
)

// maxMatrixFactor bounds the denominator search in KernelFromMatrix.
const maxMatrixFactor = 1024

// KernelFromMatrix converts a float error diffusion matrix, as used by the
// github.com/makeworld-the-better-one/dither library, into a Kernel.
//
// The current pixel sits in the first row, one column left of the first
// non-zero weight. The factor is the smallest integer that turns every
// weight into a whole number.
//
// Returns ErrInvalidKernel (wrapped) when the matrix is empty, has no
// positive weight in its first row, has weights that are not fractions
// with a denominator up to 1024, or converts to a kernel that fails
// Validate.
func KernelFromMatrix(name string, m edm.ErrorDiffusionMatrix) (Kernel, error) {
	if len(m) == 0 || len(m[0]) == 0 {
		return Kernel{}, fmt.Errorf("matrix %q is empty: %w", name, ErrInvalidKernel)
	}

	anchor := -1
	for i, v := range m[0] {
		if v > 0 {
			anchor = i - 1
			break
		}
	}
	if anchor < 0 {
		return Kernel{}, fmt.Errorf("matrix %q has no current pixel: %w", name, ErrInvalidKernel)
	}

	factor := 0
	for d := 1; d <= maxMatrixFactor && factor == 0; d++ {
		whole := true
		for _, row := range m {
			for _, v := range row {
				scaled := float64(v) * float64(d)
				if math.Abs(scaled-math.Round(scaled)) > 1e-3 {
					whole = false
					break
				}
			}
			if !whole {
				break
			}
		}
		if whole {
			factor = d
		}
	}
	if factor == 0 {
		return Kernel{}, fmt.Errorf("matrix %q weights have no common denominator: %w", name, ErrInvalidKernel)
	}

	k := Kernel{Name: name, Factor: factor}
	for y, row := range m {
		for x, v := range row {
			weight := int(math.Round(float64(v) * float64(factor)))
			if weight == 0 {
				continue
			}
			k.Taps = append(k.Taps, Tap{DX: x - anchor, DY: y, Weight: weight})
		}
	}
	if err := k.Validate(); err != nil {
		return Kernel{}, err
	}
	return k, nil
}

var (
	kernels       = map[string]Kernel{}
	kernelAliases = map[string]string{
		"simple2d":            "naive",
		"fs":                  "floyd-steinberg",
		"floydsteinberg":      "floyd-steinberg",
		"jjn":                 "jarvis-judice-ninke",
		"jarvisjudiceninke":   "jarvis-judice-ninke",
		"sierra3":             "sierra",
		"two-row-sierra":      "sierra2",
		"tworowsierra":        "sierra2",
		"sierra2-4a":          "sierra-lite",
		"sierralite":          "sierra-lite",
		"falsefloydsteinberg": "false-floyd-steinberg",
		"stevenpigeon":        "steven-pigeon",
	}
)

func init() {
	for _, k := range []Kernel{Naive, FloydSteinberg, JarvisJudiceNinke, Atkinson} {
		kernels[k.Name] = k
	}

	imported := []struct {
		name   string
		matrix edm.ErrorDiffusionMatrix
	}{
		{"stucki", edm.Stucki},
		{"burkes", edm.Burkes},
		{"sierra", edm.Sierra3},
		{"sierra2", edm.TwoRowSierra},
		{"sierra-lite", edm.SierraLite},
		{"false-floyd-steinberg", edm.FalseFloydSteinberg},
		{"steven-pigeon", edm.StevenPigeon},
	}
	for _, im := range imported {
		k, err := KernelFromMatrix(im.name, im.matrix)
		if err != nil {
			panic(fmt.Sprintf("dither: cannot import kernel %s: %v", im.name, err))
		}
		kernels[k.Name] = k
	}
}

// normalizeName lowercases a user supplied name and turns spaces and
// underscores into dashes.
func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("_", "-", " ", "-").Replace(name)
}

// KernelByName looks up a registered kernel. Names are case-insensitive and
// accept a few aliases ("fs", "jjn", "sierra3", ...).
func KernelByName(name string) (Kernel, error) {
	key := normalizeName(name)
	if alias, ok := kernelAliases[key]; ok {
		key = alias
	}
	k, ok := kernels[key]
	if !ok {
		return Kernel{}, fmt.Errorf("%q: %w", name, ErrUnknownKernel)
	}
	return k, nil
}

// Kernels returns the sorted names of all registered kernels.
func Kernels() []string {
	names := make([]string, 0, len(kernels))
	for name := range kernels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
