package dither

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Algorithm selects one of the ditherers for Apply.
type Algorithm int

const (
	// AlgorithmMonochrome is Monochrome with the first two palette colours.
	AlgorithmMonochrome Algorithm = iota
	// AlgorithmQuantize is Quantize (nearest colour, no diffusion).
	AlgorithmQuantize
	// AlgorithmRandom is Random with BlackWhite.
	AlgorithmRandom
	// AlgorithmOrdered is Ordered with BlackWhite and a Bayer matrix.
	AlgorithmOrdered
	// AlgorithmSimpleDiffusion is Simple (luma threshold, naive kernel).
	AlgorithmSimpleDiffusion
	// AlgorithmPaletteDiffusion is Diffuse with a palette and kernel.
	AlgorithmPaletteDiffusion

	algorithmCount // sentinel for validation
)

var algorithmNames = [algorithmCount]string{
	"monochrome", "quantize", "random", "ordered", "simple-diffusion", "palette-diffusion",
}

// String returns the algorithm's name as accepted by ParseAlgorithm.
func (a Algorithm) String() string {
	if a.Valid() {
		return algorithmNames[a]
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// Valid reports whether a is a known algorithm.
func (a Algorithm) Valid() bool {
	return a >= 0 && a < algorithmCount
}

// MarshalText implements encoding.TextMarshaler so results serialize the
// algorithm by name.
func (a Algorithm) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%d: %w", int(a), ErrUnknownAlgorithm)
	}
	return []byte(a.String()), nil
}

// ParseAlgorithm resolves a case-insensitive algorithm name. Underscores and
// spaces are accepted in place of dashes, and "diffusion" is accepted for
// "palette-diffusion".
func ParseAlgorithm(name string) (Algorithm, error) {
	key := normalizeName(name)
	switch key {
	case "diffusion", "error-diffusion":
		return AlgorithmPaletteDiffusion, nil
	case "simple":
		return AlgorithmSimpleDiffusion, nil
	case "bayer":
		return AlgorithmOrdered, nil
	}
	for i, n := range algorithmNames {
		if n == key {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownAlgorithm)
}

// Algorithms returns every algorithm in declaration order.
func Algorithms() []Algorithm {
	all := make([]Algorithm, algorithmCount)
	for i := range all {
		all[i] = Algorithm(i)
	}
	return all
}

// Options configures Apply.
type Options struct {
	// Algorithm picks the ditherer.
	Algorithm Algorithm

	// Palette is required by Monochrome, Quantize and PaletteDiffusion.
	// Monochrome uses entry 0 as the light colour and entry 1 as the dark
	// colour, defaulting to black when only one colour is given.
	Palette Palette

	// Order is the Bayer matrix order for Ordered (side 2^Order).
	Order int

	// Kernel is the diffusion kernel for PaletteDiffusion. A zero Kernel
	// selects FloydSteinberg.
	Kernel Kernel

	// Seed seeds the random source for Random. Zero seeds from the clock.
	Seed uint64
}

// Apply validates opts and runs the selected ditherer on buf.
//
// Every precondition (algorithm, palette, order, kernel) is checked before
// the buffer is touched, so an error always leaves buf unchanged.
func Apply(buf *Buffer, opts Options) error {
	if buf == nil {
		return ErrEmptyBuffer
	}

	switch opts.Algorithm {
	case AlgorithmMonochrome:
		pair, err := pairFromPalette(opts.Palette)
		if err != nil {
			return err
		}
		return Monochrome(buf, pair)

	case AlgorithmQuantize:
		return Quantize(buf, opts.Palette)

	case AlgorithmRandom:
		seed := opts.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		return Random(buf, BlackWhite, rand.New(rand.NewPCG(seed, seed>>1|1)))

	case AlgorithmOrdered:
		m, err := Bayer(opts.Order)
		if err != nil {
			return err
		}
		return Ordered(buf, BlackWhite, m)

	case AlgorithmSimpleDiffusion:
		return Simple(buf)

	case AlgorithmPaletteDiffusion:
		kernel := opts.Kernel
		if kernel.Name == "" && len(kernel.Taps) == 0 && kernel.Factor == 0 {
			kernel = FloydSteinberg
		}
		return Diffuse(buf, opts.Palette, kernel)
	}

	return fmt.Errorf("%s: %w", opts.Algorithm, ErrUnknownAlgorithm)
}

func pairFromPalette(p Palette) (Pair, error) {
	if err := p.Validate(); err != nil {
		return Pair{}, err
	}
	pair := Pair{Light: p[0], Dark: Black}
	if len(p) > 1 {
		pair.Dark = p[1]
	}
	return pair, nil
}
