package dither

import "errors"

var (
	// ErrEmptyPalette is returned when a palette-dependent operation gets no colours.
	ErrEmptyPalette = errors.New("palette has no colors")

	// ErrInvalidKernel is returned for diffusion kernels with no taps, a
	// non-positive factor, negative weights or taps pointing backwards.
	ErrInvalidKernel = errors.New("invalid diffusion kernel")

	// ErrInvalidOrder is returned for Bayer orders outside [0, MaxBayerOrder].
	ErrInvalidOrder = errors.New("invalid bayer matrix order")

	// ErrEmptyBuffer is returned when a ditherer is handed a nil buffer.
	ErrEmptyBuffer = errors.New("pixel buffer is nil")

	// ErrUnknownAlgorithm is returned by ParseAlgorithm and Apply.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrUnknownKernel is returned by KernelByName.
	ErrUnknownKernel = errors.New("unknown diffusion kernel")
)
