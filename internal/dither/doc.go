// Package dither implements the halftoning and palette quantization engine.
//
// The engine works on a Buffer, a row-major grid of 8-bit RGB pixels that is
// mutated in place by exactly one ditherer per call. Callers decode an image,
// convert it with FromImage, run one of the ditherers and hand the result of
// Buffer.Image to an encoder. Nothing in this package touches the filesystem.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with the origin at the top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// Every access is bounds-checked. Out-of-range neighbours encountered while
// diffusing error are skipped, never wrapped.
//
// # Algorithms
//
// Threshold family (no inter-pixel dependency):
//   - Monochrome: luma > 128 selects the light colour of a pair
//   - Random: luma/255 compared to a uniform random draw per pixel
//   - Ordered: luma/255 compared to a recursive Bayer matrix threshold
//   - Quantize: nearest palette colour, no diffusion
//
// Error diffusion family (raster order, row by row, left to right):
//   - Diffuse: nearest palette colour with a weighted Kernel
//   - DiffuseLuma / Simple: binary luma threshold with a weighted Kernel
//
// # Error Handling
//
// All inputs are validated before the first pixel is written. A ditherer
// either returns one of the sentinel errors (wrapped with context, test with
// errors.Is) or runs to completion; a buffer is never left half processed.
//
// # Thread Safety
//
// A Buffer is owned by the call that mutates it. Matrices, palettes and
// kernels are read-only during a call and may be shared between goroutines
// working on different buffers.
package dither
