// Package imaging moves images between files and the dithering engine.
//
// It decodes source images (PNG, JPEG, GIF, BMP, TIFF, WebP, QOI), prepares
// them for dithering (resize, gamma, contrast, brightness), encodes the
// results (PNG, JPEG, GIF, BMP, TIFF, QOI) and offers a few measurements
// that help judge a dither: dominant colours, tone comparison and single
// pixel sampling.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The remaining functions are
// stateless and never modify their input images.
//
// # Output Naming
//
// OutputPath names results after the input stem, the algorithm and any
// labels (usually colour names), for example photo_monochrome_red_blue.jpg.
//
// # Error Handling
//
// Functions return errors for:
//   - Coordinates outside image bounds
//   - File I/O errors during loading or saving
//   - Unsupported output formats (ErrUnsupportedFormat)
//   - Out of range preprocessing options
package imaging
