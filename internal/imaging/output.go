package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/xfmoulet/qoi"
)

// ErrUnsupportedFormat is returned for output formats that cannot be encoded.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// DefaultJPEGQuality is used by Save and Encode when quality is out of range.
const DefaultJPEGQuality = 95

// outputFormats lists the canonical extension for every encodable format.
var outputFormats = map[string]string{
	"png":  "png",
	"jpg":  "jpg",
	"jpeg": "jpg",
	"gif":  "gif",
	"bmp":  "bmp",
	"tif":  "tiff",
	"tiff": "tiff",
	"qoi":  "qoi",
}

// NormalizeFormat maps a format name or extension (with or without the
// leading dot, any case) to its canonical extension: png, jpg, gif, bmp,
// tiff or qoi.
func NormalizeFormat(format string) (string, error) {
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".")
	canonical, ok := outputFormats[key]
	if !ok {
		return "", fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
	return canonical, nil
}

// Encode writes img to w in the given format.
//
// PNG, JPEG, GIF, BMP and TIFF are written by github.com/disintegration/imaging;
// QOI by github.com/xfmoulet/qoi. jpegQuality applies to JPEG only and falls
// back to DefaultJPEGQuality when outside 1-100.
func Encode(w io.Writer, img image.Image, format string, jpegQuality int) error {
	canonical, err := NormalizeFormat(format)
	if err != nil {
		return err
	}

	if canonical == "qoi" {
		if err := qoi.Encode(w, img); err != nil {
			return fmt.Errorf("failed to encode qoi: %w", err)
		}
		return nil
	}

	f, err := imaging.FormatFromExtension(canonical)
	if err != nil {
		return fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
	if jpegQuality < 1 || jpegQuality > 100 {
		jpegQuality = DefaultJPEGQuality
	}
	if err := imaging.Encode(w, img, f, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", canonical, err)
	}
	return nil
}

// Save encodes img into the file at path, choosing the format from the
// extension. Missing parent directories are created. On an encoding failure
// the partial file is removed.
func Save(path string, img image.Image, jpegQuality int) error {
	format, err := NormalizeFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Encode(f, img, format, jpegQuality); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// Stem returns the file name of path without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPath builds the file name for a dithered image:
//
//	<dir>/<stem>_<algorithm>[_<label>...].<ext>
//
// so dithering photo.jpg with monochrome red and blue gives
// photo_monochrome_red_blue.<ext>. Empty labels are skipped.
func OutputPath(dir, stem, algorithm, ext string, labels ...string) string {
	parts := []string{stem, algorithm}
	for _, l := range labels {
		if l != "" {
			parts = append(parts, l)
		}
	}
	name := strings.Join(parts, "_") + "." + strings.TrimPrefix(ext, ".")
	return filepath.Join(dir, name)
}

// EncodeBase64PNG encodes img as PNG and returns it base64 encoded, ready
// to embed in a JSON response.
func EncodeBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, "png", 0); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
