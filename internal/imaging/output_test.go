package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/ditherpunk/internal/dither"
)

func TestNormalizeFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"png", "png", false},
		{".PNG", "png", false},
		{"jpeg", "jpg", false},
		{".jpg", "jpg", false},
		{"tif", "tiff", false},
		{"qoi", "qoi", false},
		{"bmp", "bmp", false},
		{"gif", "gif", false},
		{"webp", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("NormalizeFormat(%q): error %v should wrap ErrUnsupportedFormat", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("NormalizeFormat(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		dir    string
		stem   string
		algo   string
		ext    string
		labels []string
		want   string
	}{
		{"two colours", "static/img", "iut", "monochrome", "jpg", []string{"red", "blue"}, filepath.Join("static/img", "iut_monochrome_red_blue.jpg")},
		{"no labels", "out", "photo", "simple-diffusion", ".png", nil, filepath.Join("out", "photo_simple-diffusion.png")},
		{"empty label skipped", "", "a", "ordered", "png", []string{"", "o3"}, "a_ordered_o3.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputPath(tt.dir, tt.stem, tt.algo, tt.ext, tt.labels...); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStem(t *testing.T) {
	if got := Stem("/photos/holiday.final.jpeg"); got != "holiday.final" {
		t.Errorf("got %q, want holiday.final", got)
	}
}

func TestSave_LosslessRoundTrip(t *testing.T) {
	buf := dither.NewBuffer(6, 4)
	buf.Fill(dither.White)
	buf.Set(1, 1, dither.Black)
	buf.Set(4, 2, dither.Pixel{R: 160, G: 82, B: 45})
	want := buf.Image()

	for _, ext := range []string{"png", "bmp", "tiff", "qoi"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "dir", "out."+ext)
			if err := Save(path, want, 0); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			got, err := NewImageCache().Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if diff := cmp.Diff(dither.FromImage(want), dither.FromImage(got), cmp.AllowUnexported(dither.Buffer{})); diff != "" {
				t.Errorf("pixels changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSave_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.webp")
	err := Save(path, createInMemoryImage(2, 2, color.White), 0)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("no file should be created for an unsupported format")
	}
}

func TestEncode_JPEGQuality(t *testing.T) {
	img := createPatternImage(32, 32)

	var low, high bytes.Buffer
	if err := Encode(&low, img, "jpg", 10); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if err := Encode(&high, img, "jpeg", 100); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if low.Len() >= high.Len() {
		t.Errorf("quality 10 (%d bytes) should be smaller than quality 100 (%d bytes)", low.Len(), high.Len())
	}
}

func TestEncodeBase64PNG(t *testing.T) {
	img := createPatternImage(8, 6)

	encoded, err := EncodeBase64PNG(img)
	if err != nil {
		t.Fatalf("EncodeBase64PNG failed: %v", err)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid png: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("got %dx%d, want 8x6", b.Dx(), b.Dy())
	}
}
