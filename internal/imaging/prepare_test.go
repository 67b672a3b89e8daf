package imaging

import (
	"image/color"
	"testing"
)

func TestPrepare_ZeroOptionsIsIdentity(t *testing.T) {
	img := createInMemoryImage(10, 10, color.Gray{Y: 90})

	got, err := Prepare(img, PrepareOptions{Gamma: 1})
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if got != img {
		t.Error("expected the input image to be returned unchanged")
	}
}

func TestPrepare_Resize(t *testing.T) {
	img := createInMemoryImage(100, 50, color.Gray{Y: 90})

	tests := []struct {
		name         string
		opts         PrepareOptions
		wantW, wantH int
	}{
		{"width bound", PrepareOptions{MaxWidth: 40}, 40, 20},
		{"height bound", PrepareOptions{MaxHeight: 10}, 20, 10},
		{"both bounds", PrepareOptions{MaxWidth: 50, MaxHeight: 50}, 50, 25},
		{"no upscale", PrepareOptions{MaxWidth: 400}, 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Prepare(img, tt.opts)
			if err != nil {
				t.Fatalf("Prepare failed: %v", err)
			}
			b := got.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestPrepare_Adjustments(t *testing.T) {
	img := createInMemoryImage(4, 4, color.Gray{Y: 100})

	tests := []struct {
		name     string
		opts     PrepareOptions
		brighter bool
	}{
		{"gamma above one", PrepareOptions{Gamma: 2}, true},
		{"positive brightness", PrepareOptions{Brightness: 0.5}, true},
		{"negative brightness", PrepareOptions{Brightness: -0.5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Prepare(img, tt.opts)
			if err != nil {
				t.Fatalf("Prepare failed: %v", err)
			}
			r, _, _, _ := got.At(1, 1).RGBA()
			v := int(r >> 8)
			if tt.brighter && v <= 100 {
				t.Errorf("expected brighter than 100, got %d", v)
			}
			if !tt.brighter && v >= 100 {
				t.Errorf("expected darker than 100, got %d", v)
			}
		})
	}
}

func TestPrepareOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    PrepareOptions
		wantErr bool
	}{
		{"zero", PrepareOptions{}, false},
		{"full", PrepareOptions{MaxWidth: 10, MaxHeight: 10, Gamma: 1.8, Contrast: -0.2, Brightness: 0.1}, false},
		{"negative width", PrepareOptions{MaxWidth: -1}, true},
		{"negative gamma", PrepareOptions{Gamma: -0.5}, true},
		{"contrast too high", PrepareOptions{Contrast: 1.5}, true},
		{"brightness too low", PrepareOptions{Brightness: -2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if _, err := Prepare(createInMemoryImage(2, 2, color.White), tt.opts); err == nil {
					t.Error("Prepare should reject invalid options")
				}
			}
		})
	}
}

func TestThumbnail(t *testing.T) {
	img := createInMemoryImage(200, 100, color.White)

	got := Thumbnail(img, 50)
	if b := got.Bounds(); b.Dx() != 50 || b.Dy() != 25 {
		t.Errorf("got %dx%d, want 50x25", b.Dx(), b.Dy())
	}
	if Thumbnail(img, 500) != img {
		t.Error("small images should be returned unchanged")
	}
	if Thumbnail(img, 0) != img {
		t.Error("non-positive bound should disable scaling")
	}
}
