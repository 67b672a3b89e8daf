package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{EnvLogLevel, EnvOutputDir, EnvOutputFormat, EnvJPEGQuality, EnvMaxPreview, EnvPreview} {
		t.Setenv(key, "")
	}

	if diff := cmp.Diff(Default(), FromEnv()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvOutputDir, "/tmp/dithered")
	t.Setenv(EnvOutputFormat, ".JPG")
	t.Setenv(EnvJPEGQuality, "80")
	t.Setenv(EnvMaxPreview, "256")
	t.Setenv(EnvPreview, "on")

	want := Config{
		LogLevel:     "debug",
		OutputDir:    "/tmp/dithered",
		OutputFormat: "jpg",
		JPEGQuality:  80,
		MaxPreview:   256,
		Preview:      true,
	}
	if diff := cmp.Diff(want, FromEnv()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFromEnv_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv(EnvJPEGQuality, "250")
	t.Setenv(EnvMaxPreview, "-3")

	cfg := FromEnv()
	if cfg.JPEGQuality != 95 {
		t.Errorf("JPEGQuality: got %d, want 95", cfg.JPEGQuality)
	}
	if cfg.MaxPreview != 512 {
		t.Errorf("MaxPreview: got %d, want 512", cfg.MaxPreview)
	}
}

func TestGet_FileFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir.txt")
	if err := os.WriteFile(path, []byte("  /data/out \n"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	t.Setenv("DITHERPUNK_TEST_DIR", "")
	t.Setenv("DITHERPUNK_TEST_DIR_FILE", path)

	if got := Get("DITHERPUNK_TEST_DIR", "fallback"); got != "/data/out" {
		t.Errorf("got %q, want /data/out", got)
	}
}

func TestGetBool(t *testing.T) {
	tests := []struct {
		val  string
		def  bool
		want bool
	}{
		{"yes", false, true},
		{"T", false, true},
		{"0", true, false},
		{"no", true, false},
		{"OFF", true, false},
		{"True", false, true},
		{"maybe", true, true},
		{"", false, false},
	}
	for _, tt := range tests {
		t.Setenv("DITHERPUNK_TEST_BOOL", tt.val)
		if got := GetBool("DITHERPUNK_TEST_BOOL", tt.def); got != tt.want {
			t.Errorf("GetBool(%q, %v): got %v, want %v", tt.val, tt.def, got, tt.want)
		}
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("DITHERPUNK_OUTPUT_FORMAT=qoi\n"), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Setenv(EnvOutputFormat, "")
	os.Unsetenv(EnvOutputFormat)

	cfg := Load(path)
	if cfg.OutputFormat != "qoi" {
		t.Errorf("OutputFormat: got %q, want qoi", cfg.OutputFormat)
	}
}
