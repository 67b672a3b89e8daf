// Package config reads runtime settings from the environment.
//
// Values come from process environment variables, optionally seeded from a
// .env file. Every variable also accepts a KEY_FILE form pointing at a file
// whose trimmed contents are used, which keeps secrets-style mounts working.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvLogLevel     = "DITHERPUNK_LOG_LEVEL"
	EnvOutputDir    = "DITHERPUNK_OUTPUT_DIR"
	EnvOutputFormat = "DITHERPUNK_OUTPUT_FORMAT"
	EnvJPEGQuality  = "DITHERPUNK_JPEG_QUALITY"
	EnvMaxPreview   = "DITHERPUNK_MAX_PREVIEW"
	EnvPreview      = "DITHERPUNK_PREVIEW"
)

// Config holds the settings shared by the server and the batch runner.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// OutputDir is where dithered images are written when a request does
	// not name an explicit output path.
	OutputDir string

	// OutputFormat is the default file extension for outputs (png, jpg,
	// gif, bmp, tiff, qoi).
	OutputFormat string

	// JPEGQuality is used when encoding JPEG outputs (1-100).
	JPEGQuality int

	// MaxPreview bounds the longest side of base64 previews in pixels.
	MaxPreview int

	// Preview makes dither_apply return a preview when the call does not
	// say include_preview either way.
	Preview bool
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:     "info",
		OutputDir:    "./out",
		OutputFormat: "png",
		JPEGQuality:  95,
		MaxPreview:   512,
	}
}

// Load reads .env files (default ".env" when none are given) without
// overriding variables already set, then returns FromEnv. A missing .env
// file is not an error.
func Load(envFiles ...string) Config {
	_ = godotenv.Load(envFiles...)
	return FromEnv()
}

// FromEnv builds a Config from the current environment on top of Default.
func FromEnv() Config {
	def := Default()
	cfg := Config{
		LogLevel:     strings.ToLower(Get(EnvLogLevel, def.LogLevel)),
		OutputDir:    Get(EnvOutputDir, def.OutputDir),
		OutputFormat: strings.TrimPrefix(strings.ToLower(Get(EnvOutputFormat, def.OutputFormat)), "."),
		JPEGQuality:  GetInt(EnvJPEGQuality, def.JPEGQuality),
		MaxPreview:   GetInt(EnvMaxPreview, def.MaxPreview),
		Preview:      GetBool(EnvPreview, def.Preview),
	}
	if cfg.JPEGQuality < 1 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = def.JPEGQuality
	}
	if cfg.MaxPreview <= 0 {
		cfg.MaxPreview = def.MaxPreview
	}
	return cfg
}

// Get returns the value of the environment variable `key` if set.
// If not set, and `key + "_FILE"` is set, the file at that path is read and
// its trimmed contents are returned. If neither are set, def is returned.
func Get(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if path := os.Getenv(key + "_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return def
}

// GetInt returns the integer value of the environment variable `key`.
// It parses the result of Get(key, ""). If parsing fails or the variable is
// unset, def is returned.
func GetInt(key string, def int) int {
	if val := Get(key, ""); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

// GetBool parses Get(key, "") with strconv.ParseBool, additionally
// accepting yes/no and on/off in any case. Unset or unparsable values
// return def.
func GetBool(key string, def bool) bool {
	val := strings.ToLower(Get(key, ""))
	switch val {
	case "":
		return def
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return def
}
