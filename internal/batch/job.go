// Package batch runs dithering jobs described in a YAML file.
//
// A job file names an output directory and a list of jobs:
//
//	output_dir: ./out
//	jobs:
//	  - input: ./static/img/iut.jpg
//	    algorithm: monochrome
//	    colors: [red, blue]
//	    format: jpg
//	  - input: ./static/img/iut.jpg
//	    algorithm: palette-diffusion
//	    kernel: atkinson
//	    colors: [black, white, sienna]
//	    resize: {width: 640}
//
// Relative paths are resolved against the directory holding the job file.
package batch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/ditherpunk/internal/imaging"
	"github.com/ironsheep/ditherpunk/internal/pipeline"
)

// File is a parsed job file.
type File struct {
	// OutputDir is the default directory for job outputs.
	OutputDir string `yaml:"output_dir"`

	// Format is the default output format for jobs that do not set one.
	Format string `yaml:"format"`

	// JPEGQuality overrides the configured JPEG quality when set.
	JPEGQuality int `yaml:"jpeg_quality"`

	Jobs []Job `yaml:"jobs"`

	// baseDir anchors relative paths; empty for files built by Parse.
	baseDir string
}

// Resize bounds the input size before dithering.
type Resize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Job is one entry of a job file.
type Job struct {
	Name        string   `yaml:"name"`
	Input       string   `yaml:"input"`
	Output      string   `yaml:"output"`
	Algorithm   string   `yaml:"algorithm"`
	Colors      []string `yaml:"colors"`
	AutoPalette int      `yaml:"auto_palette"`
	Order       *int     `yaml:"order"`
	Kernel      string   `yaml:"kernel"`
	Seed        uint64   `yaml:"seed"`
	Format      string   `yaml:"format"`
	Resize      Resize   `yaml:"resize"`
	Gamma       float64  `yaml:"gamma"`
	Contrast    float64  `yaml:"contrast"`
	Brightness  float64  `yaml:"brightness"`
}

// Label identifies the job in logs and reports: its name, or its input.
func (j Job) Label() string {
	if j.Name != "" {
		return j.Name
	}
	return j.Input
}

// Request converts the job into a pipeline request. Unset output directory
// and format fall back to the file level values.
func (j Job) Request(f *File) pipeline.Request {
	req := pipeline.Request{
		Input:       f.resolve(j.Input),
		Output:      f.resolve(j.Output),
		OutputDir:   f.resolve(f.OutputDir),
		Format:      j.Format,
		Algorithm:   j.Algorithm,
		Colors:      j.Colors,
		AutoPalette: j.AutoPalette,
		Order:       j.Order,
		Kernel:      j.Kernel,
		Seed:        j.Seed,
		Prepare: imaging.PrepareOptions{
			MaxWidth:   j.Resize.Width,
			MaxHeight:  j.Resize.Height,
			Gamma:      j.Gamma,
			Contrast:   j.Contrast,
			Brightness: j.Brightness,
		},
	}
	if req.Format == "" {
		req.Format = f.Format
	}
	return req
}

// Validate checks the job without reading its input.
func (j Job) Validate() error {
	return j.Request(&File{}).Validate()
}

// Validate checks that the file has jobs and that every job is valid. All
// job errors are reported together.
func (f *File) Validate() error {
	if len(f.Jobs) == 0 {
		return errors.New("job file has no jobs")
	}
	if f.JPEGQuality < 0 || f.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be within [1, 100] (got %d)", f.JPEGQuality)
	}
	var errs []error
	for i, j := range f.Jobs {
		if err := j.Request(f).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("job %d (%s): %w", i+1, j.Label(), err))
		}
	}
	return errors.Join(errs...)
}

func (f *File) resolve(path string) string {
	if path == "" || f.baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(f.baseDir, path)
}

// Parse decodes and validates a job file. Unknown keys are rejected so
// typos do not silently fall back to defaults.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("job file is empty")
		}
		return nil, fmt.Errorf("failed to parse job file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and parses the job file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.baseDir = filepath.Dir(path)
	return f, nil
}
