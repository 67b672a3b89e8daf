// Package pipeline runs one dithering request end to end: load the input,
// prepare it, resolve the colours, dither, save and measure the result.
//
// Both the MCP server and the batch runner go through Run, so a job file
// entry and a dither_apply tool call with the same fields produce the same
// file.
package pipeline

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"github.com/ironsheep/ditherpunk/internal/colors"
	"github.com/ironsheep/ditherpunk/internal/dither"
	"github.com/ironsheep/ditherpunk/internal/imaging"
)

// DefaultOrder is the Bayer order used when a request leaves it unset (4x4).
const DefaultOrder = 2

// DefaultFormat is the output format used when neither Format nor Output
// says otherwise.
const DefaultFormat = "png"

// ErrColorsNotAccepted is returned when colours are given to an algorithm
// that always renders black and white.
var ErrColorsNotAccepted = errors.New("algorithm does not accept colors")

// ErrTooManyColors is returned when monochrome is given more than its
// light and dark colour.
var ErrTooManyColors = errors.New("monochrome takes at most two colors")

// Request describes one dithering run.
type Request struct {
	// Input is the path of the source image.
	Input string `json:"input" yaml:"input"`

	// Output is an explicit output path. When empty the file is placed in
	// OutputDir and named by imaging.OutputPath.
	Output    string `json:"output,omitempty" yaml:"output,omitempty"`
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`

	// Format is the output format when Output is empty.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// Algorithm is any name accepted by dither.ParseAlgorithm.
	Algorithm string `json:"algorithm" yaml:"algorithm"`

	// Colors are colour names or hex codes for monochrome, quantize and
	// palette-diffusion. Monochrome takes the light colour first and at
	// most two colours; a single colour is paired with black.
	Colors []string `json:"colors,omitempty" yaml:"colors,omitempty"`

	// AutoPalette, when positive and Colors is empty, builds the palette
	// from that many dominant colours of the prepared input. Monochrome
	// always extracts two.
	AutoPalette int `json:"auto_palette,omitempty" yaml:"auto_palette,omitempty"`

	// Order is the Bayer order for ordered dithering; nil means DefaultOrder.
	Order *int `json:"order,omitempty" yaml:"order,omitempty"`

	// Kernel names the diffusion kernel for palette-diffusion; empty means
	// floyd-steinberg.
	Kernel string `json:"kernel,omitempty" yaml:"kernel,omitempty"`

	// Seed makes random dithering reproducible; zero seeds from the clock.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// Prepare is applied to the input before dithering.
	Prepare imaging.PrepareOptions `json:"prepare,omitempty" yaml:"-"`
}

// Result describes a finished run.
type Result struct {
	Output    string              `json:"output"`
	Algorithm dither.Algorithm    `json:"algorithm"`
	Kernel    string              `json:"kernel,omitempty"`
	Palette   []string            `json:"palette,omitempty"`
	Width     int                 `json:"width"`
	Height    int                 `json:"height"`
	Tone      *imaging.ToneResult `json:"tone"`

	// Image is the dithered image, kept for previews.
	Image image.Image `json:"-"`
}

// plan is a validated Request, ready to run.
type plan struct {
	opts       dither.Options
	kernelName string
	autoCount  int
	format     string
	labels     []string
}

func usesPalette(a dither.Algorithm) bool {
	switch a {
	case dither.AlgorithmMonochrome, dither.AlgorithmQuantize, dither.AlgorithmPaletteDiffusion:
		return true
	}
	return false
}

// Validate checks every name, colour and number in r without touching the
// file system.
func (r Request) Validate() error {
	_, err := r.plan()
	return err
}

func (r Request) plan() (*plan, error) {
	if r.Input == "" {
		return nil, fmt.Errorf("input path is required")
	}
	algo, err := dither.ParseAlgorithm(r.Algorithm)
	if err != nil {
		return nil, err
	}
	p := &plan{opts: dither.Options{Algorithm: algo}}

	if err := r.Prepare.Validate(); err != nil {
		return nil, err
	}

	p.format = DefaultFormat
	if r.Output != "" {
		p.format, err = imaging.NormalizeFormat(filepath.Ext(r.Output))
	} else if r.Format != "" {
		p.format, err = imaging.NormalizeFormat(r.Format)
	}
	if err != nil {
		return nil, err
	}

	if !usesPalette(algo) && (len(r.Colors) > 0 || r.AutoPalette > 0) {
		return nil, fmt.Errorf("%s: %w", algo, ErrColorsNotAccepted)
	}
	if algo == dither.AlgorithmMonochrome && len(r.Colors) > 2 {
		return nil, fmt.Errorf("got %d colors: %w", len(r.Colors), ErrTooManyColors)
	}
	if len(r.Colors) > 0 && r.AutoPalette > 0 {
		return nil, fmt.Errorf("colors and auto_palette are mutually exclusive")
	}
	if r.AutoPalette < 0 {
		return nil, fmt.Errorf("auto_palette must not be negative (got %d)", r.AutoPalette)
	}

	switch algo {
	case dither.AlgorithmOrdered:
		order := DefaultOrder
		if r.Order != nil {
			order = *r.Order
		}
		if order < 0 || order > dither.MaxBayerOrder {
			return nil, fmt.Errorf("order %d outside [0,%d]: %w", order, dither.MaxBayerOrder, dither.ErrInvalidOrder)
		}
		p.opts.Order = order
		p.labels = append(p.labels, fmt.Sprintf("o%d", order))

	case dither.AlgorithmRandom:
		p.opts.Seed = r.Seed
		if r.Seed != 0 {
			p.labels = append(p.labels, fmt.Sprintf("s%d", r.Seed))
		}

	case dither.AlgorithmPaletteDiffusion:
		name := r.Kernel
		if name == "" {
			name = dither.FloydSteinberg.Name
		}
		k, err := dither.KernelByName(name)
		if err != nil {
			return nil, err
		}
		p.opts.Kernel = k
		p.kernelName = k.Name
		p.labels = append(p.labels, k.Name)
	}

	if usesPalette(algo) {
		switch {
		case len(r.Colors) > 0:
			palette, err := colors.Resolve(r.Colors)
			if err != nil {
				return nil, err
			}
			if algo == dither.AlgorithmMonochrome && len(palette) == 1 {
				palette = append(palette, dither.Black)
			}
			p.opts.Palette = palette
		case r.AutoPalette > 0:
			p.autoCount = r.AutoPalette
			if algo == dither.AlgorithmMonochrome {
				p.autoCount = 2
			}
		default:
			p.opts.Palette = dither.Palette{dither.White, dither.Black}
		}
	}
	return p, nil
}

// Run executes r. Images are loaded through cache so repeated runs on the
// same input decode it once. jpegQuality applies to JPEG outputs.
func Run(cache *imaging.ImageCache, r Request, jpegQuality int) (*Result, error) {
	p, err := r.plan()
	if err != nil {
		return nil, err
	}

	src, err := cache.Load(r.Input)
	if err != nil {
		return nil, err
	}
	prepared, err := imaging.Prepare(src, r.Prepare)
	if err != nil {
		return nil, err
	}

	if p.autoCount > 0 {
		palette, err := imaging.DominantPalette(prepared, p.autoCount)
		if err != nil {
			return nil, fmt.Errorf("failed to extract palette: %w", err)
		}
		if p.opts.Algorithm == dither.AlgorithmMonochrome && len(palette) == 1 {
			palette = append(palette, dither.Black)
		}
		if len(palette) == 2 && dither.Luma(palette[1]) > dither.Luma(palette[0]) {
			palette[0], palette[1] = palette[1], palette[0]
		}
		p.opts.Palette = palette
	}

	buf := dither.FromImage(prepared)
	if err := dither.Apply(buf, p.opts); err != nil {
		return nil, err
	}
	out := buf.Image()

	labels := p.labels
	hexes := make([]string, 0, len(p.opts.Palette))
	for _, c := range p.opts.Palette {
		labels = append(labels, colors.Label(c))
		hexes = append(hexes, colors.Hex(c))
	}

	path := r.Output
	if path == "" {
		path = imaging.OutputPath(r.OutputDir, imaging.Stem(r.Input), p.opts.Algorithm.String(), p.format, labels...)
	}
	if err := imaging.Save(path, out, jpegQuality); err != nil {
		return nil, err
	}

	tone, err := imaging.CompareTone(prepared, out)
	if err != nil {
		return nil, err
	}

	return &Result{
		Output:    path,
		Algorithm: p.opts.Algorithm,
		Kernel:    p.kernelName,
		Palette:   hexes,
		Width:     buf.Width(),
		Height:    buf.Height(),
		Tone:      tone,
		Image:     out,
	}, nil
}
