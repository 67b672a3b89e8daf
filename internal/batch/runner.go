package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/ditherpunk/internal/config"
	"github.com/ironsheep/ditherpunk/internal/imaging"
	"github.com/ironsheep/ditherpunk/internal/logging"
	"github.com/ironsheep/ditherpunk/internal/pipeline"
)

// Result is the outcome of one job.
type Result struct {
	Index    int           `json:"index"`
	Name     string        `json:"name"`
	Output   string        `json:"output,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`

	// Tone is set for successful jobs.
	Tone *imaging.ToneResult `json:"tone,omitempty"`
}

// Report summarizes a run.
type Report struct {
	RunID     string   `json:"run_id"`
	Results   []Result `json:"results"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
}

// Err joins the errors of all failed jobs, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Error != "" {
			errs = append(errs, fmt.Errorf("job %d (%s): %s", res.Index, res.Name, res.Error))
		}
	}
	return errors.Join(errs...)
}

// Runner executes job files.
type Runner struct {
	cache  *imaging.ImageCache
	cfg    config.Config
	logger *slog.Logger
}

// NewRunner creates a runner using cfg for defaults. A nil logger uses the
// slog default.
func NewRunner(cfg config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.For(logging.ComponentBatch)
	}
	return &Runner{
		cache:  imaging.NewImageCache(),
		cfg:    cfg,
		logger: logger,
	}
}

// Run executes the jobs of f one after another.
//
// A failing job is recorded in the report and the run continues. The
// context is checked before each job; on cancellation Run returns the
// partial report together with the context error.
//
// Decoded inputs stay cached while later jobs still need them.
func (r *Runner) Run(ctx context.Context, f *File) (*Report, error) {
	report := &Report{RunID: uuid.New().String()}
	log := r.logger.With("run_id", report.RunID)

	file := *f
	f = &file
	if f.OutputDir == "" {
		// The configured directory is relative to the working directory,
		// not to the job file.
		dir, err := filepath.Abs(r.cfg.OutputDir)
		if err != nil {
			return report, fmt.Errorf("failed to resolve output directory: %w", err)
		}
		f.OutputDir = dir
	}
	if f.Format == "" {
		f.Format = r.cfg.OutputFormat
	}
	quality := r.cfg.JPEGQuality
	if f.JPEGQuality > 0 {
		quality = f.JPEGQuality
	}

	remaining := make(map[string]int)
	for _, j := range f.Jobs {
		remaining[f.resolve(j.Input)]++
	}

	log.Info("batch started", "jobs", len(f.Jobs), "output_dir", f.OutputDir)
	start := time.Now()

	for i, j := range f.Jobs {
		if err := ctx.Err(); err != nil {
			log.Warn("batch cancelled", "completed", i, "jobs", len(f.Jobs))
			return report, err
		}

		req := j.Request(f)
		jobStart := time.Now()
		res, err := pipeline.Run(r.cache, req, quality)

		result := Result{
			Index:    i + 1,
			Name:     j.Label(),
			Duration: time.Since(jobStart),
		}
		if err != nil {
			result.Error = err.Error()
			report.Failed++
			log.Error("job failed", "job", result.Index, "name", result.Name, "error", err)
		} else {
			result.Output = res.Output
			result.Tone = res.Tone
			report.Succeeded++
			log.Info("job finished",
				"job", result.Index,
				"name", result.Name,
				"output", res.Output,
				"algorithm", res.Algorithm,
				"delta_luma", res.Tone.Delta,
				"duration", result.Duration)
		}
		report.Results = append(report.Results, result)

		remaining[req.Input]--
		if remaining[req.Input] == 0 {
			r.cache.Evict(req.Input)
		}
	}

	log.Info("batch finished",
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"duration", time.Since(start))
	return report, nil
}
