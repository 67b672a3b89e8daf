package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/ditherpunk/internal/batch"
	"github.com/ironsheep/ditherpunk/internal/config"
	"github.com/ironsheep/ditherpunk/internal/logging"
	"github.com/ironsheep/ditherpunk/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("ditherpunk %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "batch":
			if len(os.Args) != 3 {
				fmt.Fprintln(os.Stderr, "usage: ditherpunk batch <jobs.yaml>")
				os.Exit(2)
			}
			os.Exit(runBatch(os.Args[2]))
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q (see --help)\n", os.Args[1])
			os.Exit(2)
		}
	}

	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel).With("component", logging.ComponentStartup)
	logger.Debug("starting MCP server",
		"version", Version,
		"build_time", BuildTime,
		"commit", GitCommit,
		"output_dir", cfg.OutputDir)

	srv := server.New(cfg, Version)
	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// runBatch executes a job file and prints the report as JSON on stdout.
// It returns the process exit code.
func runBatch(path string) int {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	logger := logging.For(logging.ComponentBatch)

	file, err := batch.Load(path)
	if err != nil {
		logger.Error("invalid job file", "path", path, "error", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := batch.NewRunner(cfg, logger).Run(ctx, file)
	if report != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil {
			logger.Error("failed to write report", "error", encErr)
		}
	}
	if err != nil {
		logger.Error("batch interrupted", "error", err)
		return 130
	}
	if err := report.Err(); err != nil {
		return 1
	}
	return 0
}

func printHelp() {
	fmt.Println("ditherpunk - image dithering engine and MCP server")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ditherpunk                     Run the MCP server on stdin/stdout")
	fmt.Println("  ditherpunk batch <jobs.yaml>   Run the jobs of a YAML file")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from .env, KEY_FILE variants accepted):")
	fmt.Printf("  %-26s debug, info, warn or error (default info)\n", config.EnvLogLevel)
	fmt.Printf("  %-26s output directory (default ./out)\n", config.EnvOutputDir)
	fmt.Printf("  %-26s png, jpg, gif, bmp, tiff or qoi (default png)\n", config.EnvOutputFormat)
	fmt.Printf("  %-26s JPEG quality 1-100 (default 95)\n", config.EnvJPEGQuality)
	fmt.Printf("  %-26s longest preview side in pixels (default 512)\n", config.EnvMaxPreview)
	fmt.Printf("  %-26s return previews unless a call opts out (default false)\n", config.EnvPreview)
	fmt.Println()
	fmt.Println("Algorithms: monochrome, quantize, random, ordered, simple-diffusion, palette-diffusion")
}
