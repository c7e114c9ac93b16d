package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"flatraster/internal/batch"
	"flatraster/internal/config"
	"flatraster/internal/mesh"
	"flatraster/internal/output"
	"flatraster/internal/raster"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	input := flag.String("input", "", "Mesh file (.obj, .gltf, .glb) or directory of meshes")
	outputDir := flag.String("output", "", "Output directory (default: <input dir>/renders)")
	format := flag.String("format", "", "Image format: png, webp, tga, bmp (default: png)")
	width := flag.Int("width", 0, "Image width in pixels (default: 512)")
	height := flag.Int("height", 0, "Image height in pixels (default: width)")
	supersample := flag.Int("supersample", 0, "Render at N× and downscale (default: 1)")
	workers := flag.Int("workers", 0, "Meshes rendered concurrently (default: NumCPU)")
	tileWorkers := flag.Int("tile-workers", 0, "Goroutines per frame, 1 = sequential (default: 1)")
	verbose := flag.Bool("v", false, "Log per-render statistics")

	flag.Parse()

	if *verbose {
		raster.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	if *input == "" && flag.NArg() > 0 {
		*input = flag.Arg(0)
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Input:       *input,
		OutputDir:   *outputDir,
		Format:      *format,
		Width:       *width,
		Height:      *height,
		Supersample: *supersample,
		Workers:     *workers,
		TileWorkers: *tileWorkers,
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	imgFormat, _ := output.ParseFormat(cfg.Format)

	jobs, err := batch.Jobs(cfg.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(jobs) == 0 {
		fmt.Println("No meshes to render.")
		os.Exit(0)
	}

	fmt.Printf("Software rasterizer → %s\n", imgFormat)
	fmt.Printf("Meshes: %d, Size: %dx%d (x%d), Workers: %d, Tile workers: %d\n",
		len(jobs), cfg.Width, cfg.Height, cfg.Supersample, cfg.Workers, cfg.TileWorkers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		OutputDir:   cfg.OutputDir,
		Format:      imgFormat,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Supersample: cfg.Supersample,
		FillRatio:   cfg.FillRatio,
		Background:  cfg.BackgroundColor(),
		MeshOptions: mesh.Options{FlipZ: !cfg.KeepZ},
		Workers:     cfg.Workers,
		TileWorkers: cfg.TileWorkers,
		Progress:    os.Stdout,
	}

	results := batch.Run(ctx, batchCfg, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(jobs))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
