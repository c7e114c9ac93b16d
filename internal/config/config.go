package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"flatraster/internal/output"
	"flatraster/internal/raster"
)

// Config holds input/output paths and render settings.
type Config struct {
	// Paths
	Input     string `json:"input"` // mesh file or directory of meshes
	OutputDir string `json:"output_dir"`
	Format    string `json:"format"`

	// Render settings
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	Background  [3]float32 `json:"background"`
	FillRatio   float32    `json:"fill_ratio"`
	KeepZ       bool       `json:"keep_z"` // skip the load-time Z flip
	Supersample int        `json:"supersample"`
	Workers     int        `json:"workers"`      // meshes rendered concurrently
	TileWorkers int        `json:"tile_workers"` // goroutines per frame, 1 = sequential
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Input       string
	OutputDir   string
	Format      string
	Width       int
	Height      int
	Supersample int
	Workers     int
	TileWorkers int
}

// Resolve applies CLI overrides and fills empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Input != "" {
		c.Input = flags.Input
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.TileWorkers > 0 {
		c.TileWorkers = flags.TileWorkers
	}

	if c.OutputDir == "" {
		c.OutputDir = defaultOutputDir(c.Input)
	}
	if c.Format == "" {
		c.Format = string(output.PNG)
	}
	if c.Width <= 0 {
		c.Width = 512
	}
	if c.Height <= 0 {
		c.Height = c.Width
	}
	if c.FillRatio <= 0 || c.FillRatio > 1 {
		c.FillRatio = 0.8
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.TileWorkers <= 0 {
		c.TileWorkers = 1
	}
}

// Validate reports settings Resolve cannot repair.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("config: no input mesh or directory")
	}
	if _, err := output.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// BackgroundColor returns the clear color.
func (c *Config) BackgroundColor() raster.Color {
	return raster.Color{R: c.Background[0], G: c.Background[1], B: c.Background[2]}
}

// defaultOutputDir puts renders next to the input: <dir>/renders.
func defaultOutputDir(input string) string {
	if input == "" {
		return "renders"
	}
	if info, err := os.Stat(input); err == nil && info.IsDir() {
		return filepath.Join(input, "renders")
	}
	return filepath.Join(filepath.Dir(input), "renders")
}
