package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"flatraster/internal/config"
	"flatraster/internal/mesh"
	"flatraster/internal/raster"
)

// pulse is the zoom range the preview breathes through, as a factor of the
// configured fill ratio.
const (
	pulseMin    = 0.85
	pulseMax    = 1.0
	pulseLength = 1.5 // seconds per half cycle
)

// viewer renders the mesh with the software pipeline every frame and blits
// the packed framebuffer to the window.
type viewer struct {
	mesh        *mesh.Mesh
	fb          *raster.FrameBuffer
	pix         []byte
	background  raster.Color
	fill        float32
	tileWorkers int

	zoom    *gween.Tween
	scale   float32
	growing bool
	stats   raster.Stats
}

func newViewer(m *mesh.Mesh, cfg config.Config) *viewer {
	fb := raster.NewFrameBuffer(cfg.Width, cfg.Height)
	return &viewer{
		mesh:        m,
		fb:          fb,
		pix:         make([]byte, cfg.Width*cfg.Height*4),
		background:  cfg.BackgroundColor(),
		fill:        cfg.FillRatio,
		tileWorkers: cfg.TileWorkers,
		zoom:        gween.New(pulseMin, pulseMax, pulseLength, ease.InOutSine),
		scale:       pulseMin,
		growing:     true,
	}
}

func (v *viewer) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsKeyPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	scale, done := v.zoom.Update(1 / float32(ebiten.TPS()))
	v.scale = scale
	if done {
		v.growing = !v.growing
		if v.growing {
			v.zoom = gween.New(pulseMin, pulseMax, pulseLength, ease.InOutSine)
		} else {
			v.zoom = gween.New(pulseMax, pulseMin, pulseLength, ease.InOutSine)
		}
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	v.fb.Clear(v.background)
	u := v.mesh.Fit(v.fb.Width, v.fb.Height, v.fill*v.scale)
	v.stats = raster.RenderTiled(v.fb, v.mesh.Vertices, u, v.tileWorkers)

	v.fb.CopyRGBA(v.pix)
	screen.WritePixels(v.pix)

	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  tris=%d  frags=%d  written=%d  fps=%.0f",
		v.mesh.Name, v.stats.Triangles, v.stats.Fragments, v.stats.Written, ebiten.ActualFPS()))
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return v.fb.Width, v.fb.Height
}

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	width := flag.Int("width", 0, "Framebuffer width (default: 512)")
	height := flag.Int("height", 0, "Framebuffer height (default: width)")
	tileWorkers := flag.Int("tile-workers", 0, "Goroutines per frame (default: 1)")
	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		Input:       flag.Arg(0),
		Width:       *width,
		Height:      *height,
		TileWorkers: *tileWorkers,
	})
	if cfg.Input == "" {
		fmt.Fprintln(os.Stderr, "usage: preview [flags] <mesh>")
		os.Exit(2)
	}

	m, err := mesh.Load(cfg.Input, mesh.Options{FlipZ: !cfg.KeepZ})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("flatraster preview: " + m.Name)
	if err := ebiten.RunGame(newViewer(m, cfg)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
