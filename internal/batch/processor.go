package batch

import (
	"context"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"flatraster/internal/mesh"
	"flatraster/internal/output"
	"flatraster/internal/postprocess"
	"flatraster/internal/raster"
)

// Config holds all shared settings for a batch run.
type Config struct {
	OutputDir   string
	Format      output.Format
	Width       int
	Height      int
	Supersample int
	FillRatio   float32
	Background  raster.Color
	MeshOptions mesh.Options
	Workers     int       // meshes in flight
	TileWorkers int       // goroutines per frame
	Progress    io.Writer // periodic progress lines; nil disables them
}

// Job is one mesh file to render.
type Job struct {
	Name     string // output name relative to OutputDir, without extension
	MeshPath string
}

// Result holds the outcome of processing one job.
type Result struct {
	Name      string
	MeshPath  string
	Image     string // path relative to OutputDir
	Triangles int
	Fragments int
	Written   int
	Elapsed   time.Duration
	Success   bool
	Error     string
}

// Jobs expands input into render jobs. A file yields one job; a directory
// yields one job per mesh file beneath it, in lexical order, named by its
// path relative to input.
func Jobs(input string) ([]Job, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("batch: stat %s: %w", input, err)
	}
	if !info.IsDir() {
		if !mesh.IsMeshFile(input) {
			return nil, fmt.Errorf("batch: %w: %s", mesh.ErrUnsupportedFormat, input)
		}
		return []Job{{Name: trimExt(filepath.Base(input)), MeshPath: input}}, nil
	}

	var jobs []Job
	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !mesh.IsMeshFile(path) {
			return nil
		}
		rel, err := filepath.Rel(input, path)
		if err != nil {
			return err
		}
		jobs = append(jobs, Job{Name: trimExt(filepath.ToSlash(rel)), MeshPath: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", input, err)
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })
	return jobs, nil
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Run processes all jobs using a worker pool. Jobs not yet started when ctx
// is cancelled are reported as failed with the context error.
func Run(ctx context.Context, cfg Config, jobs []Job) []Result {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress != nil {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						rate := float64(p) / elapsed
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f meshes/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	// Worker pool
	jobChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				if err := ctx.Err(); err != nil {
					results[idx] = failed(jobs[idx], err)
				} else {
					results[idx] = processJob(cfg, jobs[idx])
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func failed(job Job, err error) Result {
	return Result{
		Name:     job.Name,
		MeshPath: job.MeshPath,
		Error:    err.Error(),
	}
}

// RenderMesh rasterizes m into a fresh frame of cfg.Width×cfg.Height,
// supersampling and downscaling when cfg.Supersample > 1.
func RenderMesh(cfg Config, m *mesh.Mesh) (*image.NRGBA, raster.Stats) {
	ss := cfg.Supersample
	if ss < 1 {
		ss = 1
	}
	w, h := cfg.Width*ss, cfg.Height*ss

	fb := raster.NewFrameBuffer(w, h)
	fb.Clear(cfg.Background)
	st := raster.RenderTiled(fb, m.Vertices, m.Fit(w, h, cfg.FillRatio), cfg.TileWorkers)

	img := fb.Image()
	if ss > 1 {
		img = postprocess.Downsample(img, cfg.Width, cfg.Height)
	}
	return img, st
}

func processJob(cfg Config, job Job) Result {
	start := time.Now()

	m, err := mesh.Load(job.MeshPath, cfg.MeshOptions)
	if err != nil {
		return failed(job, err)
	}
	if m.Triangles() == 0 {
		return failed(job, fmt.Errorf("no triangles in %s", job.MeshPath))
	}

	img, st := RenderMesh(cfg, m)

	rel := job.Name + cfg.Format.Ext()
	if err := output.WriteFile(filepath.Join(cfg.OutputDir, filepath.FromSlash(rel)), img, cfg.Format); err != nil {
		return failed(job, err)
	}

	raster.Logger().Info("batch: rendered", "mesh", job.MeshPath, "image", rel, "triangles", st.Triangles, "written", st.Written)

	return Result{
		Name:      job.Name,
		MeshPath:  job.MeshPath,
		Image:     rel,
		Triangles: st.Triangles,
		Fragments: st.Fragments,
		Written:   st.Written,
		Elapsed:   time.Since(start),
		Success:   true,
	}
}
