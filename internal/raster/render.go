package raster

import (
	"log/slog"
	"sync"
)

// TileSize is the edge length, in pixels, of the square screen tiles that
// RenderTiled composites independently.
const TileSize = 64

// Stats summarises one render call.
type Stats struct {
	Triangles int // complete vertex triples rasterized
	Leftover  int // trailing vertices that did not form a triangle
	Empty     int // triangles that produced no fragments inside the buffer
	Fragments int // fragments generated inside the buffer
	Written   int // fragments that passed the depth test
}

func (s Stats) logAttrs() []any {
	return []any{
		slog.Int("triangles", s.Triangles),
		slog.Int("leftover", s.Leftover),
		slog.Int("empty", s.Empty),
		slog.Int("fragments", s.Fragments),
		slog.Int("written", s.Written),
	}
}

// Render draws vertices into fb, three consecutive vertices per triangle, in
// input order. A trailing group of fewer than three vertices is skipped. The
// caller clears fb beforehand; Render only adds to it.
func Render(fb *FrameBuffer, vertices []Vertex, u Uniforms) Stats {
	transformed := TransformVertices(vertices, u)
	st := Stats{
		Triangles: len(transformed) / 3,
		Leftover:  len(transformed) % 3,
	}

	clip := fb.Bounds()
	var frags []Fragment
	for i := 0; i+2 < len(transformed); i += 3 {
		frags = appendTriangle(frags[:0], clip, transformed[i], transformed[i+1], transformed[i+2])
		if len(frags) == 0 {
			st.Empty++
			continue
		}
		st.Fragments += len(frags)
		st.Written += fb.CompositeAll(frags)
	}

	Logger().Debug("raster: render", st.logAttrs()...)
	return st
}

// RenderTiled produces the same pixels as Render using up to workers
// goroutines. Triangles are rasterized in parallel into private fragment
// lists, fragments are binned by TileSize tile in triangle order, and each
// tile is composited by a single goroutine, so the depth test sees the same
// per-pixel sequence as the sequential path.
func RenderTiled(fb *FrameBuffer, vertices []Vertex, u Uniforms, workers int) Stats {
	if workers <= 1 {
		return Render(fb, vertices, u)
	}

	transformed := TransformVertices(vertices, u)
	n := len(transformed) / 3
	st := Stats{
		Triangles: n,
		Leftover:  len(transformed) % 3,
	}

	clip := fb.Bounds()
	perTri := make([][]Fragment, n)
	parallelFor(n, workers, func(t int) {
		i := t * 3
		perTri[t] = appendTriangle(nil, clip, transformed[i], transformed[i+1], transformed[i+2])
	})

	tilesX := (fb.Width + TileSize - 1) / TileSize
	tilesY := (fb.Height + TileSize - 1) / TileSize
	bins := make([][]Fragment, tilesX*tilesY)
	for _, frags := range perTri {
		if len(frags) == 0 {
			st.Empty++
			continue
		}
		st.Fragments += len(frags)
		for _, f := range frags {
			t := (f.Y/TileSize)*tilesX + f.X/TileSize
			bins[t] = append(bins[t], f)
		}
	}

	written := make([]int, len(bins))
	parallelFor(len(bins), workers, func(t int) {
		written[t] = fb.CompositeAll(bins[t])
	})
	for _, w := range written {
		st.Written += w
	}

	Logger().Debug("raster: render tiled", append(st.logAttrs(), slog.Int("workers", workers), slog.Int("tiles", len(bins)))...)
	return st
}

// parallelFor calls fn(i) for every i in [0, n) from a pool of workers and
// returns once all calls have finished.
func parallelFor(n, workers int, fn func(i int)) {
	if n == 0 {
		return
	}
	if workers > n {
		workers = n
	}

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}
