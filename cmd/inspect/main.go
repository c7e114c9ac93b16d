package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chewxy/math32"

	"flatraster/internal/mesh"
	"flatraster/internal/raster"
)

func main() {
	keepZ := flag.Bool("keep-z", false, "Do not flip Z at load time")
	size := flag.Int("size", 512, "Viewport used for the coverage pass")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: inspect [-keep-z] [-size N] <mesh>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	m, err := mesh.Load(path, mesh.Options{FlipZ: !*keepZ})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Mesh %q: verts=%d, tris=%d, leftover=%d\n", m.Name, len(m.Vertices), m.Triangles(), len(m.Vertices)%3)
	lo, hi, ok := m.Bounds()
	if !ok {
		return
	}
	fmt.Printf("  BBox: X[%.3f, %.3f] Y[%.3f, %.3f] Z[%.3f, %.3f]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
	fmt.Printf("  Size: %.3f x %.3f x %.3f\n", hi[0]-lo[0], hi[1]-lo[1], hi[2]-lo[2])

	// Lighting as the rasterizer sees it: first vertex's normal per face.
	lit, dark, noNormal := 0, 0, 0
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		n := m.Vertices[i].Normal
		switch {
		case n.Len() == 0:
			noNormal++
		case raster.Intensity(n) > 0:
			lit++
		default:
			dark++
		}
	}
	fmt.Printf("  Faces: lit=%d, facing away=%d, no normal=%d\n", lit, dark, noNormal)

	// Coverage pass at the fitted transform.
	fb := raster.NewFrameBuffer(*size, *size)
	fb.Clear(raster.Black())
	st := raster.Render(fb, m.Vertices, m.Fit(*size, *size, 0.8))
	covered := 0
	for _, d := range fb.Depth {
		if !math32.IsInf(d, 1) {
			covered++
		}
	}
	fmt.Printf("  Raster %dx%d: fragments=%d, written=%d, empty tris=%d, covered px=%d (%.1f%%)\n",
		*size, *size, st.Fragments, st.Written, st.Empty, covered, 100*float64(covered)/float64(len(fb.Depth)))
}
