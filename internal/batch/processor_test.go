package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flatraster/internal/mesh"
	"flatraster/internal/output"
	"flatraster/internal/raster"
)

const quadOBJ = `v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
`

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func testConfig(outDir string) Config {
	return Config{
		OutputDir:   outDir,
		Format:      output.PNG,
		Width:       32,
		Height:      32,
		Supersample: 1,
		FillRatio:   0.8,
		Background:  raster.Black(),
		MeshOptions: mesh.Options{FlipZ: true},
		Workers:     2,
		TileWorkers: 2,
	}
}

func TestJobs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.obj"), quadOBJ)
	writeFile(t, filepath.Join(dir, "sub", "a.obj"), quadOBJ)
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	jobs, err := Jobs(dir)
	if err != nil {
		t.Fatalf("Jobs: %v", err)
	}
	if len(jobs) != 2 || jobs[0].Name != "b" || jobs[1].Name != "sub/a" {
		t.Fatalf("Jobs = %+v, want [b sub/a]", jobs)
	}

	single, err := Jobs(filepath.Join(dir, "b.obj"))
	if err != nil || len(single) != 1 || single[0].Name != "b" {
		t.Errorf("Jobs(file) = %+v, %v", single, err)
	}

	if _, err := Jobs(filepath.Join(dir, "notes.txt")); err == nil {
		t.Error("Jobs should reject a non-mesh file")
	}
}

func TestRunRendersImages(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(in, "quad.obj"), quadOBJ)
	writeFile(t, filepath.Join(in, "sub", "quad2.obj"), quadOBJ)
	writeFile(t, filepath.Join(in, "empty.obj"), "# nothing\n")

	jobs, err := Jobs(in)
	if err != nil {
		t.Fatal(err)
	}
	results := Run(context.Background(), testConfig(out), jobs)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Name] = r
	}
	if r := byName["empty"]; r.Success || r.Error == "" {
		t.Errorf("empty mesh result = %+v, want failure", r)
	}

	for _, name := range []string{"quad", "sub/quad2"} {
		r := byName[name]
		if !r.Success {
			t.Fatalf("%s failed: %s", name, r.Error)
		}
		if r.Triangles != 2 || r.Written == 0 {
			t.Errorf("%s stats = %+v", name, r)
		}

		f, err := os.Open(filepath.Join(out, filepath.FromSlash(r.Image)))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("%s decode: %v", name, err)
		}
		cr, cg, cb, _ := img.At(16, 10).RGBA()
		if cr>>8 != 0x64 || cg>>8 != 0x64 || cb>>8 != 0x64 {
			t.Errorf("%s centre = %d,%d,%d; want lit gray 100", name, cr>>8, cg>>8, cb>>8)
		}
		if r, _, _, _ := img.At(0, 0).RGBA(); r != 0 {
			t.Errorf("%s corner should stay background", name)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	in := t.TempDir()
	writeFile(t, filepath.Join(in, "quad.obj"), quadOBJ)
	jobs, _ := Jobs(in)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := Run(ctx, testConfig(t.TempDir()), jobs)
	if results[0].Success || results[0].Error != context.Canceled.Error() {
		t.Errorf("cancelled result = %+v", results[0])
	}
}

func TestRenderMeshSupersample(t *testing.T) {
	m, err := mesh.ParseOBJ(strings.NewReader(quadOBJ))
	if err != nil {
		t.Fatal(err)
	}
	cfg := testConfig("")
	cfg.Supersample = 3
	img, st := RenderMesh(cfg, m)
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Errorf("bounds = %v, want 32x32", b)
	}
	if st.Triangles != 2 {
		t.Errorf("stats = %+v", st)
	}
}

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	results := []Result{
		{Name: "a", MeshPath: "in/a.obj", Image: "a.png", Triangles: 12, Written: 400, Success: true},
		{Name: "b", MeshPath: "in/b.obj", Error: "boom"},
	}
	if err := WriteManifest(path, results); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Pixels != 400 || entries[1].Error != "boom" || entries[1].Image != "" {
		t.Errorf("manifest = %+v", entries)
	}
}

func TestRunLogsThroughRasterLogger(t *testing.T) {
	var buf bytes.Buffer
	raster.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer raster.SetLogger(nil)

	in := t.TempDir()
	writeFile(t, filepath.Join(in, "quad.obj"), quadOBJ)
	jobs, err := Jobs(in)
	if err != nil {
		t.Fatal(err)
	}
	Run(context.Background(), testConfig(t.TempDir()), jobs)

	for _, want := range []string{"batch: rendered", "raster: render"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log output missing %q:\n%s", want, buf.String())
		}
	}
}
