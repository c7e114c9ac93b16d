package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"flatraster/internal/mathutil"
	"flatraster/internal/raster"
)

// LoadOBJ reads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: open %s: %w", path, err)
	}
	defer f.Close()

	m, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("mesh: parse %s: %w", path, err)
	}
	m.Name = stem(path)
	return m, nil
}

// objCorner is one v/vt/vn reference of a face, already resolved to
// zero-based indices; -1 means absent.
type objCorner struct {
	v, vt, vn int
}

// ParseOBJ reads OBJ text. Polygons are fan-triangulated and every face
// corner becomes its own vertex. Corners without a normal or texture
// coordinate get zero.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	var (
		positions []mathutil.Vec3
		normals   []mathutil.Vec3
		texcoords []mathutil.Vec2
		m         Mesh
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: v: %w", line, err)
			}
			positions = append(positions, mathutil.Vec3{p[0], p[1], p[2]})
		case "vn":
			n, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vn: %w", line, err)
			}
			normals = append(normals, mathutil.Vec3{n[0], n[1], n[2]})
		case "vt":
			// v is optional and defaults to 0.
			t, err := parseFloats(fields[1:], max(1, min(2, len(fields)-1)))
			if err != nil {
				return nil, fmt.Errorf("line %d: vt: %w", line, err)
			}
			uv := mathutil.Vec2{t[0]}
			if len(t) > 1 {
				uv[1] = t[1]
			}
			texcoords = append(texcoords, uv)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 corners, got %d", line, len(fields)-1)
			}
			corners := make([]objCorner, len(fields)-1)
			for i, ref := range fields[1:] {
				c, err := parseCorner(ref, len(positions), len(texcoords), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: f: %w", line, err)
				}
				corners[i] = c
			}
			for i := 1; i+1 < len(corners); i++ {
				for _, c := range [3]objCorner{corners[0], corners[i], corners[i+1]} {
					m.Vertices = append(m.Vertices, objVertex(c, positions, normals, texcoords))
				}
			}
		default:
			// o, g, s, usemtl, mtllib: grouping and materials are not used.
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

func objVertex(c objCorner, positions, normals []mathutil.Vec3, texcoords []mathutil.Vec2) raster.Vertex {
	var (
		n  mathutil.Vec3
		uv mathutil.Vec2
	)
	if c.vn >= 0 {
		n = normals[c.vn]
	}
	if c.vt >= 0 {
		uv = texcoords[c.vt]
	}
	return raster.NewVertex(positions[c.v], n, uv)
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseCorner resolves "v", "v/vt", "v//vn" or "v/vt/vn". Negative indices
// count back from the most recent element.
func parseCorner(ref string, nv, nvt, nvn int) (objCorner, error) {
	parts := strings.Split(ref, "/")
	if len(parts) > 3 {
		return objCorner{}, fmt.Errorf("bad corner %q", ref)
	}
	c := objCorner{v: -1, vt: -1, vn: -1}

	var err error
	if c.v, err = resolveIndex(parts[0], nv); err != nil {
		return objCorner{}, fmt.Errorf("corner %q: position: %w", ref, err)
	}
	if c.v < 0 {
		return objCorner{}, fmt.Errorf("corner %q: missing position", ref)
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.vt, err = resolveIndex(parts[1], nvt); err != nil {
			return objCorner{}, fmt.Errorf("corner %q: texcoord: %w", ref, err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.vn, err = resolveIndex(parts[2], nvn); err != nil {
			return objCorner{}, fmt.Errorf("corner %q: normal: %w", ref, err)
		}
	}
	return c, nil
}

func resolveIndex(s string, n int) (int, error) {
	if s == "" {
		return -1, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	}
	return 0, fmt.Errorf("index %d out of range (have %d)", i, n)
}
