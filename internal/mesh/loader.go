package mesh

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("mesh: unsupported format")

// Load reads an OBJ, glTF or GLB file into a flat vertex list.
func Load(path string, opts Options) (*Mesh, error) {
	var (
		m   *Mesh
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		m, err = LoadOBJ(path)
	case ".gltf", ".glb":
		m, err = LoadGLTF(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, err
	}

	opts.apply(m)
	return m, nil
}

// IsMeshFile reports whether path has an extension Load understands.
func IsMeshFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj", ".gltf", ".glb":
		return true
	}
	return false
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
