package mesh

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"flatraster/internal/mathutil"
	"flatraster/internal/raster"
)

// LoadGLTF reads every triangle primitive of a .gltf or .glb file. Node
// transforms are not applied: primitives are taken in mesh-local space.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: open %s: %w", path, err)
	}

	m, err := fromGLTF(doc)
	if err != nil {
		return nil, fmt.Errorf("mesh: read %s: %w", path, err)
	}
	m.Name = stem(path)
	return m, nil
}

func fromGLTF(doc *gltf.Document) (*Mesh, error) {
	var m Mesh
	for mi, gm := range doc.Meshes {
		for pi, p := range gm.Primitives {
			if p.Mode != gltf.PrimitiveTriangles {
				raster.Logger().Debug("mesh: skipping non-triangle primitive", "mesh", mi, "primitive", pi)
				continue
			}
			verts, err := primitiveVertices(doc, p)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			m.Vertices = append(m.Vertices, verts...)
		}
	}
	return &m, nil
}

// primitiveVertices expands one indexed primitive into a flat vertex list.
func primitiveVertices(doc *gltf.Document, p *gltf.Primitive) ([]raster.Vertex, error) {
	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	acc, err := accessor(doc, posIdx)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	positions, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := p.Attributes[gltf.NORMAL]; ok {
		if acc, err = accessor(doc, idx); err == nil {
			normals, err = modeler.ReadNormal(doc, acc, nil)
		}
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}

	var uvs [][2]float32
	if idx, ok := p.Attributes[gltf.TEXCOORD_0]; ok {
		if acc, err = accessor(doc, idx); err == nil {
			uvs, err = modeler.ReadTextureCoord(doc, acc, nil)
		}
		if err != nil {
			return nil, fmt.Errorf("texcoords: %w", err)
		}
	}

	var indices []uint32
	if p.Indices != nil {
		if acc, err = accessor(doc, *p.Indices); err == nil {
			indices, err = modeler.ReadIndices(doc, acc, nil)
		}
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	n := len(indices) - len(indices)%3
	out := make([]raster.Vertex, 0, n)
	for _, i := range indices[:n] {
		if int(i) >= len(positions) {
			return nil, fmt.Errorf("index %d out of range (have %d positions)", i, len(positions))
		}
		var (
			normal mathutil.Vec3
			uv     mathutil.Vec2
		)
		if int(i) < len(normals) {
			normal = normals[i]
		}
		if int(i) < len(uvs) {
			uv = uvs[i]
		}
		out = append(out, raster.NewVertex(positions[i], normal, uv))
	}
	return out, nil
}

// accessor looks up an accessor reference, which gltf.Open does not
// validate.
func accessor(doc *gltf.Document, i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range (have %d)", i, len(doc.Accessors))
	}
	return doc.Accessors[i], nil
}
