// Package obj reads triangle meshes from the subset of the Wavefront OBJ
// format used by the viewer and derives per-vertex normals from faces.
//
// All buffers are flat: positions, normals and texture coordinates are
// sequences of float32 triples and faces are sequences of uint32 index
// triples, ready to be uploaded to a vertex/element buffer as-is.
package obj

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh holds the attribute buffers of one loaded model.
type Mesh struct {
	Positions []float32 // x,y,z per vertex, file order
	Faces     []uint32  // three zero-based vertex indices per triangle
	TexCoords []float32 // u,v,w per "vt" record, may be empty
	Normals   []float32 // x,y,z per vertex, computed
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	return len(m.Faces) / 3
}

// IndexCount returns the number of element indices to draw.
func (m *Mesh) IndexCount() int {
	return len(m.Faces)
}

// Empty reports whether there is nothing to draw.
func (m *Mesh) Empty() bool {
	return m == nil || len(m.Positions) == 0 || len(m.Faces) == 0
}

// Vertex returns the position of vertex i.
func (m *Mesh) Vertex(i int) mgl32.Vec3 {
	return vec3At(m.Positions, i)
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i int) mgl32.Vec3 {
	return vec3At(m.Normals, i)
}

// Bounds returns the axis-aligned bounding box of all positions.
// ok is false for a mesh without vertices.
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3, ok bool) {
	n := m.VertexCount()
	if n == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	lo = m.Vertex(0)
	hi = lo
	for i := 1; i < n; i++ {
		v := m.Vertex(i)
		for c := 0; c < 3; c++ {
			if v[c] < lo[c] {
				lo[c] = v[c]
			}
			if v[c] > hi[c] {
				hi[c] = v[c]
			}
		}
	}
	return lo, hi, true
}

// Validate checks the buffer invariants: flat lengths are multiples of
// three, there is one normal per vertex and every face index is in range.
func (m *Mesh) Validate() error {
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("positions length %d is not a multiple of 3", len(m.Positions))
	}
	if len(m.Faces)%3 != 0 {
		return fmt.Errorf("faces length %d is not a multiple of 3", len(m.Faces))
	}
	if len(m.TexCoords)%3 != 0 {
		return fmt.Errorf("texcoords length %d is not a multiple of 3", len(m.TexCoords))
	}
	if len(m.Normals) != len(m.Positions) {
		return fmt.Errorf("normals length %d, want %d", len(m.Normals), len(m.Positions))
	}
	n := uint32(m.VertexCount())
	for i, idx := range m.Faces {
		if idx >= n {
			return fmt.Errorf("face %d: %w: index %d, %d vertices", i/3, ErrIndexRange, idx, n)
		}
	}
	return nil
}

func vec3At(buf []float32, i int) mgl32.Vec3 {
	return mgl32.Vec3{buf[3*i], buf[3*i+1], buf[3*i+2]}
}
