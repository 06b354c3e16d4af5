// Package mesh defines the triangle mesh value type shared by the repair
// engine. A Mesh is plain immutable data: the engine never mutates a
// caller-supplied mesh, it only reads it and allocates new output.
package mesh

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is an indexed triangle mesh. Vertices are positions in meters in a
// right-handed coordinate frame; each face is a triple of vertex indices
// with a winding order.
type Mesh struct {
	Vertices []v3.Vec
	Faces    [][3]int
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// IsEmpty reports whether the mesh has no usable geometry. A mesh is empty
// if either the vertex list or the face list is empty.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0 || len(m.Faces) == 0
}

// Centroid returns the average of all vertex positions. Returns the zero
// vector for a mesh with no vertices.
func (m *Mesh) Centroid() v3.Vec {
	if len(m.Vertices) == 0 {
		return v3.Vec{}
	}
	var sum v3.Vec
	for _, v := range m.Vertices {
		sum = sum.Add(v)
	}
	return sum.DivScalar(float64(len(m.Vertices)))
}

// Validate checks that every face index references a valid vertex.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return fmt.Errorf("face %d references vertex %d, mesh has %d vertices", i, idx, n)
			}
		}
	}
	return nil
}
