package scan

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chamlis/patchup/pkg/mesh"
)

// Fracture simulates a break: it returns a copy of the mesh with every
// face whose centroid lies within radius of center removed. Knocking faces
// out of a watertight surface leaves an open boundary loop for the repair
// engine to find. The input mesh is not modified.
func Fracture(m *mesh.Mesh, center v3.Vec, radius float64) *mesh.Mesh {
	out := &mesh.Mesh{
		Vertices: append([]v3.Vec(nil), m.Vertices...),
	}
	for _, f := range m.Faces {
		c := m.Vertices[f[0]].
			Add(m.Vertices[f[1]]).
			Add(m.Vertices[f[2]]).
			DivScalar(3)
		if c.Sub(center).Length() <= radius {
			continue
		}
		out.Faces = append(out.Faces, f)
	}
	return out
}
