// Package scan models the capture subsystem at its interface: something
// that delivers an already-assembled triangle mesh. The repair engine only
// ever sees the mesh. A synthetic sdfx-backed source stands in for the
// depth sensor in demos and tests.
package scan

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chamlis/patchup/pkg/mesh"
)

// Source delivers one assembled scan mesh.
type Source interface {
	Capture() (*mesh.Mesh, error)
}

// defaultCells controls marching cubes resolution for synthetic scans.
const defaultCells = 96

// Synthetic tessellates a solid into a welded scan-like mesh. It mimics
// what the sensor pipeline hands over: a closed surface in meters.
type Synthetic struct {
	Solid sdf.SDF3
	// Cells is the marching cubes resolution; zero means the default.
	Cells int
}

// Capture runs marching cubes over the solid and welds the triangle soup
// into an indexed mesh.
func (s *Synthetic) Capture() (*mesh.Mesh, error) {
	if s.Solid == nil {
		return nil, fmt.Errorf("scan: synthetic source has no solid")
	}
	cells := s.Cells
	if cells <= 0 {
		cells = defaultCells
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s.Solid, renderer)

	b := mesh.NewBuilder()
	for _, tri := range triangles {
		b.AddTriangle(tri[0], tri[1], tri[2])
	}
	m := b.Build()
	if m.IsEmpty() {
		return nil, fmt.Errorf("scan: tessellation produced no geometry")
	}
	return m, nil
}

// SphereScan returns a synthetic source for a sphere of the given radius
// (meters), centered at the origin.
func SphereScan(radius float64) (*Synthetic, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("scan: sphere: %w", err)
	}
	return &Synthetic{Solid: s}, nil
}

// BoxScan returns a synthetic source for a box with the given dimensions
// (meters), centered at the origin.
func BoxScan(x, y, z float64) (*Synthetic, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("scan: box: %w", err)
	}
	return &Synthetic{Solid: s}, nil
}
