package patch

import (
	"fmt"
	"slices"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chamlis/patchup/pkg/boundary"
	"github.com/chamlis/patchup/pkg/mesh"
	"github.com/chamlis/patchup/pkg/triangulate"
)

const (
	// DedupTolerance collapses consecutive near-duplicate boundary points
	// before synthesis.
	DedupTolerance = 1.5e-4

	// minNormalLength rejects loops whose Newell normal vanishes.
	minNormalLength = 1e-9

	// minFaceArea drops degenerate triangles during face validation.
	minFaceArea = 1e-12

	// minRadialLength guards the radial-direction fallback.
	minRadialLength = 1e-9
)

// Result is the outcome of one successful generation call.
type Result struct {
	// Mesh is the synthesized closed-shell patch.
	Mesh *mesh.Mesh
	// LoopsDetected counts every boundary loop found in the source mesh.
	LoopsDetected int
	// BoundaryVertices is the vertex count of the loop actually used,
	// after cleanup.
	BoundaryVertices int
	// BoundaryPerimeter is the cleaned loop's perimeter in meters.
	BoundaryPerimeter float64
}

// synthesize builds the closed-shell patch from a boundary loop. The source
// mesh is read-only; all output is newly allocated.
func synthesize(m *mesh.Mesh, loop []int, prof Profile, loopsDetected int) (*Result, error) {
	loop = boundary.Simplify(loop, boundary.MaxLoopVertices)
	points := dedupRing(resolve(m, loop), DedupTolerance)
	if len(points) < 3 || len(points) < prof.MinBoundaryVertices {
		return nil, fmt.Errorf("%w: %d usable vertices, profile %q needs at least %d",
			ErrBoundaryTooSmall, len(points), prof.Name, max(3, prof.MinBoundaryVertices))
	}

	centroid := mesh.Centroid(points)
	normal := mesh.NewellNormal(points)
	if normal.Length() < minNormalLength {
		return nil, fmt.Errorf("%w: loop normal degenerated", ErrTriangulationFailed)
	}

	// Point the normal at the mesh interior so the tab is inserted, not
	// extruded. The mesh centroid stands in for "inside".
	normal = normal.Normalize()
	if normal.Dot(m.Centroid().Sub(centroid)) < 0 {
		normal = normal.MulScalar(-1)
	}

	// Counter-clockwise convention for triangulation.
	axisU, axisV := mesh.PlaneBasis(normal)
	if mesh.SignedArea(mesh.Project(points, centroid, axisU, axisV)) < 0 {
		slices.Reverse(points)
	}

	top := make([]v3.Vec, len(points))
	bottom := make([]v3.Vec, len(points))
	for i, p := range points {
		radial := radialDirection(p, centroid, normal, axisU)
		top[i] = p.Add(radial.MulScalar(prof.OverlapWidth))
		bottom[i] = p.Sub(radial.MulScalar(prof.InsertionClearance)).
			Add(normal.MulScalar(prof.InsertionDepth))
	}

	// Cap both ends: triangulate the projected top ring once, reuse the
	// triangles winding-reversed for the tab's far face.
	capTris, err := triangulate.EarClip(mesh.Project(top, centroid, axisU, axisV))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTriangulationFailed, err)
	}

	n := len(points)
	vertices := make([]v3.Vec, 0, 2*n)
	vertices = append(vertices, top...)
	vertices = append(vertices, bottom...)

	var faces [][3]int
	emit := func(a, b, c int) {
		if validFace(vertices, a, b, c) {
			faces = append(faces, [3]int{a, b, c})
		}
	}
	for _, tri := range capTris {
		emit(tri[0], tri[1], tri[2])
		emit(tri[0]+n, tri[2]+n, tri[1]+n)
	}
	// Skirt: two triangles per consecutive ring pair close the side wall.
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		emit(i, j, i+n)
		emit(j, j+n, i+n)
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("%w: no valid faces survived", ErrTriangulationFailed)
	}

	return &Result{
		Mesh:              &mesh.Mesh{Vertices: vertices, Faces: faces},
		LoopsDetected:     loopsDetected,
		BoundaryVertices:  n,
		BoundaryPerimeter: mesh.Perimeter(points),
	}, nil
}

// resolve maps loop indices to vertex positions.
func resolve(m *mesh.Mesh, loop []int) []v3.Vec {
	points := make([]v3.Vec, len(loop))
	for i, idx := range loop {
		points[i] = m.Vertices[idx]
	}
	return points
}

// dedupRing collapses consecutive near-duplicate points and drops a final
// point that nearly coincides with the first, closing the ring.
func dedupRing(points []v3.Vec, tol float64) []v3.Vec {
	var out []v3.Vec
	for _, p := range points {
		if len(out) > 0 && p.Sub(out[len(out)-1]).Length() <= tol {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && out[len(out)-1].Sub(out[0]).Length() <= tol {
		out = out[:len(out)-1]
	}
	return out
}

// radialDirection is the in-plane unit vector from the centroid through p.
// Falls back to the primary in-plane axis when p sits on the centroid axis.
func radialDirection(p, centroid, normal, axisU v3.Vec) v3.Vec {
	d := p.Sub(centroid)
	d = d.Sub(normal.MulScalar(d.Dot(normal)))
	if d.Length() < minRadialLength {
		return axisU
	}
	return d.Normalize()
}

// validFace requires pairwise distinct indices and non-degenerate area.
func validFace(vertices []v3.Vec, a, b, c int) bool {
	if a == b || b == c || c == a {
		return false
	}
	ab := vertices[b].Sub(vertices[a])
	ac := vertices[c].Sub(vertices[a])
	return ab.Cross(ac).Length()/2 > minFaceArea
}
