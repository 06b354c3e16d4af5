package boundary

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chamlis/patchup/pkg/mesh"
)

// Scoring thresholds. Loops failing any of them are rejected as degenerate
// rather than scored low, so they never surface as candidates.
const (
	// MinPerimeter rejects sliver loops (units are meters).
	MinPerimeter = 0.01
	// MinNormalLength rejects loops whose Newell normal vanishes
	// (zero-area or wildly non-planar chains).
	MinNormalLength = 1e-4
	// MinProjectedArea rejects loops whose planar projection collapses.
	MinProjectedArea = 1e-6
)

// scoreWeightBase is the floor added to compactness when weighting area, so
// area dominates and roundness acts as a secondary tiebreaker.
const scoreWeightBase = 0.45

// loopMetrics carries the measurements of one accepted loop.
type loopMetrics struct {
	perimeter float64
	area      float64
	score     float64
}

// scoreLoop measures a loop's perimeter, planar area, and score. The score
// is area x (0.45 + isoperimetric compactness): a round hole outranks a
// jagged one of equal area. Returns ok=false for degenerate loops.
func scoreLoop(points []v3.Vec) (loopMetrics, bool) {
	perimeter := mesh.Perimeter(points)
	if perimeter < MinPerimeter {
		return loopMetrics{}, false
	}

	normal := mesh.NewellNormal(points)
	if normal.Length() < MinNormalLength {
		return loopMetrics{}, false
	}

	axisU, axisV := mesh.PlaneBasis(normal)
	proj := mesh.Project(points, mesh.Centroid(points), axisU, axisV)
	area := math.Abs(mesh.SignedArea(proj))
	if area < MinProjectedArea {
		return loopMetrics{}, false
	}

	compactness := clamp01(4 * math.Pi * area / (perimeter * perimeter))
	return loopMetrics{
		perimeter: perimeter,
		area:      area,
		score:     area * (scoreWeightBase + compactness),
	}, true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// loopPositions resolves loop vertex indices to positions.
func loopPositions(m *mesh.Mesh, loop []int) []v3.Vec {
	points := make([]v3.Vec, len(loop))
	for i, idx := range loop {
		points[i] = m.Vertices[idx]
	}
	return points
}
