// Package triangulate implements ear-clipping triangulation of simple
// planar polygons. Input rings are counter-clockwise, closed by convention
// (no duplicate closing point).
package triangulate

import (
	"errors"
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// ConvexEpsilon is the cross-product threshold below which a corner is not
// treated as convex.
const ConvexEpsilon = 1e-12

// ContainEpsilon is the tolerance of the point-in-triangle sign test.
const ContainEpsilon = 1e-12

// ErrNoEar is returned when a full pass over the active vertices finds no
// clippable ear: the polygon is self-intersecting or degenerate.
var ErrNoEar = errors.New("no ear found, polygon is self-intersecting or degenerate")

// cross2 is the scalar 2-D cross product of (b-a) and (c-a).
func cross2(a, b, c v2.Vec) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// EarClip triangulates a simple CCW polygon, returning triangles as index
// triples into points. Total work is bounded by the square of the polygon
// size so malformed input terminates.
func EarClip(points []v2.Vec) ([][3]int, error) {
	n := len(points)
	if n < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 points, got %d", n)
	}
	if n == 3 {
		return [][3]int{{0, 1, 2}}, nil
	}

	active := make([]int, n)
	for i := range active {
		active[i] = i
	}

	var tris [][3]int
	budget := n * n
	for len(active) > 3 {
		clipped := false
		for i := 0; i < len(active); i++ {
			budget--
			if budget < 0 {
				return nil, fmt.Errorf("iteration budget exhausted on %d-gon", n)
			}
			prev := active[(i+len(active)-1)%len(active)]
			cur := active[i]
			next := active[(i+1)%len(active)]
			if !isConvex(points, prev, cur, next) {
				continue
			}
			if containsActiveVertex(points, active, prev, cur, next) {
				continue
			}
			tris = append(tris, [3]int{prev, cur, next})
			active = append(active[:i], active[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			return nil, ErrNoEar
		}
	}
	tris = append(tris, [3]int{active[0], active[1], active[2]})
	return tris, nil
}

// isConvex tests the corner at cur: the cross product of (next-cur) and
// (prev-cur) must be positive for a CCW polygon.
func isConvex(points []v2.Vec, prev, cur, next int) bool {
	a := points[next].Sub(points[cur])
	b := points[prev].Sub(points[cur])
	return a.X*b.Y-a.Y*b.X > ConvexEpsilon
}

// containsActiveVertex reports whether any still-active vertex other than
// the corner triple lies inside triangle (prev, cur, next). Uses a
// sign-consistency test over the three edge cross products.
func containsActiveVertex(points []v2.Vec, active []int, prev, cur, next int) bool {
	a, b, c := points[prev], points[cur], points[next]
	for _, idx := range active {
		if idx == prev || idx == cur || idx == next {
			continue
		}
		p := points[idx]
		d1 := cross2(a, b, p)
		d2 := cross2(b, c, p)
		d3 := cross2(c, a, p)
		hasNeg := d1 < -ContainEpsilon || d2 < -ContainEpsilon || d3 < -ContainEpsilon
		hasPos := d1 > ContainEpsilon || d2 > ContainEpsilon || d3 > ContainEpsilon
		if !(hasNeg && hasPos) {
			return true
		}
	}
	return false
}
