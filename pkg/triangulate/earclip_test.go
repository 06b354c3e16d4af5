package triangulate

import (
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// triangleArea returns the unsigned area of triangle (a, b, c).
func triangleArea(a, b, c v2.Vec) float64 {
	return math.Abs(cross2(a, b, c)) / 2
}

// polygonArea is the shoelace area of a CCW ring.
func polygonArea(points []v2.Vec) float64 {
	var sum float64
	for i := range points {
		a := points[i]
		b := points[(i+1)%len(points)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// checkCoverage asserts the triangles tile the polygon: count n-2 and total
// area matching the shoelace area.
func checkCoverage(t *testing.T, points []v2.Vec, tris [][3]int) {
	t.Helper()
	if want := len(points) - 2; len(tris) != want {
		t.Errorf("got %d triangles, want %d", len(tris), want)
	}
	var total float64
	for _, tri := range tris {
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[2] == tri[0] {
			t.Errorf("degenerate triangle indices %v", tri)
		}
		total += triangleArea(points[tri[0]], points[tri[1]], points[tri[2]])
	}
	if want := polygonArea(points); math.Abs(total-want) > 1e-9 {
		t.Errorf("triangle area sum = %v, want polygon area %v", total, want)
	}
}

func TestEarClipTriangle(t *testing.T) {
	pts := []v2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	tris, err := EarClip(pts)
	if err != nil {
		t.Fatalf("EarClip() error = %v", err)
	}
	if len(tris) != 1 {
		t.Fatalf("got %d triangles, want 1", len(tris))
	}
}

func TestEarClipSquare(t *testing.T) {
	pts := []v2.Vec{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}
	tris, err := EarClip(pts)
	if err != nil {
		t.Fatalf("EarClip() error = %v", err)
	}
	checkCoverage(t, pts, tris)
}

func TestEarClipConvexPolygon(t *testing.T) {
	// Regular octagon.
	var pts []v2.Vec
	for i := 0; i < 8; i++ {
		a := 2 * math.Pi * float64(i) / 8
		pts = append(pts, v2.Vec{X: math.Cos(a), Y: math.Sin(a)})
	}
	tris, err := EarClip(pts)
	if err != nil {
		t.Fatalf("EarClip() error = %v", err)
	}
	checkCoverage(t, pts, tris)
}

func TestEarClipConcavePolygon(t *testing.T) {
	// L-shape (CCW): the reflex corner forces ear selection to skip
	// non-convex vertices and run the containment test.
	pts := []v2.Vec{
		{X: 0, Y: 0},
		{X: 2, Y: 0},
		{X: 2, Y: 1},
		{X: 1, Y: 1},
		{X: 1, Y: 2},
		{X: 0, Y: 2},
	}
	tris, err := EarClip(pts)
	if err != nil {
		t.Fatalf("EarClip() error = %v", err)
	}
	checkCoverage(t, pts, tris)
}

func TestEarClipTooFewPoints(t *testing.T) {
	if _, err := EarClip([]v2.Vec{{X: 0}, {X: 1}}); err == nil {
		t.Error("EarClip() on 2 points should fail")
	}
}

func TestEarClipDegenerateCollinear(t *testing.T) {
	// All points on a line: no convex corner exists.
	pts := []v2.Vec{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0},
	}
	if _, err := EarClip(pts); err == nil {
		t.Error("EarClip() on collinear points should fail")
	}
}
