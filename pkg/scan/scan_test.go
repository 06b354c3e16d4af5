package scan

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chamlis/patchup/pkg/boundary"
	"github.com/chamlis/patchup/pkg/mesh"
)

// closedCube is a watertight unit cube (12 triangles).
func closedCube() *mesh.Mesh {
	return &mesh.Mesh{
		Vertices: []v3.Vec{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 1, Y: 1, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
			{X: 1, Y: 0, Z: 1},
			{X: 1, Y: 1, Z: 1},
			{X: 0, Y: 1, Z: 1},
		},
		Faces: [][3]int{
			{0, 2, 1}, {0, 3, 2},
			{0, 1, 5}, {0, 5, 4},
			{1, 2, 6}, {1, 6, 5},
			{2, 3, 7}, {2, 7, 6},
			{3, 0, 4}, {3, 4, 7},
			{4, 5, 6}, {4, 6, 7},
		},
	}
}

func TestFractureOpensBoundary(t *testing.T) {
	m := closedCube()
	if got := boundary.Loops(m); len(got) != 0 {
		t.Fatalf("closed cube already has %d loops", len(got))
	}

	// Knock out the two top-face triangles.
	broken := Fracture(m, v3.Vec{X: 0.5, Y: 0.5, Z: 1}, 0.5)
	if got := broken.FaceCount(); got != 10 {
		t.Fatalf("Fracture() left %d faces, want 10", got)
	}
	loops := boundary.Loops(broken)
	if len(loops) != 1 {
		t.Fatalf("Fracture() produced %d boundary loops, want 1", len(loops))
	}
}

func TestFractureDoesNotMutateInput(t *testing.T) {
	m := closedCube()
	before := m.FaceCount()
	Fracture(m, v3.Vec{X: 0.5, Y: 0.5, Z: 1}, 0.5)
	if m.FaceCount() != before {
		t.Error("Fracture() mutated its input mesh")
	}
}

func TestFractureMissesEverything(t *testing.T) {
	m := closedCube()
	out := Fracture(m, v3.Vec{X: 100}, 0.1)
	if out.FaceCount() != m.FaceCount() {
		t.Errorf("Fracture() removed %d faces, want 0", m.FaceCount()-out.FaceCount())
	}
}

func TestSyntheticRequiresSolid(t *testing.T) {
	s := &Synthetic{}
	if _, err := s.Capture(); err == nil {
		t.Error("Capture() without a solid should fail")
	}
}
