package patch

import (
	"errors"
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chamlis/patchup/pkg/mesh"
)

// openCube is a unit cube missing its top face: one square boundary loop.
func openCube() *mesh.Mesh {
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
		},
	}
}

func tetrahedron() *mesh.Mesh {
	return &mesh.Mesh{
		Vertices: []v3.Vec{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
		},
		Faces: [][3]int{
			{0, 2, 1},
			{0, 1, 3},
			{1, 2, 3},
			{2, 0, 3},
		},
	}
}

// assertWatertight checks that every undirected edge of the mesh is used by
// exactly two triangles.
func assertWatertight(t *testing.T, m *mesh.Mesh) {
	t.Helper()
	use := make(map[[2]int]int)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			use[[2]int{a, b}]++
		}
	}
	for e, n := range use {
		if n != 2 {
			t.Errorf("edge %v used by %d triangles, want 2", e, n)
		}
	}
}

// --- Profile table ---

func TestProfileByName(t *testing.T) {
	tests := []struct {
		name    string
		lookup  string
		want    string
		wantErr bool
	}{
		{"balanced", "balanced", "balanced", false},
		{"durable full", "durable-deep", "durable-deep", false},
		{"durable alias", "durable", "durable-deep", false},
		{"economy alias", "economy", "economy-thin", false},
		{"tight alias", "tight", "tight-fit", false},
		{"unknown", "adamantium", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ByName(tt.lookup)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ByName(%q) error = %v, wantErr %v", tt.lookup, err, tt.wantErr)
			}
			if !tt.wantErr && p.Name != tt.want {
				t.Errorf("ByName(%q).Name = %q, want %q", tt.lookup, p.Name, tt.want)
			}
		})
	}
}

func TestProfilesClosedSet(t *testing.T) {
	ps := Profiles()
	if len(ps) != 4 {
		t.Fatalf("Profiles() = %d entries, want 4", len(ps))
	}
	for _, p := range ps {
		if p.InsertionDepth <= 0 || p.OverlapWidth <= 0 || p.InsertionClearance <= 0 {
			t.Errorf("profile %q has non-positive parameters: %+v", p.Name, p)
		}
		if p.MinBoundaryVertices < 3 {
			t.Errorf("profile %q accepts loops below 3 vertices", p.Name)
		}
	}
}

// --- Auto-selection ---

func TestGenerateOpenCubeBalanced(t *testing.T) {
	res, err := Generate(openCube(), Balanced)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.Mesh.IsEmpty() {
		t.Fatal("Generate() produced an empty patch mesh")
	}
	if res.LoopsDetected != 1 {
		t.Errorf("LoopsDetected = %d, want 1", res.LoopsDetected)
	}
	if res.BoundaryVertices < 4 {
		t.Errorf("BoundaryVertices = %d, want >= 4", res.BoundaryVertices)
	}
	if res.BoundaryPerimeter <= 0 {
		t.Errorf("BoundaryPerimeter = %v, want > 0", res.BoundaryPerimeter)
	}
	// Two rings and a full cap on each end.
	if got := res.Mesh.VertexCount(); got != 2*res.BoundaryVertices {
		t.Errorf("patch VertexCount() = %d, want %d", got, 2*res.BoundaryVertices)
	}
	if err := res.Mesh.Validate(); err != nil {
		t.Errorf("patch mesh invalid: %v", err)
	}
	assertWatertight(t, res.Mesh)
}

func TestGenerateTabRecessed(t *testing.T) {
	// The cube's hole faces +Z; the tab must sink below the z=1 rim by the
	// insertion depth, never rise above it.
	res, err := Generate(openCube(), Balanced)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for _, v := range res.Mesh.Vertices {
		minZ = math.Min(minZ, v.Z)
		maxZ = math.Max(maxZ, v.Z)
	}
	if math.Abs(maxZ-1) > 1e-9 {
		t.Errorf("top ring z = %v, want 1", maxZ)
	}
	if math.Abs(minZ-(1-Balanced.InsertionDepth)) > 1e-9 {
		t.Errorf("tab z = %v, want %v", minZ, 1-Balanced.InsertionDepth)
	}
}

func TestGenerateIdempotent(t *testing.T) {
	first, err := Generate(openCube(), Balanced)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	second, err := Generate(openCube(), Balanced)
	if err != nil {
		t.Fatalf("Generate() second call error = %v", err)
	}
	if first.Mesh.VertexCount() != second.Mesh.VertexCount() {
		t.Errorf("vertex counts differ: %d vs %d",
			first.Mesh.VertexCount(), second.Mesh.VertexCount())
	}
	if first.Mesh.FaceCount() != second.Mesh.FaceCount() {
		t.Errorf("face counts differ: %d vs %d",
			first.Mesh.FaceCount(), second.Mesh.FaceCount())
	}
	if first.BoundaryPerimeter != second.BoundaryPerimeter {
		t.Errorf("perimeters differ: %v vs %v",
			first.BoundaryPerimeter, second.BoundaryPerimeter)
	}
}

// --- Explicit candidate ---

func TestGenerateWithCandidateDifferentProfile(t *testing.T) {
	m := openCube()
	candidates, err := Candidates(m)
	if err != nil {
		t.Fatalf("Candidates() error = %v", err)
	}
	if len(candidates) < 1 || len(candidates) > 3 {
		t.Fatalf("Candidates() = %d, want 1..3", len(candidates))
	}
	res, err := GenerateWithCandidate(m, candidates[0], DurableDeep)
	if err != nil {
		t.Fatalf("GenerateWithCandidate() error = %v", err)
	}
	if res.Mesh.IsEmpty() {
		t.Fatal("explicit-candidate patch is empty")
	}
	assertWatertight(t, res.Mesh)
}

func TestCandidatesOpenCube(t *testing.T) {
	candidates, err := Candidates(openCube())
	if err != nil {
		t.Fatalf("Candidates() error = %v", err)
	}
	for _, c := range candidates {
		if c.Perimeter <= 0 {
			t.Errorf("candidate perimeter = %v, want > 0", c.Perimeter)
		}
		if c.Confidence < 0 || c.Confidence > 1 {
			t.Errorf("candidate confidence = %v, want [0,1]", c.Confidence)
		}
	}
}

// --- Typed failures ---

func TestGenerateEmptyMesh(t *testing.T) {
	empties := []*mesh.Mesh{
		nil,
		{},
		{Vertices: []v3.Vec{{}, {X: 1}, {Y: 1}}},
	}
	for _, m := range empties {
		if _, err := Generate(m, Balanced); !errors.Is(err, ErrSourceMeshEmpty) {
			t.Errorf("Generate(empty) error = %v, want ErrSourceMeshEmpty", err)
		}
		cand, err := Candidates(m)
		if !errors.Is(err, ErrSourceMeshEmpty) || cand != nil {
			t.Errorf("Candidates(empty) = %v, %v, want nil, ErrSourceMeshEmpty", cand, err)
		}
	}
}

func TestGenerateWatertightMesh(t *testing.T) {
	if _, err := Generate(tetrahedron(), Balanced); !errors.Is(err, ErrNoBoundary) {
		t.Errorf("Generate(watertight) error = %v, want ErrNoBoundary", err)
	}
}

func TestGenerateBoundaryTooSmall(t *testing.T) {
	// tight-fit wants 6 boundary vertices; the cube rim has 4.
	if _, err := Generate(openCube(), TightFit); !errors.Is(err, ErrBoundaryTooSmall) {
		t.Errorf("Generate(cube, tight-fit) error = %v, want ErrBoundaryTooSmall", err)
	}
}

// --- Synthesis internals ---

func TestDedupRing(t *testing.T) {
	pts := []v3.Vec{
		{X: 0, Y: 0},
		{X: 0, Y: 1e-5}, // collapses into the previous point
		{X: 1, Y: 0},
		{X: 1, Y: 1},
		{X: 0, Y: 1},
		{X: 1e-5, Y: 0}, // closes the ring, dropped
	}
	out := dedupRing(pts, DedupTolerance)
	if len(out) != 4 {
		t.Errorf("dedupRing() = %d points, want 4 (got %v)", len(out), out)
	}
}

func TestRadialDirectionFallback(t *testing.T) {
	normal := v3.Vec{Z: 1}
	axisU := v3.Vec{Y: 1}
	// Point directly over the centroid: no in-plane component.
	got := radialDirection(v3.Vec{Z: 5}, v3.Vec{}, normal, axisU)
	if got.Sub(axisU).Length() > 1e-12 {
		t.Errorf("radialDirection() fallback = %v, want %v", got, axisU)
	}
}
