package patch

import (
	"github.com/chamlis/patchup/pkg/boundary"
	"github.com/chamlis/patchup/pkg/mesh"
)

// Generate auto-selects the best-scoring boundary loop of the mesh and
// synthesizes a repair patch for it with the given profile.
func Generate(m *mesh.Mesh, prof Profile) (*Result, error) {
	if m == nil || m.IsEmpty() {
		return nil, ErrSourceMeshEmpty
	}
	loops := boundary.Loops(m)
	candidates := boundary.Rank(m, loops)
	if len(candidates) == 0 {
		return nil, ErrNoBoundary
	}
	return synthesize(m, candidates[0].Loop, prof, len(loops))
}

// GenerateWithCandidate synthesizes directly from a caller-selected
// candidate (picked from Candidates), skipping re-ranking. The candidate's
// index sequence is still simplified and cleaned like an auto-selected one.
func GenerateWithCandidate(m *mesh.Mesh, cand boundary.Candidate, prof Profile) (*Result, error) {
	if m == nil || m.IsEmpty() {
		return nil, ErrSourceMeshEmpty
	}
	if len(cand.Loop) == 0 {
		return nil, ErrNoBoundary
	}
	// Loops are re-extracted for the detection count only; the selection
	// itself is the caller's.
	loops := boundary.Loops(m)
	return synthesize(m, cand.Loop, prof, len(loops))
}

// Candidates lists the mesh's ranked boundary candidates, bounded to the
// top boundary.MaxCandidates. Returns ErrSourceMeshEmpty for an empty mesh
// and ErrNoBoundary when no usable loop exists.
func Candidates(m *mesh.Mesh) ([]boundary.Candidate, error) {
	if m == nil || m.IsEmpty() {
		return nil, ErrSourceMeshEmpty
	}
	candidates := boundary.Candidates(m)
	if len(candidates) == 0 {
		return nil, ErrNoBoundary
	}
	return candidates, nil
}
