package boundary

import (
	"math"
	"sort"
	"strconv"

	"github.com/chamlis/patchup/pkg/mesh"
)

// MaxCandidates bounds how many ranked loops are surfaced to callers.
const MaxCandidates = 3

// Confidence weighting: absolute quality vs. margin over the runner-up.
const (
	confidenceQualityWeight    = 0.7
	confidenceSeparationWeight = 0.3
	scoreEpsilon               = 1e-9
)

// Candidate is one ranked boundary loop. Candidates are plain immutable
// values produced from a mesh snapshot; they are not persisted.
type Candidate struct {
	// ID is a stable content hash of the loop's index sequence, used for
	// selection persistence across calls. Not cryptographic.
	ID string
	// Loop is the ordered cyclic vertex-index sequence.
	Loop []int
	// Perimeter is the sum of cyclic edge lengths in meters.
	Perimeter float64
	// Area is the planar projected area.
	Area float64
	// Score is the raw ranking score (area-dominated, roundness-weighted).
	Score float64
	// Confidence in [0,1], relative to sibling candidates.
	Confidence float64
}

// Candidates extracts, scores, and ranks the mesh's boundary loops,
// returning at most MaxCandidates ordered by non-increasing score.
// Degenerate loops are dropped. A watertight mesh returns nil.
func Candidates(m *mesh.Mesh) []Candidate {
	return Rank(m, Loops(m))
}

// Rank scores the given loops against the mesh and materializes the top
// candidates with confidence values. Callers that already extracted loops
// (to report a loop count, say) can rank them without re-walking the mesh.
func Rank(m *mesh.Mesh, loops [][]int) []Candidate {
	type scored struct {
		loop    []int
		metrics loopMetrics
	}
	var accepted []scored
	for _, loop := range loops {
		metrics, ok := scoreLoop(loopPositions(m, loop))
		if !ok {
			continue
		}
		accepted = append(accepted, scored{loop: loop, metrics: metrics})
	}
	if len(accepted) == 0 {
		return nil
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].metrics.score > accepted[j].metrics.score
	})
	if len(accepted) > MaxCandidates {
		accepted = accepted[:MaxCandidates]
	}

	// Separation uses the top two scores for every candidate: the leader's
	// confidence reflects its margin over the runner-up, and the runner-up
	// carries the same gap.
	top := accepted[0].metrics.score
	var next float64
	if len(accepted) > 1 {
		next = accepted[1].metrics.score
	}
	separation := (top - next) / math.Max(top, scoreEpsilon)

	out := make([]Candidate, len(accepted))
	for i, s := range accepted {
		normalized := s.metrics.score / math.Max(top, scoreEpsilon)
		out[i] = Candidate{
			ID:         LoopID(s.loop),
			Loop:       s.loop,
			Perimeter:  s.metrics.perimeter,
			Area:       s.metrics.area,
			Score:      s.metrics.score,
			Confidence: clamp01(confidenceQualityWeight*normalized + confidenceSeparationWeight*separation),
		}
	}
	return out
}

// FNV-1a-style fold parameters for loop identifiers.
const (
	loopIDOffsetBasis uint64 = 1469598103934665603
	loopIDPrime       uint64 = 1099511628211
)

// LoopID folds the loop's vertex-index sequence into a 64-bit hash and
// renders it as hex. Equal index sequences always yield equal IDs.
func LoopID(loop []int) string {
	h := loopIDOffsetBasis
	for _, idx := range loop {
		h ^= uint64(idx)
		h *= loopIDPrime
	}
	return strconv.FormatUint(h, 16)
}
