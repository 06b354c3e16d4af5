package boundary

// MaxLoopVertices bounds the vertex count handed to triangulation. Loops
// longer than this are uniformly subsampled.
const MaxLoopVertices = 220

// Simplify bounds a loop's vertex count to max. Loops that already fit are
// returned unchanged. Longer loops keep every stride-th vertex in original
// order, stride = len/max. If fewer than three points would survive, the
// first max points of the original loop are taken instead.
func Simplify(loop []int, max int) []int {
	if len(loop) <= max {
		return loop
	}
	stride := len(loop) / max
	var out []int
	for i := 0; i < len(loop); i += stride {
		out = append(out, loop[i])
	}
	if len(out) < 3 {
		out = append([]int(nil), loop[:max]...)
	}
	return out
}
