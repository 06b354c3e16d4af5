// Package boundary detects and ranks the open-edge loops of a triangle
// mesh. A boundary loop is a closed cyclic chain of edges each used by
// exactly one triangle: the rim a fracture leaves behind.
package boundary

import (
	"sort"

	"github.com/chamlis/patchup/pkg/mesh"
)

// edgeKey identifies an undirected edge by its ordered vertex pair.
type edgeKey struct {
	lo, hi int
}

func makeEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{lo: a, hi: b}
}

// Loops returns every closed boundary loop of the mesh. A watertight mesh
// yields zero loops; that is a valid result, not an error. Discovery is
// deterministic for a fixed mesh: walks start from boundary edges in face
// order and always advance to the lowest-index unconsumed neighbor,
// preferring one other than the vertex just visited.
func Loops(m *mesh.Mesh) [][]int {
	// Count undirected edge usage across all faces.
	use := make(map[edgeKey]int)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			use[makeEdgeKey(f[i], f[(i+1)%3])]++
		}
	}

	// Collect directed boundary edges in face order. An edge used by
	// exactly one face is a boundary edge.
	var directed [][2]int
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			if use[makeEdgeKey(a, b)] == 1 {
				directed = append(directed, [2]int{a, b})
			}
		}
	}
	if len(directed) == 0 {
		return nil
	}

	// Adjacency over boundary vertices, neighbor lists sorted ascending for
	// a deterministic walk at non-simple junctions.
	adj := make(map[int][]int)
	remaining := make(map[edgeKey]bool, len(directed))
	for _, e := range directed {
		k := makeEdgeKey(e[0], e[1])
		if remaining[k] {
			continue
		}
		remaining[k] = true
		adj[e[0]] = append(adj[e[0]], e[1])
		adj[e[1]] = append(adj[e[1]], e[0])
	}
	for v := range adj {
		sort.Ints(adj[v])
	}

	// Walk length cap guarantees termination on malformed topology.
	maxSteps := 2 * len(remaining)
	if maxSteps < 8 {
		maxSteps = 8
	}

	var loops [][]int
	for _, start := range directed {
		k := makeEdgeKey(start[0], start[1])
		if !remaining[k] {
			continue
		}
		if loop := walk(start[0], start[1], adj, remaining, maxSteps); loop != nil {
			loops = append(loops, loop)
		}
	}
	return loops
}

// walk traces one boundary chain from the directed edge (first, second),
// consuming edges as it goes. It returns the loop only if the chain closes
// back on the start vertex with at least three vertices; open fragments are
// discarded (their edges stay consumed).
func walk(first, second int, adj map[int][]int, remaining map[edgeKey]bool, maxSteps int) []int {
	remaining[makeEdgeKey(first, second)] = false
	loop := []int{first, second}
	prev, cur := first, second

	for step := 0; step < maxSteps; step++ {
		next, ok := nextNeighbor(cur, prev, adj, remaining)
		if !ok {
			return nil
		}
		remaining[makeEdgeKey(cur, next)] = false
		if next == first {
			if len(loop) < 3 {
				return nil
			}
			return loop
		}
		loop = append(loop, next)
		prev, cur = cur, next
	}
	return nil
}

// nextNeighbor selects the lowest-index neighbor of cur whose connecting
// edge is unconsumed, skipping prev unless it is the only choice.
func nextNeighbor(cur, prev int, adj map[int][]int, remaining map[edgeKey]bool) (int, bool) {
	fallback, haveFallback := -1, false
	for _, n := range adj[cur] {
		if !remaining[makeEdgeKey(cur, n)] {
			continue
		}
		if n == prev {
			fallback, haveFallback = n, true
			continue
		}
		return n, true
	}
	if haveFallback {
		return fallback, true
	}
	return 0, false
}
