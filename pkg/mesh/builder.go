package mesh

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// WeldTolerance is the default coordinate tolerance used when welding
// triangle-soup vertices into shared indexed vertices. Positions closer
// than this along every axis collapse to one vertex.
const WeldTolerance = 1e-7

// Builder assembles an indexed Mesh from loose triangles, welding vertices
// that coincide within a tolerance. Triangle files and tessellators emit
// unshared corner vertices; boundary detection needs shared indices.
type Builder struct {
	tol      float64
	vertices []v3.Vec
	faces    [][3]int
	index    map[weldKey]int
}

// weldKey is a position quantized onto a tolerance grid.
type weldKey struct {
	x, y, z int64
}

// NewBuilder returns a Builder welding at the default tolerance.
func NewBuilder() *Builder {
	return NewBuilderTolerance(WeldTolerance)
}

// NewBuilderTolerance returns a Builder welding at the given tolerance.
func NewBuilderTolerance(tol float64) *Builder {
	if tol <= 0 {
		tol = WeldTolerance
	}
	return &Builder{
		tol:   tol,
		index: make(map[weldKey]int),
	}
}

func (b *Builder) key(p v3.Vec) weldKey {
	return weldKey{
		x: int64(math.Round(p.X / b.tol)),
		y: int64(math.Round(p.Y / b.tol)),
		z: int64(math.Round(p.Z / b.tol)),
	}
}

// vertex returns the index for p, welding onto an existing vertex when one
// sits within tolerance.
func (b *Builder) vertex(p v3.Vec) int {
	k := b.key(p)
	if idx, ok := b.index[k]; ok {
		return idx
	}
	idx := len(b.vertices)
	b.vertices = append(b.vertices, p)
	b.index[k] = idx
	return idx
}

// AddTriangle welds the three corners and appends one face. Triangles whose
// corners weld to fewer than three distinct vertices are dropped.
func (b *Builder) AddTriangle(p0, p1, p2 v3.Vec) {
	i0 := b.vertex(p0)
	i1 := b.vertex(p1)
	i2 := b.vertex(p2)
	if i0 == i1 || i1 == i2 || i2 == i0 {
		return
	}
	b.faces = append(b.faces, [3]int{i0, i1, i2})
}

// Build returns the assembled mesh. The builder must not be reused after
// Build.
func (b *Builder) Build() *Mesh {
	return &Mesh{Vertices: b.vertices, Faces: b.faces}
}
