package mesh

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// NewellNormal computes a polygon's normal by Newell's method: the
// cross-term summation over consecutive vertex pairs. The result is not
// normalized; its magnitude is twice the polygon area, which makes it a
// useful degeneracy signal. Tolerant of minor non-planarity.
func NewellNormal(points []v3.Vec) v3.Vec {
	var n v3.Vec
	for i := range points {
		a := points[i]
		b := points[(i+1)%len(points)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n
}

// PlaneBasis derives an orthonormal in-plane basis (axisU, axisV) for the
// plane with the given normal. The seed axis is the world X axis unless the
// normal leans too close to it, in which case the Y axis seeds instead.
func PlaneBasis(normal v3.Vec) (axisU, axisV v3.Vec) {
	n := normal.Normalize()
	seed := v3.Vec{X: 1}
	if math.Abs(n.X) >= 0.8 {
		seed = v3.Vec{Y: 1}
	}
	axisU = n.Cross(seed).Normalize()
	axisV = n.Cross(axisU).Normalize()
	return axisU, axisV
}

// Project maps 3-D points onto the (axisU, axisV) plane coordinates
// relative to origin.
func Project(points []v3.Vec, origin, axisU, axisV v3.Vec) []v2.Vec {
	out := make([]v2.Vec, len(points))
	for i, p := range points {
		d := p.Sub(origin)
		out[i] = v2.Vec{X: d.Dot(axisU), Y: d.Dot(axisV)}
	}
	return out
}

// SignedArea computes the shoelace signed area of a 2-D polygon. Positive
// for counter-clockwise winding.
func SignedArea(points []v2.Vec) float64 {
	var sum float64
	for i := range points {
		a := points[i]
		b := points[(i+1)%len(points)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Perimeter sums the cyclic edge lengths of a closed 3-D polygon.
func Perimeter(points []v3.Vec) float64 {
	var sum float64
	for i := range points {
		a := points[i]
		b := points[(i+1)%len(points)]
		sum += b.Sub(a).Length()
	}
	return sum
}

// Centroid returns the average of the given points.
func Centroid(points []v3.Vec) v3.Vec {
	if len(points) == 0 {
		return v3.Vec{}
	}
	var sum v3.Vec
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.DivScalar(float64(len(points)))
}
