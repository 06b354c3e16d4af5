// Package patch synthesizes a watertight, printable repair insert for one
// fracture boundary of a scanned triangle mesh. The insert is a closed
// shell: an outward-facing cap lipped over the hole, a tab recessed behind
// the fracture surface, and a skirt joining the two.
package patch

import "fmt"

// Profile is one named repair parameter set. All lengths are meters.
type Profile struct {
	// Name is the profile's stable identifier.
	Name string
	// InsertionDepth is how far the tab extends into the object along the
	// boundary's inward normal.
	InsertionDepth float64
	// OverlapWidth is how far the surface lip extends outward from the
	// boundary.
	OverlapWidth float64
	// InsertionClearance is the inward shrink applied to the tab before
	// the depth offset.
	InsertionClearance float64
	// MinBoundaryVertices is the smallest boundary loop the profile
	// accepts after cleanup.
	MinBoundaryVertices int
}

// The four repair profiles. Selection is by name only; no free-form
// parameterization is exposed.
var (
	Balanced = Profile{
		Name:                "balanced",
		InsertionDepth:      0.008,
		OverlapWidth:        0.005,
		InsertionClearance:  0.0005,
		MinBoundaryVertices: 4,
	}
	DurableDeep = Profile{
		Name:                "durable-deep",
		InsertionDepth:      0.014,
		OverlapWidth:        0.008,
		InsertionClearance:  0.0004,
		MinBoundaryVertices: 4,
	}
	EconomyThin = Profile{
		Name:                "economy-thin",
		InsertionDepth:      0.004,
		OverlapWidth:        0.003,
		InsertionClearance:  0.0006,
		MinBoundaryVertices: 3,
	}
	TightFit = Profile{
		Name:                "tight-fit",
		InsertionDepth:      0.008,
		OverlapWidth:        0.004,
		InsertionClearance:  0.00015,
		MinBoundaryVertices: 6,
	}
)

// Profiles lists the closed profile set in presentation order.
func Profiles() []Profile {
	return []Profile{Balanced, DurableDeep, EconomyThin, TightFit}
}

// ByName resolves a profile by name. Short aliases (durable, economy,
// tight) map onto their full names.
func ByName(name string) (Profile, error) {
	switch name {
	case "balanced":
		return Balanced, nil
	case "durable-deep", "durable":
		return DurableDeep, nil
	case "economy-thin", "economy":
		return EconomyThin, nil
	case "tight-fit", "tight":
		return TightFit, nil
	}
	return Profile{}, fmt.Errorf("unknown profile %q, expected balanced, durable-deep, economy-thin, or tight-fit", name)
}
