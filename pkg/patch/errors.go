package patch

import "errors"

// Typed failures. All are terminal for the call that produced them; no
// partial results accompany an error. Callers branch with errors.Is.
var (
	// ErrSourceMeshEmpty: the input mesh has no vertices or no faces.
	ErrSourceMeshEmpty = errors.New("source mesh empty")

	// ErrNoBoundary: the mesh has no detectable open-edge loop.
	ErrNoBoundary = errors.New("no repair boundary found")

	// ErrBoundaryTooSmall: the resolved loop, after dedup and
	// simplification, has fewer vertices than the profile requires.
	ErrBoundaryTooSmall = errors.New("boundary too small")

	// ErrTriangulationFailed: ear clipping could not consume the polygon,
	// the loop normal degenerated, or no valid triangle survived.
	ErrTriangulationFailed = errors.New("triangulation failed")
)
