package engine

import (
	"fmt"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chamlis/patchup/pkg/boundary"
	"github.com/chamlis/patchup/pkg/mesh"
	"github.com/chamlis/patchup/pkg/patch"
	"github.com/chamlis/patchup/pkg/scan"
	"github.com/chamlis/patchup/pkg/stl"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms repair-script source before passing it to
// zygomys. It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal),
//     so keyword symbols need no global registration.
//
//  2. ; line comments -> // comments (zygomys uses // for line comments).
//
//  3. Kebab-case to underscore: load-mesh -> load_mesh, since zygomys
//     reads hyphens as subtraction. Applied outside strings and comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Kebab-case identifiers: alpha-alpha -> alpha_alpha. Only when the
		// hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpMesh wraps a *mesh.Mesh so scripts can pass meshes between builtins.
type sexpMesh struct {
	m *mesh.Mesh
}

func (s *sexpMesh) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(mesh :vertices %d :faces %d)", s.m.VertexCount(), s.m.FaceCount())
}
func (s *sexpMesh) Type() *zygo.RegisteredType { return nil }

// sexpCandidate wraps one ranked boundary candidate.
type sexpCandidate struct {
	c boundary.Candidate
}

func (s *sexpCandidate) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(candidate %q :perimeter %.4f :confidence %.2f)",
		s.c.ID, s.c.Perimeter, s.c.Confidence)
}
func (s *sexpCandidate) Type() *zygo.RegisteredType { return nil }

// sexpPatch wraps a generation result.
type sexpPatch struct {
	res *patch.Result
}

func (s *sexpPatch) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(patch :faces %d :loops %d :perimeter %.4f)",
		s.res.Mesh.FaceCount(), s.res.LoopsDetected, s.res.BoundaryPerimeter)
}
func (s *sexpPatch) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a position.
type sexpVec3 struct {
	vec v3.Vec
}

func (s *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.4f %.4f %.4f)", s.vec.X, s.vec.Y, s.vec.Z)
}
func (s *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string, returning the
// keyword name without the prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value, treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_balanced) and plain strings.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

func toMesh(s zygo.Sexp) (*mesh.Mesh, error) {
	if m, ok := s.(*sexpMesh); ok {
		return m.m, nil
	}
	return nil, fmt.Errorf("expected mesh, got %T (%s)", s, s.SexpString(nil))
}

func toCandidate(s zygo.Sexp) (boundary.Candidate, error) {
	if c, ok := s.(*sexpCandidate); ok {
		return c.c, nil
	}
	return boundary.Candidate{}, fmt.Errorf("expected candidate, got %T (%s)", s, s.SexpString(nil))
}

func toPatch(s zygo.Sexp) (*patch.Result, error) {
	if p, ok := s.(*sexpPatch); ok {
		return p.res, nil
	}
	return nil, fmt.Errorf("expected patch result, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// profileArg resolves the :profile keyword argument, defaulting to balanced.
func profileArg(pa kwArgs) (patch.Profile, error) {
	v, ok := pa.kw["profile"]
	if !ok {
		return patch.Balanced, nil
	}
	name, err := toKeywordString(v)
	if err != nil {
		return patch.Profile{}, fmt.Errorf("profile: %w", err)
	}
	return patch.ByName(name)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the repair-pipeline builtins into a zygomys
// environment. Builtins record what they did on the provided Trace.
//
// Source must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens become recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, trace *Trace) {

	// -----------------------------------------------------------------------
	// (load-mesh "scan.stl")
	// -----------------------------------------------------------------------
	env.AddFunction("load_mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("load-mesh requires a path argument")
		}
		path, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load-mesh: path: %w", err)
		}
		m, err := stl.Read(path)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load-mesh: %w", err)
		}
		trace.MeshesLoaded++
		return &sexpMesh{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// (save-mesh m "out.stl" :ascii true)
	// -----------------------------------------------------------------------
	env.AddFunction("save_mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("save-mesh requires a mesh and a path")
		}
		m, err := toMesh(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("save-mesh: %w", err)
		}
		path, err := toString(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("save-mesh: path: %w", err)
		}
		ascii := false
		if v, ok := pa.kw["ascii"]; ok {
			ascii, err = toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("save-mesh: ascii: %w", err)
			}
		}
		if ascii {
			err = stl.SaveASCII(path, m, "patchup")
		} else {
			err = stl.SaveBinary(path, m)
		}
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("save-mesh: %w", err)
		}
		trace.Saved = append(trace.Saved, path)
		return pa.positional[0], nil
	})

	// -----------------------------------------------------------------------
	// (mesh-info m)
	// -----------------------------------------------------------------------
	env.AddFunction("mesh_info", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("mesh-info requires a mesh argument")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh-info: %w", err)
		}
		return &zygo.SexpStr{S: fmt.Sprintf("%d vertices, %d faces", m.VertexCount(), m.FaceCount())}, nil
	})

	// -----------------------------------------------------------------------
	// (candidates m)
	// -----------------------------------------------------------------------
	env.AddFunction("candidates", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("candidates requires a mesh argument")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("candidates: %w", err)
		}
		cands, err := patch.Candidates(m)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("candidates: %w", err)
		}
		items := make([]zygo.Sexp, len(cands))
		for i, c := range cands {
			items[i] = &sexpCandidate{c: c}
		}
		return zygo.MakeList(items), nil
	})

	// -----------------------------------------------------------------------
	// (best-candidate m)
	// -----------------------------------------------------------------------
	env.AddFunction("best_candidate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("best-candidate requires a mesh argument")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("best-candidate: %w", err)
		}
		cands, err := patch.Candidates(m)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("best-candidate: %w", err)
		}
		return &sexpCandidate{c: cands[0]}, nil
	})

	// -----------------------------------------------------------------------
	// (candidate-id c)
	// -----------------------------------------------------------------------
	env.AddFunction("candidate_id", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("candidate-id requires a candidate argument")
		}
		c, err := toCandidate(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("candidate-id: %w", err)
		}
		return &zygo.SexpStr{S: c.ID}, nil
	})

	// -----------------------------------------------------------------------
	// (generate m :profile :balanced)
	// -----------------------------------------------------------------------
	env.AddFunction("generate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("generate requires a mesh argument")
		}
		m, err := toMesh(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("generate: %w", err)
		}
		prof, err := profileArg(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("generate: %w", err)
		}
		res, err := patch.Generate(m, prof)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("generate: %w", err)
		}
		trace.Patches = append(trace.Patches, res)
		return &sexpPatch{res: res}, nil
	})

	// -----------------------------------------------------------------------
	// (generate-with m c :profile :durable-deep)
	// -----------------------------------------------------------------------
	env.AddFunction("generate_with", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("generate-with requires a mesh and a candidate")
		}
		m, err := toMesh(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("generate-with: %w", err)
		}
		c, err := toCandidate(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("generate-with: %w", err)
		}
		prof, err := profileArg(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("generate-with: %w", err)
		}
		res, err := patch.GenerateWithCandidate(m, c, prof)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("generate-with: %w", err)
		}
		trace.Patches = append(trace.Patches, res)
		return &sexpPatch{res: res}, nil
	})

	// -----------------------------------------------------------------------
	// (patch-mesh p)
	// -----------------------------------------------------------------------
	env.AddFunction("patch_mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("patch-mesh requires a patch argument")
		}
		res, err := toPatch(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("patch-mesh: %w", err)
		}
		return &sexpMesh{m: res.Mesh}, nil
	})

	// -----------------------------------------------------------------------
	// (profiles)
	// -----------------------------------------------------------------------
	env.AddFunction("profiles", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var items []zygo.Sexp
		for _, p := range patch.Profiles() {
			items = append(items, &zygo.SexpStr{S: p.Name})
		}
		return zygo.MakeList(items), nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var vec v3.Vec
		for i, dst := range []*float64{&vec.X, &vec.Y, &vec.Z} {
			val, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %w", err)
			}
			*dst = val
		}
		return &sexpVec3{vec: vec}, nil
	})

	// -----------------------------------------------------------------------
	// (fracture m (vec3 0 0 1) 0.01)
	// -----------------------------------------------------------------------
	env.AddFunction("fracture", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 3 {
			return zygo.SexpNull, fmt.Errorf("fracture requires a mesh, a center, and a radius")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fracture: %w", err)
		}
		center, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fracture: center: %w", err)
		}
		radius, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fracture: radius: %w", err)
		}
		return &sexpMesh{m: scan.Fracture(m, center, radius)}, nil
	})
}
