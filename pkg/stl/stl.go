// Package stl exchanges triangle meshes with the capture and export
// collaborators in STL form. Readers weld the file's unshared corner
// vertices into an indexed mesh so boundary detection sees real topology.
// The repair engine itself stays format-blind.
package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chamlis/patchup/pkg/mesh"
)

// binaryHeaderSize is the fixed STL binary preamble: 80-byte header plus a
// uint32 triangle count.
const binaryHeaderSize = 84

// binaryRecordSize is one binary facet: normal, three vertices, attribute.
const binaryRecordSize = 50

// Read loads an STL file (binary or ASCII, auto-detected) and welds it
// into an indexed mesh.
func Read(path string) (*mesh.Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("stl: read %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses STL bytes, auto-detecting the binary and ASCII variants.
// A file may start with "solid" and still be binary, so the record math
// decides.
func Decode(data []byte) (*mesh.Mesh, error) {
	if isBinary(data) {
		return decodeBinary(data)
	}
	return decodeASCII(data)
}

func isBinary(data []byte) bool {
	if len(data) < binaryHeaderSize {
		return false
	}
	count := binary.LittleEndian.Uint32(data[80:84])
	return len(data) == binaryHeaderSize+int(count)*binaryRecordSize
}

func decodeBinary(data []byte) (*mesh.Mesh, error) {
	count := binary.LittleEndian.Uint32(data[80:84])
	buf := bytes.NewReader(data[binaryHeaderSize:])
	b := mesh.NewBuilder()
	for i := uint32(0); i < count; i++ {
		var rec struct {
			Normal   [3]float32
			Vertices [3][3]float32
			Attr     uint16
		}
		if err := binary.Read(buf, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("stl: facet %d: %w", i, err)
		}
		b.AddTriangle(toVec(rec.Vertices[0]), toVec(rec.Vertices[1]), toVec(rec.Vertices[2]))
	}
	return b.Build(), nil
}

func toVec(v [3]float32) v3.Vec {
	return v3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

func decodeASCII(data []byte) (*mesh.Mesh, error) {
	b := mesh.NewBuilder()
	var tri []v3.Vec

	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != "vertex" {
			continue
		}
		if len(fields) != 4 {
			return nil, fmt.Errorf("stl: line %d: vertex needs 3 coordinates", line)
		}
		var p v3.Vec
		for i, dst := range []*float64{&p.X, &p.Y, &p.Z} {
			val, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("stl: line %d: %w", line, err)
			}
			*dst = val
		}
		tri = append(tri, p)
		if len(tri) == 3 {
			b.AddTriangle(tri[0], tri[1], tri[2])
			tri = tri[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("stl: scan: %w", err)
	}
	if len(tri) != 0 {
		return nil, fmt.Errorf("stl: dangling vertices at end of file")
	}
	m := b.Build()
	if m.IsEmpty() {
		return nil, fmt.Errorf("stl: no facets found")
	}
	return m, nil
}

// WriteASCII emits the mesh in the ASCII solid-facet format.
func WriteASCII(w io.Writer, m *mesh.Mesh, name string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for _, f := range m.Faces {
		a := m.Vertices[f[0]]
		b := m.Vertices[f[1]]
		c := m.Vertices[f[2]]
		n := faceNormal(a, b, c)
		fmt.Fprintf(bw, "  facet normal %g %g %g\n", n.X, n.Y, n.Z)
		fmt.Fprintf(bw, "    outer loop\n")
		for _, p := range []v3.Vec{a, b, c} {
			fmt.Fprintf(bw, "      vertex %g %g %g\n", p.X, p.Y, p.Z)
		}
		fmt.Fprintf(bw, "    endloop\n")
		fmt.Fprintf(bw, "  endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}

// SaveASCII writes the ASCII form to a file.
func SaveASCII(path string, m *mesh.Mesh, name string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("stl: create %s: %w", path, err)
	}
	defer file.Close()
	return WriteASCII(file, m, name)
}

// SaveBinary writes the binary form via the sdfx renderer's STL writer.
func SaveBinary(path string, m *mesh.Mesh) error {
	tris := make([]*sdf.Triangle3, 0, len(m.Faces))
	for _, f := range m.Faces {
		t := sdf.Triangle3{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
		tris = append(tris, &t)
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("stl: save %s: %w", path, err)
	}
	return nil
}

func faceNormal(a, b, c v3.Vec) v3.Vec {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Length() == 0 {
		return n
	}
	return n.Normalize()
}
