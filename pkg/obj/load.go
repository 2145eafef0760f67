package obj

import (
	"bytes"
	"fmt"
	"os"
)

// Report collects everything LoadModel had to skip or could not read.
type Report struct {
	Path string

	// Err is set when the file could not be read, or could only be read
	// partially (for example a record line longer than the scanner allows).
	Err error

	// Lines holds one entry per malformed record, in file order per kind.
	Lines []*LineError

	// SkippedFaces counts triangles dropped for referencing a vertex that
	// does not exist.
	SkippedFaces int
}

// Clean reports whether the file was read without any problem.
func (r *Report) Clean() bool {
	return r.Err == nil && len(r.Lines) == 0 && r.SkippedFaces == 0
}

// LoadModel builds a complete Mesh from the file at path. The returned mesh
// is never nil: an unreadable file yields an empty mesh, malformed records
// are skipped and faces with out-of-range indices are dropped, all of which
// is described by the Report.
func LoadModel(path string) (*Mesh, *Report) {
	rep := &Report{Path: path}
	mesh := &Mesh{}

	data, err := os.ReadFile(path)
	if err != nil {
		rep.Err = fmt.Errorf("read %s: %w", path, err)
		return mesh, rep
	}

	var lineErrs []*LineError
	mesh.Positions, lineErrs, err = ParseVertices(bytes.NewReader(data))
	rep.add(lineErrs, err)
	mesh.Faces, lineErrs, err = ParseFaces(bytes.NewReader(data))
	rep.add(lineErrs, err)
	mesh.TexCoords, lineErrs, err = ParseTexCoords(bytes.NewReader(data))
	rep.add(lineErrs, err)

	mesh.Faces, rep.SkippedFaces = dropOutOfRange(mesh.Faces, uint32(mesh.VertexCount()))
	mesh.Normals = ComputeNormals(mesh.Positions, mesh.Faces)

	return mesh, rep
}

func (r *Report) add(lineErrs []*LineError, err error) {
	for _, le := range lineErrs {
		le.Path = r.Path
	}
	r.Lines = append(r.Lines, lineErrs...)
	if err != nil && r.Err == nil {
		// Scanning stopped early; what was read so far is kept.
		r.Err = fmt.Errorf("read %s: %w", r.Path, err)
	}
}

// dropOutOfRange removes triangles that reference an index >= n, in place.
func dropOutOfRange(faces []uint32, n uint32) ([]uint32, int) {
	kept := faces[:0]
	skipped := 0
	for f := 0; f+2 < len(faces); f += 3 {
		if faces[f] >= n || faces[f+1] >= n || faces[f+2] >= n {
			skipped++
			continue
		}
		kept = append(kept, faces[f], faces[f+1], faces[f+2])
	}
	return kept, skipped
}
