package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Record keywords honoured by the parser.
const (
	KeywordVertex   = "v"
	KeywordTexCoord = "vt"
	KeywordFace     = "f"
)

// maxLineSize bounds a single record line.
const maxLineSize = 1 << 20

// Parse errors wrapped by LineError.
var (
	ErrFieldCount    = errors.New("wrong number of fields")
	ErrFaceArity     = errors.New("face is not a triangle")
	ErrIndexRange    = errors.New("vertex index out of range")
	ErrInvalidNumber = errors.New("invalid number")
)

// LineError describes a record line that was skipped.
type LineError struct {
	Path    string // empty when parsing a bare reader
	Line    int    // 1-based
	Keyword string
	Err     error
}

func (e *LineError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d: %q record: %v", e.Path, e.Line, e.Keyword, e.Err)
	}
	return fmt.Sprintf("line %d: %q record: %v", e.Line, e.Keyword, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ParseVertices reads every "v" record. Each must hold exactly three numbers.
func ParseVertices(r io.Reader) ([]float32, []*LineError, error) {
	var positions []float32
	lineErrs, err := scanRecords(r, KeywordVertex, func(fields []string) error {
		if len(fields) != 3 {
			return fmt.Errorf("%w: got %d, want 3", ErrFieldCount, len(fields))
		}
		xyz, err := parseFloats(fields)
		if err != nil {
			return err
		}
		positions = append(positions, xyz...)
		return nil
	})
	return positions, lineErrs, err
}

// ParseTexCoords reads every "vt" record. Two or three numbers are accepted;
// a missing third component is stored as 0 so the result stays triples.
func ParseTexCoords(r io.Reader) ([]float32, []*LineError, error) {
	var coords []float32
	lineErrs, err := scanRecords(r, KeywordTexCoord, func(fields []string) error {
		if len(fields) != 2 && len(fields) != 3 {
			return fmt.Errorf("%w: got %d, want 2 or 3", ErrFieldCount, len(fields))
		}
		uvw, err := parseFloats(fields)
		if err != nil {
			return err
		}
		if len(uvw) == 2 {
			uvw = append(uvw, 0)
		}
		coords = append(coords, uvw...)
		return nil
	})
	return coords, lineErrs, err
}

// ParseFaces reads every "f" record as a triangle of one-based indices and
// returns them zero-based. Tokens like "7/3/2" use the position index.
func ParseFaces(r io.Reader) ([]uint32, []*LineError, error) {
	var faces []uint32
	lineErrs, err := scanRecords(r, KeywordFace, func(fields []string) error {
		if len(fields) != 3 {
			return fmt.Errorf("%w: got %d indices", ErrFaceArity, len(fields))
		}
		var tri [3]uint32
		for i, f := range fields {
			idx, err := parseIndex(f)
			if err != nil {
				return err
			}
			tri[i] = idx
		}
		faces = append(faces, tri[:]...)
		return nil
	})
	return faces, lineErrs, err
}

// ReadVertices parses the "v" records of the file at path.
func ReadVertices(path string) ([]float32, []*LineError, error) {
	return readFile(path, ParseVertices)
}

// ReadTexCoords parses the "vt" records of the file at path.
func ReadTexCoords(path string) ([]float32, []*LineError, error) {
	return readFile(path, ParseTexCoords)
}

// ReadFaces parses the "f" records of the file at path.
func ReadFaces(path string) ([]uint32, []*LineError, error) {
	return readFile(path, ParseFaces)
}

func readFile[T any](path string, parse func(io.Reader) ([]T, []*LineError, error)) ([]T, []*LineError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	out, lineErrs, err := parse(f)
	for _, le := range lineErrs {
		le.Path = path
	}
	if err != nil {
		return out, lineErrs, fmt.Errorf("read %s: %w", path, err)
	}
	return out, lineErrs, nil
}

// scanRecords calls fn with the remaining fields of every line whose first
// token is exactly keyword. Errors from fn become LineErrors; the returned
// error is reserved for read failures.
func scanRecords(r io.Reader, keyword string, fn func(fields []string) error) ([]*LineError, error) {
	var lineErrs []*LineError

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != keyword {
			continue
		}
		if err := fn(fields[1:]); err != nil {
			lineErrs = append(lineErrs, &LineError{Line: line, Keyword: keyword, Err: err})
		}
	}
	return lineErrs, scanner.Err()
}

func parseFloats(fields []string) ([]float32, error) {
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidNumber, f)
		}
		out[i] = float32(v)
	}
	return out, nil
}

func parseIndex(token string) (uint32, error) {
	if slash := strings.IndexByte(token, '/'); slash >= 0 {
		token = token[:slash]
	}
	v, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, token)
	}
	if v < 1 || v > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d", ErrIndexRange, v)
	}
	return uint32(v - 1), nil
}
