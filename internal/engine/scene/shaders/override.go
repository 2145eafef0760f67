package shaders

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Override returns s with its stages replaced by <dir>/<name>.vert and
// <dir>/<name>.frag where those files exist. An empty dir returns s as is.
// The second result lists the files that were used.
func Override(dir string, s Source) (Source, []string, error) {
	if dir == "" {
		return s, nil, nil
	}

	var used []string
	read := func(ext string, dst *string) error {
		path := filepath.Join(dir, s.Name+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("shader %s: %w", path, err)
		}
		*dst = string(data)
		used = append(used, path)
		return nil
	}

	if err := read(".vert", &s.Vertex); err != nil {
		return s, used, err
	}
	if err := read(".frag", &s.Fragment); err != nil {
		return s, used, err
	}
	return s, used, nil
}
