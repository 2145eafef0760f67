// Package library discovers the OBJ models available to the viewer and
// tracks which one is selected.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Ext is the model file extension, matched case-sensitively.
const Ext = ".obj"

// ListObjFiles lists dir and returns prefix+name for every entry whose name
// ends in ".obj" and is longer than the extension alone. Hidden files and
// subdirectories are skipped. Entries are sorted by name. A listing failure
// returns nil and the error.
func ListObjFiles(dir, prefix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsObjName(e.Name()) {
			continue
		}
		files = append(files, prefix+e.Name())
	}
	return files, nil
}

// IsObjName reports whether name is a visible model file name.
func IsObjName(name string) bool {
	return len(name) > len(Ext) && strings.HasSuffix(name, Ext) && !strings.HasPrefix(name, ".")
}

// Library is the list of known model files plus the current selection.
// It is safe for concurrent use.
type Library struct {
	dir    string
	prefix string

	mu       sync.RWMutex
	files    []string
	selected int // -1 when nothing is selected
}

// New creates a library over dir. Entries are reported as prefix+name; pass
// an empty prefix to get dir-joined paths.
func New(dir, prefix string) *Library {
	if prefix == "" {
		prefix = filepath.Clean(dir) + string(filepath.Separator)
	}
	return &Library{dir: dir, prefix: prefix, selected: -1}
}

// Dir returns the directory being listed.
func (l *Library) Dir() string {
	return l.dir
}

// Refresh re-lists the directory. The selection follows its file when the
// file is still present, and falls back to the first entry otherwise. A
// selected file from outside the directory stays at the end of the list.
func (l *Library) Refresh() error {
	files, err := ListObjFiles(l.dir, l.prefix)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current := ""
	if l.selected >= 0 {
		current = l.files[l.selected]
	}
	if current != "" && !l.inDir(current) && indexOf(files, current) < 0 {
		files = append(files, current)
	}
	l.files = files
	l.selected = indexOf(files, current)
	if l.selected < 0 && len(files) > 0 {
		l.selected = 0
	}
	return nil
}

// Files returns a copy of the model list.
func (l *Library) Files() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.files...)
}

// Len returns the number of models.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.files)
}

// Selected returns the selected file and its index, or "" and -1.
func (l *Library) Selected() (string, int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.selected < 0 {
		return "", -1
	}
	return l.files[l.selected], l.selected
}

// Select makes path the selection. A path naming a file of the listed
// directory in another form (absolute, unclean) selects the listed entry.
// Unknown paths are added to the end of the list, which is how files opened
// from elsewhere appear. It reports whether the selection changed.
func (l *Library) Select(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	path = l.canonical(path)
	i := indexOf(l.files, path)
	if i < 0 {
		l.files = append(l.files, path)
		i = len(l.files) - 1
	}
	changed := i != l.selected
	l.selected = i
	return changed
}

// SelectIndex selects the i-th file. Out of range indices are ignored.
func (l *Library) SelectIndex(i int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.files) || i == l.selected {
		return false
	}
	l.selected = i
	return true
}

// Next selects the following file, wrapping around, and returns it.
func (l *Library) Next() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.files) == 0 {
		return ""
	}
	l.selected = (l.selected + 1) % len(l.files)
	return l.files[l.selected]
}

// canonical maps a path to a file directly inside the listed directory onto
// its prefix+name form.
func (l *Library) canonical(path string) string {
	if SamePath(filepath.Dir(path), l.dir) {
		return l.prefix + filepath.Base(path)
	}
	return path
}

// inDir reports whether path is in the prefix+name form of a listed entry.
func (l *Library) inDir(path string) bool {
	return path == l.prefix+filepath.Base(path)
}

// SamePath reports whether a and b name the same location, comparing
// absolute cleaned forms.
func SamePath(a, b string) bool {
	if a == b {
		return true
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// DisplayName is the base name shown in pickers.
func DisplayName(path string) string {
	return filepath.Base(path)
}

func indexOf(files []string, path string) int {
	if path == "" {
		return -1
	}
	for i, f := range files {
		if f == path {
			return i
		}
	}
	return -1
}
