// Package debug saves what the viewer renders to disk.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/celview/internal/logger"
)

const timestampLayout = "2006-01-02_15-04-05"

// Screenshots writes RGBA pixel dumps as PNG files named
// <prefix>_<timestamp>.png inside a directory.
type Screenshots struct {
	dir    string
	prefix string

	// now is replaced in tests.
	now func() time.Time
}

// NewScreenshots creates a writer. An empty dir means the working directory.
func NewScreenshots(dir, prefix string) *Screenshots {
	if prefix == "" {
		prefix = "screenshot"
	}
	return &Screenshots{dir: dir, prefix: prefix, now: time.Now}
}

// Dir returns the output directory.
func (s *Screenshots) Dir() string {
	return s.dir
}

// Save writes width x height RGBA pixels read back from OpenGL. Rows are
// flipped since GL's origin is bottom-left.
func (s *Screenshots) Save(pixels []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid screenshot size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return s.write(img)
}

func (s *Screenshots) write(img image.Image) (string, error) {
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	path := s.nextName()
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", err
	}

	logger.Info("screenshot saved",
		zap.String("path", path),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return path, nil
}

// nextName picks a file name that does not exist yet. Two shots within the
// same second get a numeric suffix.
func (s *Screenshots) nextName() string {
	base := fmt.Sprintf("%s_%s", s.prefix, s.now().Format(timestampLayout))
	name := filepath.Join(s.dir, base+".png")
	for i := 1; fileExists(name); i++ {
		name = filepath.Join(s.dir, fmt.Sprintf("%s_%d.png", base, i))
	}
	return name
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
