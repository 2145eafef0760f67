package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/celview/internal/viewer"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	if cfg.Viewer.ObjectsDir != "objects/" {
		t.Errorf("expected objects dir 'objects/', got %s", cfg.Viewer.ObjectsDir)
	}
	if cfg.Viewer.DefaultModel != "" {
		t.Errorf("expected no default model, got %s", cfg.Viewer.DefaultModel)
	}
	if cfg.Viewer.ScreenshotDir != "screenshots" {
		t.Errorf("expected screenshot dir 'screenshots', got %s", cfg.Viewer.ScreenshotDir)
	}

	if cfg.Camera.Position != (mgl32.Vec3{0.3, 0.4, 3.0}) {
		t.Errorf("unexpected camera position %v", cfg.Camera.Position)
	}
	if cfg.Camera.FovDegrees != 45 {
		t.Errorf("expected fov 45, got %g", cfg.Camera.FovDegrees)
	}
	if cfg.Camera.Near != 0.1 || cfg.Camera.Far != 10 {
		t.Errorf("expected clip range [0.1, 10], got [%g, %g]", cfg.Camera.Near, cfg.Camera.Far)
	}

	if cfg.Render.ColorBands != 5 {
		t.Errorf("expected 5 colour bands, got %d", cfg.Render.ColorBands)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestDefaultCamera(t *testing.T) {
	cam := Default().Camera.NewCamera()

	pos := cam.Position()
	if !pos.ApproxEqualThreshold(mgl32.Vec3{0.3, 0.4, 3.0}, 1e-4) {
		t.Errorf("unexpected camera position %v", pos)
	}
	if got, want := cam.Fov(), mgl32.DegToRad(45); got-want > 1e-6 || want-got > 1e-6 {
		t.Errorf("expected fov %g, got %g", want, got)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true

viewer:
  objects_dir: "models/"
  default_model: "models/dragon.obj"
  watch_objects: true

camera:
  position: [0, 0, 5]
  fov: 60

render:
  show_mesh: true
  color_bands: 8
  light_position: [1, 2, 3]
  model_color: [1, 0.5, 0]

logging:
  level: "debug"
  log_file: "celview.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Viewer.ObjectsDir != "models/" || cfg.Viewer.DefaultModel != "models/dragon.obj" {
		t.Errorf("unexpected viewer config %+v", cfg.Viewer)
	}
	if !cfg.Viewer.WatchObjects {
		t.Error("expected watch_objects to be true")
	}
	if cfg.Camera.Position != (mgl32.Vec3{0, 0, 5}) || cfg.Camera.FovDegrees != 60 {
		t.Errorf("unexpected camera config %+v", cfg.Camera)
	}
	// Keys missing from the file keep their defaults.
	if cfg.Camera.Near != 0.1 {
		t.Errorf("expected near 0.1 to survive merge, got %g", cfg.Camera.Near)
	}

	if !cfg.Render.ShowMesh || cfg.Render.ColorBands != 8 {
		t.Errorf("unexpected render settings %+v", cfg.Render)
	}
	if cfg.Render.LightPosition != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("unexpected light position %v", cfg.Render.LightPosition)
	}
	if cfg.Render.ModelColor != (viewer.Color{1, 0.5, 0}) {
		t.Errorf("unexpected model colour %v", cfg.Render.ModelColor)
	}
	if cfg.Render.Dithering != 4 {
		t.Errorf("expected dithering default 4, got %d", cfg.Render.Dithering)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "celview.log" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"no objects dir", func(c *Config) { c.Viewer.ObjectsDir = "" }, "objects_dir"},
		{"far before near", func(c *Config) { c.Camera.Far = 0.01 }, "clip range"},
		{"flat fov", func(c *Config) { c.Camera.FovDegrees = 180 }, "fov"},
		{"zero up", func(c *Config) { c.Camera.Up = mgl32.Vec3{} }, "up vector"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestShaderDir(t *testing.T) {
	v := ViewerConfig{ResourcesDir: "res"}
	if got, want := v.ShaderDir(), filepath.Join("res", "shaders"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	v.ResourcesDir = ""
	if got := v.ShaderDir(); got != "" {
		t.Errorf("expected no shader dir, got %s", got)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
	if filepath.Base(dir) != "celview" {
		t.Errorf("expected celview config dir, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func parseFlags(t *testing.T, args ...string) *Flags {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return f
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug flag",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "objects and model flags",
			args: []string{"-objects", "meshes/", "-model", "meshes/bunny.obj"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Viewer.ObjectsDir != "meshes/" {
					t.Errorf("expected objects dir meshes/, got %s", cfg.Viewer.ObjectsDir)
				}
				if cfg.Viewer.DefaultModel != "meshes/bunny.obj" {
					t.Errorf("expected model meshes/bunny.obj, got %s", cfg.Viewer.DefaultModel)
				}
			},
		},
		{
			name: "windowed flag",
			args: []string{"-windowed"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
		},
		{
			name: "fullscreen flag",
			args: []string{"-fullscreen"},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
		},
		{
			name: "width and height flags",
			args: []string{"-width", "2560", "-height", "1440"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
		},
		{
			name: "async flag",
			args: []string{"-async"},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Viewer.AsyncLoad {
					t.Error("expected async load")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			parseFlags(t, tt.args...).apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
render:
  dithering: 500
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadWith(parseFlags(t, "-config", configPath, "-width", "1920"))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width comes from the flag, height from the file.
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}

	// Render settings are clamped into panel ranges.
	if cfg.Render.Dithering != 20 {
		t.Errorf("expected dithering clamped to 20, got %d", cfg.Render.Dithering)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("camera:\n  near: 5\n  far: 1\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadWith(parseFlags(t, "-config", configPath)); err == nil {
		t.Error("expected error for inverted clip range")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Render.ShowMesh = true
	cfg.Render.Rotation = mgl32.Vec3{10, 20, 30}
	cfg.Viewer.DefaultModel = "objects/cube.obj"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	got, err := LoadWith(parseFlags(t, "-config", path))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if got.Render != cfg.Render {
		t.Errorf("render settings changed on save: %+v != %+v", got.Render, cfg.Render)
	}
	if got.Viewer.DefaultModel != "objects/cube.obj" {
		t.Errorf("unexpected default model %s", got.Viewer.DefaultModel)
	}
}

func TestSave(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("APPDATA", t.TempDir())

	path, err := Default().Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("saved config missing: %v", err)
	}
}
