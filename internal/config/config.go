// Package config handles viewer configuration loading and management.
package config

import (
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/celview/internal/engine/camera"
	"github.com/Faultbox/celview/internal/viewer"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig    `yaml:"window"`
	Viewer  ViewerConfig    `yaml:"viewer"`
	Camera  CameraConfig    `yaml:"camera"`
	Render  viewer.Settings `yaml:"render"`
	Logging LoggingConfig   `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// ViewerConfig holds where models and shaders come from.
type ViewerConfig struct {
	ResourcesDir  string `yaml:"resources_dir"` // shader overrides live in <resources_dir>/shaders
	ObjectsDir    string `yaml:"objects_dir"`
	DefaultModel  string `yaml:"default_model"` // empty = first file listed
	WatchObjects  bool   `yaml:"watch_objects"`
	AsyncLoad     bool   `yaml:"async_load"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// CameraConfig holds the initial orbital camera and its interaction limits.
// Angles are in degrees.
type CameraConfig struct {
	Position   mgl32.Vec3 `yaml:"position"`
	Target     mgl32.Vec3 `yaml:"target"`
	Up         mgl32.Vec3 `yaml:"up"`
	FovDegrees float32    `yaml:"fov"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`

	OrbitSensitivity float32 `yaml:"orbit_sensitivity"`
	TrackSensitivity float32 `yaml:"track_sensitivity"`
	DollySensitivity float32 `yaml:"dolly_sensitivity"`
	ZoomDegrees      float32 `yaml:"zoom_step"`

	MaxElevation float32 `yaml:"max_elevation"`
	MinDistance  float32 `yaml:"min_distance"`
	MaxDistance  float32 `yaml:"max_distance"`
	MinFov       float32 `yaml:"min_fov"`
	MaxFov       float32 `yaml:"max_fov"`

	FitOnLoad bool `yaml:"fit_on_load"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "celview",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Viewer: ViewerConfig{
			ResourcesDir:  "resources",
			ObjectsDir:    "objects/",
			ScreenshotDir: "screenshots",
		},
		Camera: CameraConfig{
			Position:         mgl32.Vec3{0.3, 0.4, 3.0},
			Target:           mgl32.Vec3{0, 0, 0},
			Up:               mgl32.Vec3{0, 1, 0},
			FovDegrees:       45,
			Near:             0.1,
			Far:              10,
			OrbitSensitivity: 0.01,
			TrackSensitivity: 0.002,
			DollySensitivity: 0.01,
			ZoomDegrees:      1,
			MaxElevation:     89,
			MinDistance:      0.05,
			MaxDistance:      100,
			MinFov:           5,
			MaxFov:           120,
		},
		Render: viewer.DefaultSettings(),
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Options converts the interaction limits to camera options.
func (c CameraConfig) Options() camera.Options {
	return camera.Options{
		OrbitSensitivity: c.OrbitSensitivity,
		TrackSensitivity: c.TrackSensitivity,
		DollySensitivity: c.DollySensitivity,
		ZoomSensitivity:  mgl32.DegToRad(c.ZoomDegrees),
		MaxElevation:     mgl32.DegToRad(c.MaxElevation),
		MinDistance:      c.MinDistance,
		MaxDistance:      c.MaxDistance,
		MinFov:           mgl32.DegToRad(c.MinFov),
		MaxFov:           mgl32.DegToRad(c.MaxFov),
	}
}

// NewCamera builds the initial orbital camera.
func (c CameraConfig) NewCamera() *camera.Orbital {
	return camera.NewOrbital(c.Position, c.Target, c.Up, mgl32.DegToRad(c.FovDegrees), c.Options())
}

// ShaderDir is where shader overrides are looked up. Empty when no
// resources directory is configured.
func (v ViewerConfig) ShaderDir() string {
	if v.ResourcesDir == "" {
		return ""
	}
	return filepath.Join(v.ResourcesDir, "shaders")
}
