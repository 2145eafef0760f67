// Package viewer holds the GPU-free state of the model viewer: the tunable
// render settings, the per-frame snapshot handed to the renderer, and the
// store through which loaded meshes are published.
package viewer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Color is an RGB triple in [0,1].
type Color [3]float32

// Vec3 returns the colour as a vector.
func (c Color) Vec3() mgl32.Vec3 {
	return mgl32.Vec3(c)
}

// Gray returns a colour with all channels set to v.
func Gray(v float32) Color {
	return Color{v, v, v}
}

// Slider ranges exposed by the control panel.
const (
	MinOutlineThickness = 0.0
	MaxOutlineThickness = 0.1
	MinRotation         = -360.0
	MaxRotation         = 360.0
	MinLightCoord       = -100.0
	MaxLightCoord       = 100.0
	MinColorBands       = 1
	MaxColorBands       = 50
	MinEdgeThreshold    = 0.0
	MaxEdgeThreshold    = 1.0
	MinDithering        = 1
	MaxDithering        = 20
)

// Model placement constants.
const (
	ModelDrop        = 0.3  // the model is lowered by this much before rotation
	LightMarkerScale = 0.2  // scale of the mesh copy drawn at the light
	LightMarkerYaw   = 45.0 // degrees
)

// Settings is the complete set of tunable render parameters for one frame.
// It is a value: the panel returns a new Settings instead of mutating the
// one the renderer is reading.
type Settings struct {
	Background Color `yaml:"background"`
	ShowMesh   bool  `yaml:"show_mesh"`

	ModelColor       Color      `yaml:"model_color"`
	OutlineColor     Color      `yaml:"outline_color"`
	OutlineThickness float32    `yaml:"outline_thickness"`
	Rotation         mgl32.Vec3 `yaml:"rotation"` // degrees about X, Y, Z

	LightPosition mgl32.Vec3 `yaml:"light_position"`
	LightColor    Color      `yaml:"light_color"`

	ColorBands     int32   `yaml:"color_bands"`
	EdgeThreshold  float32 `yaml:"edge_threshold"`
	EdgeColor      Color   `yaml:"edge_color"`
	Dithering      int32   `yaml:"dithering"`
	DitheringColor Color   `yaml:"dithering_color"`
}

// DefaultSettings returns the look the viewer starts with.
func DefaultSettings() Settings {
	return Settings{
		Background:       Gray(0),
		ModelColor:       Gray(1),
		OutlineColor:     Gray(0),
		OutlineThickness: 0.01,
		Rotation:         mgl32.Vec3{0, -120, 0},
		LightPosition:    mgl32.Vec3{0.5, 1.0, 4.0},
		LightColor:       Gray(0.8),
		ColorBands:       5,
		EdgeThreshold:    0.3,
		EdgeColor:        Gray(0),
		Dithering:        4,
		DitheringColor:   Gray(0),
	}
}

// Clamp returns a copy with every field forced into its panel range.
// Values loaded from a config file go through here before first use.
func (s Settings) Clamp() Settings {
	s.Background = s.Background.clamp()
	s.ModelColor = s.ModelColor.clamp()
	s.OutlineColor = s.OutlineColor.clamp()
	s.LightColor = s.LightColor.clamp()
	s.EdgeColor = s.EdgeColor.clamp()
	s.DitheringColor = s.DitheringColor.clamp()

	s.OutlineThickness = mgl32.Clamp(s.OutlineThickness, MinOutlineThickness, MaxOutlineThickness)
	s.EdgeThreshold = mgl32.Clamp(s.EdgeThreshold, MinEdgeThreshold, MaxEdgeThreshold)
	for i := range s.Rotation {
		s.Rotation[i] = mgl32.Clamp(s.Rotation[i], MinRotation, MaxRotation)
		s.LightPosition[i] = mgl32.Clamp(s.LightPosition[i], MinLightCoord, MaxLightCoord)
	}
	s.ColorBands = clampInt(s.ColorBands, MinColorBands, MaxColorBands)
	s.Dithering = clampInt(s.Dithering, MinDithering, MaxDithering)
	return s
}

// ModelMatrix rotates about X, then Y, then Z (as a product Rx·Ry·Rz) after
// lowering the model by ModelDrop.
func (s Settings) ModelMatrix() mgl32.Mat4 {
	rx := mgl32.HomogRotate3DX(mgl32.DegToRad(s.Rotation.X()))
	ry := mgl32.HomogRotate3DY(mgl32.DegToRad(s.Rotation.Y()))
	rz := mgl32.HomogRotate3DZ(mgl32.DegToRad(s.Rotation.Z()))
	return rx.Mul4(ry).Mul4(rz).Mul4(mgl32.Translate3D(0, -ModelDrop, 0))
}

// LightMarkerMatrix places the small copy of the model drawn at the light.
func (s Settings) LightMarkerMatrix() mgl32.Mat4 {
	p := s.LightPosition
	return mgl32.Translate3D(p.X(), p.Y(), p.Z()).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(LightMarkerYaw))).
		Mul4(mgl32.Scale3D(LightMarkerScale, LightMarkerScale, LightMarkerScale))
}

func (c Color) clamp() Color {
	for i := range c {
		c[i] = mgl32.Clamp(c[i], 0, 1)
	}
	return c
}

func clampInt(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
