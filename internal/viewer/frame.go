package viewer

import "github.com/go-gl/mathgl/mgl32"

// View is what a frame needs from the camera.
type View interface {
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix(aspect, near, far float32) mgl32.Mat4
	Position() mgl32.Vec3
}

// Frame is an immutable snapshot of everything one render needs besides the
// mesh itself.
type Frame struct {
	Settings   Settings
	Model      mgl32.Mat4
	Marker     mgl32.Mat4
	View       mgl32.Mat4
	Projection mgl32.Mat4
	ViewPos    mgl32.Vec3
	Width      int32
	Height     int32
}

// NewFrame captures s and the camera state for a viewport of the given size.
func NewFrame(s Settings, cam View, width, height int32, near, far float32) Frame {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return Frame{
		Settings:   s,
		Model:      s.ModelMatrix(),
		Marker:     s.LightMarkerMatrix(),
		View:       cam.ViewMatrix(),
		Projection: cam.ProjectionMatrix(aspect, near, far),
		ViewPos:    cam.Position(),
		Width:      width,
		Height:     height,
	}
}
