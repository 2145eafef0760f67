// Package camera provides camera implementations for 3D rendering.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Options configures an Orbital camera.
type Options struct {
	// Sensitivity
	OrbitSensitivity float32 // radians per pixel
	TrackSensitivity float32 // world units per pixel, per unit of distance
	DollySensitivity float32 // world units per pixel
	ZoomSensitivity  float32 // radians per scroll step

	// Constraints
	MaxElevation float32 // radians, applied symmetrically
	MinDistance  float32
	MaxDistance  float32
	MinFov       float32 // radians
	MaxFov       float32 // radians
}

// DefaultOptions returns the settings used by the viewer.
func DefaultOptions() Options {
	return Options{
		OrbitSensitivity: 0.01,
		TrackSensitivity: 0.002,
		DollySensitivity: 0.01,
		ZoomSensitivity:  mgl32.DegToRad(1),
		MaxElevation:     mgl32.DegToRad(89),
		MinDistance:      0.05,
		MaxDistance:      100,
		MinFov:           mgl32.DegToRad(5),
		MaxFov:           mgl32.DegToRad(120),
	}
}

// withDefaults fills every zero field from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	fill := func(v *float32, def float32) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&o.OrbitSensitivity, d.OrbitSensitivity)
	fill(&o.TrackSensitivity, d.TrackSensitivity)
	fill(&o.DollySensitivity, d.DollySensitivity)
	fill(&o.ZoomSensitivity, d.ZoomSensitivity)
	fill(&o.MaxElevation, d.MaxElevation)
	fill(&o.MinDistance, d.MinDistance)
	fill(&o.MaxDistance, d.MaxDistance)
	fill(&o.MinFov, d.MinFov)
	fill(&o.MaxFov, d.MaxFov)
	return o
}

// Orbital looks at a target from a spherical offset.
//
// Azimuth is measured around the up axis from +Z towards +X and elevation
// from the horizontal plane towards up, so azimuth 0 and elevation 0 put the
// camera on the +Z side of the target.
type Orbital struct {
	target    mgl32.Vec3
	up        mgl32.Vec3
	azimuth   float32
	elevation float32
	distance  float32
	fov       float32

	opts    Options
	initial state
}

type state struct {
	target    mgl32.Vec3
	azimuth   float32
	elevation float32
	distance  float32
	fov       float32
}

// NewOrbital creates a camera placed at position, looking at target, with
// fov as the vertical field of view in radians. up is the fixed world-up
// reference and must not be parallel to position - target.
func NewOrbital(position, target, up mgl32.Vec3, fov float32, opts Options) *Orbital {
	c := &Orbital{
		target: target,
		up:     normalizeOr(up, mgl32.Vec3{0, 1, 0}),
		opts:   opts.withDefaults(),
	}

	offset := position.Sub(target)
	c.distance = c.clampDistance(offset.Len())

	// Angles are measured in the basis formed by up and an arbitrary
	// horizontal reference, which for the usual Y-up world is +Z.
	ref, side := c.horizontalBasis()
	dir := normalizeOr(offset, ref)
	c.elevation = c.clampElevation(math32.Asin(mgl32.Clamp(dir.Dot(c.up), -1, 1)))
	c.azimuth = math32.Atan2(dir.Dot(side), dir.Dot(ref))
	c.fov = c.clampFov(fov)

	c.initial = c.snapshot()
	return c
}

// Orbit rotates around the target. dx changes azimuth, dy changes elevation;
// both are raw pointer deltas with dy already pointing up.
func (c *Orbital) Orbit(dx, dy float32) {
	c.azimuth -= dx * c.opts.OrbitSensitivity
	c.elevation = c.clampElevation(c.elevation - dy*c.opts.OrbitSensitivity)
}

// Track moves the target sideways in the camera's plane.
func (c *Orbital) Track(dx float32) {
	right, _ := c.basis()
	c.target = c.target.Sub(right.Mul(dx * c.panScale()))
}

// Pedestal moves the target vertically in the camera's plane.
func (c *Orbital) Pedestal(dy float32) {
	_, camUp := c.basis()
	c.target = c.target.Sub(camUp.Mul(dy * c.panScale()))
}

// Dolly moves the camera along the view axis. Positive dy moves closer.
func (c *Orbital) Dolly(dy float32) {
	c.distance = c.clampDistance(c.distance - dy*c.opts.DollySensitivity)
}

// Zoom narrows the field of view for positive scroll and widens it for
// negative scroll.
func (c *Orbital) Zoom(scroll float32) {
	c.fov = c.clampFov(c.fov - scroll*c.opts.ZoomSensitivity)
}

// Position returns the camera position in world space.
func (c *Orbital) Position() mgl32.Vec3 {
	return c.target.Add(c.offset())
}

// ViewMatrix returns the view matrix for this camera.
func (c *Orbital) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.target, c.up)
}

// ProjectionMatrix returns a perspective projection using the current fov.
func (c *Orbital) ProjectionMatrix(aspect, near, far float32) mgl32.Mat4 {
	return mgl32.Perspective(c.fov, aspect, near, far)
}

// Fov returns the vertical field of view in radians.
func (c *Orbital) Fov() float32 {
	return c.fov
}

// Target returns the point the camera looks at.
func (c *Orbital) Target() mgl32.Vec3 {
	return c.target
}

// Distance returns the distance from the target.
func (c *Orbital) Distance() float32 {
	return c.distance
}

// Angles returns azimuth and elevation in radians.
func (c *Orbital) Angles() (azimuth, elevation float32) {
	return c.azimuth, c.elevation
}

// Reset restores the state the camera was created with.
func (c *Orbital) Reset() {
	c.restore(c.initial)
}

// FitToBounds centres the target on the box and backs off until the
// bounding sphere fits the vertical field of view. Angles are kept.
func (c *Orbital) FitToBounds(lo, hi mgl32.Vec3) {
	c.target = lo.Add(hi).Mul(0.5)
	radius := hi.Sub(lo).Len() / 2
	if radius == 0 {
		return
	}
	c.distance = c.clampDistance(radius / math32.Sin(c.fov/2))
}

// offset converts the spherical state to a Cartesian offset from target.
func (c *Orbital) offset() mgl32.Vec3 {
	ref, side := c.horizontalBasis()
	cosEl := math32.Cos(c.elevation)
	horizontal := ref.Mul(cosEl * math32.Cos(c.azimuth)).Add(side.Mul(cosEl * math32.Sin(c.azimuth)))
	return horizontal.Add(c.up.Mul(math32.Sin(c.elevation))).Mul(c.distance)
}

// basis returns the camera's right and up vectors.
func (c *Orbital) basis() (right, camUp mgl32.Vec3) {
	forward := c.offset().Mul(-1).Normalize()
	right = normalizeOr(forward.Cross(c.up), mgl32.Vec3{1, 0, 0})
	camUp = right.Cross(forward)
	return right, camUp
}

// horizontalBasis returns two unit vectors spanning the plane orthogonal to
// up. ref is +Z projected onto that plane unless up is parallel to Z.
func (c *Orbital) horizontalBasis() (ref, side mgl32.Vec3) {
	ref = mgl32.Vec3{0, 0, 1}
	if math32.Abs(ref.Dot(c.up)) > 0.999 {
		ref = mgl32.Vec3{1, 0, 0}
	}
	ref = ref.Sub(c.up.Mul(ref.Dot(c.up))).Normalize()
	side = c.up.Cross(ref)
	return ref, side
}

// panScale keeps panning speed proportional to what is on screen.
func (c *Orbital) panScale() float32 {
	return c.opts.TrackSensitivity * c.distance
}

func (c *Orbital) clampElevation(el float32) float32 {
	return mgl32.Clamp(el, -c.opts.MaxElevation, c.opts.MaxElevation)
}

func (c *Orbital) clampDistance(d float32) float32 {
	return mgl32.Clamp(d, c.opts.MinDistance, c.opts.MaxDistance)
}

func (c *Orbital) clampFov(fov float32) float32 {
	return mgl32.Clamp(fov, c.opts.MinFov, c.opts.MaxFov)
}

func (c *Orbital) snapshot() state {
	return state{
		target:    c.target,
		azimuth:   c.azimuth,
		elevation: c.elevation,
		distance:  c.distance,
		fov:       c.fov,
	}
}

func (c *Orbital) restore(s state) {
	c.target = s.target
	c.azimuth = s.azimuth
	c.elevation = s.elevation
	c.distance = s.distance
	c.fov = s.fov
}

func normalizeOr(v, fallback mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return fallback
	}
	return v.Normalize()
}
