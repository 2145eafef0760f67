package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViewerCamera() *Orbital {
	return NewOrbital(
		mgl32.Vec3{0.3, 0.4, 3.0},
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{0, 1, 0},
		mgl32.DegToRad(45),
		DefaultOptions(),
	)
}

func assertVecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-4), "want %v, got %v", want, got)
}

func TestNewOrbitalRoundTripsPosition(t *testing.T) {
	c := newViewerCamera()

	assertVecNear(t, mgl32.Vec3{0.3, 0.4, 3.0}, c.Position())
	assert.InDelta(t, 3.0414, c.Distance(), 1e-3)
	assert.InDelta(t, mgl32.DegToRad(45), c.Fov(), 1e-6)
}

func TestViewMatrixLooksAtTarget(t *testing.T) {
	c := newViewerCamera()
	view := c.ViewMatrix()

	// The target lands on the negative view axis at the orbit distance.
	p := view.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, p.X(), 1e-4)
	assert.InDelta(t, 0, p.Y(), 1e-4)
	assert.InDelta(t, -c.Distance(), p.Z(), 1e-4)

	// The camera itself maps to the origin.
	eye := view.Mul4x1(c.Position().Vec4(1))
	assertVecNear(t, mgl32.Vec3{}, eye.Vec3())
}

func TestOrbitProportionalToDelta(t *testing.T) {
	c := newViewerCamera()
	az0, el0 := c.Angles()

	c.Orbit(10, 0)
	az1, el1 := c.Angles()
	assert.InDelta(t, -10*DefaultOptions().OrbitSensitivity, az1-az0, 1e-6)
	assert.Equal(t, el0, el1)

	c.Orbit(0, -5)
	_, el2 := c.Angles()
	assert.InDelta(t, 5*DefaultOptions().OrbitSensitivity, el2-el1, 1e-6)

	// Distance is untouched by orbiting.
	assert.InDelta(t, 3.0414, c.Position().Len(), 1e-3)
}

func TestOrbitClampsElevation(t *testing.T) {
	c := newViewerCamera()
	limit := DefaultOptions().MaxElevation

	for i := 0; i < 1000; i++ {
		c.Orbit(0, -100)
	}
	_, el := c.Angles()
	assert.InDelta(t, limit, el, 1e-6)

	for i := 0; i < 1000; i++ {
		c.Orbit(0, 100)
	}
	_, el = c.Angles()
	assert.InDelta(t, -limit, el, 1e-6)

	// Still a usable view matrix near the pole.
	for _, v := range c.ViewMatrix() {
		assert.False(t, math32.IsNaN(v), "NaN in view matrix")
	}
}

func TestTrackAndPedestalMoveTarget(t *testing.T) {
	c := NewOrbital(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, mgl32.DegToRad(45), DefaultOptions())
	scale := DefaultOptions().TrackSensitivity * 5

	c.Track(10)
	assertVecNear(t, mgl32.Vec3{-10 * scale, 0, 0}, c.Target())

	c.Pedestal(10)
	assertVecNear(t, mgl32.Vec3{-10 * scale, -10 * scale, 0}, c.Target())

	// The camera moves with its target.
	assertVecNear(t, c.Target().Add(mgl32.Vec3{0, 0, 5}), c.Position())
}

func TestDollyMonotonicAndBounded(t *testing.T) {
	opts := DefaultOptions()
	c := newViewerCamera()

	prev := c.Distance()
	for i := 0; i < 10000; i++ {
		c.Dolly(50)
		d := c.Distance()
		require.LessOrEqual(t, d, prev)
		require.Greater(t, d, float32(0))
		prev = d
	}
	assert.Equal(t, opts.MinDistance, c.Distance())

	for i := 0; i < 10000; i++ {
		c.Dolly(-50)
		d := c.Distance()
		require.GreaterOrEqual(t, d, prev)
		prev = d
	}
	assert.Equal(t, opts.MaxDistance, c.Distance())
}

func TestZoomMonotonicAndBounded(t *testing.T) {
	opts := DefaultOptions()
	c := newViewerCamera()

	prev := c.Fov()
	for i := 0; i < 500; i++ {
		c.Zoom(1)
		require.LessOrEqual(t, c.Fov(), prev)
		prev = c.Fov()
	}
	assert.Equal(t, opts.MinFov, c.Fov())
	assert.Greater(t, c.Fov(), float32(0))

	for i := 0; i < 500; i++ {
		c.Zoom(-1)
		require.GreaterOrEqual(t, c.Fov(), prev)
		prev = c.Fov()
	}
	assert.Equal(t, opts.MaxFov, c.Fov())
	assert.Less(t, c.Fov(), float32(mgl32.DegToRad(180)))
}

func TestResetRestoresInitialState(t *testing.T) {
	c := newViewerCamera()
	pos := c.Position()

	c.Orbit(30, 40)
	c.Track(12)
	c.Dolly(3)
	c.Zoom(2)
	c.Reset()

	assertVecNear(t, pos, c.Position())
	assertVecNear(t, mgl32.Vec3{}, c.Target())
	assert.InDelta(t, mgl32.DegToRad(45), c.Fov(), 1e-6)
}

func TestFitToBounds(t *testing.T) {
	c := newViewerCamera()
	c.FitToBounds(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 3, 1})

	assertVecNear(t, mgl32.Vec3{0, 1, 0}, c.Target())
	assert.Greater(t, c.Distance(), float32(2.4))

	// A point-sized box only recentres.
	d := c.Distance()
	c.FitToBounds(mgl32.Vec3{2, 2, 2}, mgl32.Vec3{2, 2, 2})
	assertVecNear(t, mgl32.Vec3{2, 2, 2}, c.Target())
	assert.Equal(t, d, c.Distance())
}

func TestZeroOptionsFallBackToDefaults(t *testing.T) {
	c := NewOrbital(mgl32.Vec3{0, 0, 2}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, mgl32.DegToRad(45), Options{})
	assert.InDelta(t, 2, c.Distance(), 1e-6)

	c.Dolly(1e6)
	assert.Equal(t, DefaultOptions().MinDistance, c.Distance())
}
