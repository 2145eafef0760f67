package input

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/celview/internal/engine/camera"
)

// recorder logs every mutator call.
type recorder struct {
	calls []string
}

func (r *recorder) Orbit(dx, dy float32) { r.calls = append(r.calls, fmt.Sprintf("orbit %g %g", dx, dy)) }
func (r *recorder) Track(dx float32) { r.calls = append(r.calls, fmt.Sprintf("track %g", dx)) }
func (r *recorder) Pedestal(dy float32) { r.calls = append(r.calls, fmt.Sprintf("pedestal %g", dy)) }
func (r *recorder) Dolly(dy float32) { r.calls = append(r.calls, fmt.Sprintf("dolly %g", dy)) }
func (r *recorder) Zoom(s float32) { r.calls = append(r.calls, fmt.Sprintf("zoom %g", s)) }

func TestModeForButton(t *testing.T) {
	tests := []struct {
		btn  Button
		want Mode
	}{
		{ButtonNone, ModeNone},
		{ButtonLeft, ModeOrbit},
		{ButtonRight, ModeTrackPedestal},
		{ButtonMiddle, ModeDolly},
		{Button(42), ModeNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ModeForButton(tt.btn), "button %d", tt.btn)
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "orbit", ModeOrbit.String())
	assert.Equal(t, "track/pedestal", ModeTrackPedestal.String())
	assert.Equal(t, "dolly", ModeDolly.String())
	assert.Equal(t, "none", ModeNone.String())
}

func TestControllerDispatch(t *testing.T) {
	tests := []struct {
		name string
		btn  Button
		want []string
	}{
		{"left orbits", ButtonLeft, []string{"orbit 5 -3"}},
		{"right tracks and pedestals", ButtonRight, []string{"track 5", "pedestal -3"}},
		{"middle dollies", ButtonMiddle, []string{"dolly -3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			c := NewController(rec)

			c.Press(tt.btn)
			c.Move(100, 100)
			assert.Empty(t, rec.calls, "first move only sets the baseline")

			// Pointer moves right and down; vertical delta is inverted.
			c.Move(105, 103)
			assert.Equal(t, tt.want, rec.calls)
		})
	}
}

func TestControllerIgnoresMovesWithoutButton(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec)

	c.Move(0, 0)
	c.Move(50, 50)
	assert.Empty(t, rec.calls)
	assert.Equal(t, ModeNone, c.Mode())
}

func TestControllerRelease(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec)

	c.Press(ButtonLeft)
	c.Release(ButtonRight)
	assert.Equal(t, ModeOrbit, c.Mode(), "foreign release keeps the mode")

	c.Release(ButtonLeft)
	assert.Equal(t, ModeNone, c.Mode())

	// A fresh press re-arms first-move suppression far from the old sample.
	c.Press(ButtonLeft)
	c.Move(10, 10)
	c.Move(500, 500)
	c.Press(ButtonMiddle)
	c.Move(0, 0)
	assert.Equal(t, []string{"orbit 490 -490"}, rec.calls)
}

func TestControllerScrollAlwaysZooms(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec)

	c.Scroll(1)
	c.Press(ButtonRight)
	c.Scroll(-2)
	c.Scroll(0)
	assert.Equal(t, []string{"zoom 1", "zoom -2"}, rec.calls)
}

func TestControllerHandle(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec)

	for _, e := range []Event{
		{Type: EventMouseDown, Button: ButtonMiddle},
		{Type: EventMouseMove, MouseX: 4, MouseY: 10},
		{Type: EventMouseMove, MouseX: 4, MouseY: 6},
		{Type: EventMouseUp, Button: ButtonMiddle},
		{Type: EventMouseMove, MouseX: 0, MouseY: 0},
		{Type: EventMouseWheel, Scroll: 1},
		{Type: EventKeyDown, Key: KeyW},
	} {
		c.Handle(e)
	}
	assert.Equal(t, []string{"dolly 4", "zoom 1"}, rec.calls)
}

func TestControllerSync(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec)

	c.Sync(PointerState{X: 10, Y: 10})
	c.Sync(PointerState{X: 20, Y: 20, Left: true})
	assert.Equal(t, ModeOrbit, c.Mode())
	assert.Empty(t, rec.calls)

	// Unchanged position produces no call.
	c.Sync(PointerState{X: 20, Y: 20, Left: true})
	assert.Empty(t, rec.calls)

	c.Sync(PointerState{X: 22, Y: 25, Left: true})
	assert.Equal(t, []string{"orbit 2 -5"}, rec.calls)

	c.Sync(PointerState{X: 22, Y: 25})
	assert.Equal(t, ModeNone, c.Mode())

	c.Sync(PointerState{X: 0, Y: 0, Right: true})
	c.Sync(PointerState{X: 1, Y: 1, Right: true})
	assert.Equal(t, []string{"orbit 2 -5", "track 1", "pedestal -1"}, rec.calls)
}

func TestControllerCancel(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec)

	c.Sync(PointerState{X: 0, Y: 0, Left: true})
	c.Cancel()
	assert.Equal(t, ModeNone, c.Mode())

	// Still held after the UI lets go: treated as a new press.
	c.Sync(PointerState{X: 30, Y: 30, Left: true})
	assert.Equal(t, ModeOrbit, c.Mode())
	assert.Empty(t, rec.calls)
}

func TestControllerIgnore(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec)

	// Pressed outside the view, then dragged onto it.
	c.Ignore(PointerState{X: 0, Y: 0, Left: true})
	c.Sync(PointerState{X: 5, Y: 5, Left: true})
	assert.Equal(t, ModeNone, c.Mode())

	c.Sync(PointerState{X: 5, Y: 5})
	c.Sync(PointerState{X: 6, Y: 6, Right: true})
	assert.Equal(t, ModeTrackPedestal, c.Mode())
	assert.Empty(t, rec.calls)
}

func TestControllerFocusLost(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec)

	c.Handle(Event{Type: EventMouseDown, Button: ButtonLeft})
	c.Handle(Event{Type: EventFocusLost})
	c.Handle(Event{Type: EventMouseMove, MouseX: 1, MouseY: 1})
	c.Handle(Event{Type: EventMouseMove, MouseX: 2, MouseY: 2})
	assert.Equal(t, ModeNone, c.Mode())
	assert.Empty(t, rec.calls)
}

func TestOrbitInteractionWithCamera(t *testing.T) {
	cam := camera.NewOrbital(mgl32.Vec3{0.3, 0.4, 3}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0},
		mgl32.DegToRad(45), camera.DefaultOptions())
	c := NewController(cam)
	az0, el0 := cam.Angles()
	pos0 := cam.Position()

	c.Press(ButtonLeft)
	c.Move(300, 200)
	az, el := cam.Angles()
	require.Equal(t, az0, az)
	require.Equal(t, el0, el)
	require.Equal(t, pos0, cam.Position())

	c.Move(310, 196)
	az, el = cam.Angles()
	s := camera.DefaultOptions().OrbitSensitivity
	assert.InDelta(t, -10*s, az-az0, 1e-6)
	assert.InDelta(t, -4*s, el-el0, 1e-6)
}
