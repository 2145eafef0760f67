// Package input turns pointer and keyboard events into camera interaction.
//
// It has no dependency on a windowing library: backends translate their own
// events into Event values (see the window package for SDL) or feed polled
// pointer state through Controller.Sync (used by the ImGui viewer).
package input

// EventType identifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
	EventFocusLost
)

// Key is a keyboard key the viewers react to.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyTab
	KeyW
	KeyR
	KeyF
	KeyP
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Width  int
	Height int
	MouseX float32
	MouseY float32
	Button Button
	Scroll float32
}

// Button is a pointer button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// Mode is the interaction mode selected by the held pointer button.
type Mode int

const (
	ModeNone Mode = iota
	ModeOrbit
	ModeTrackPedestal
	ModeDolly
)

func (m Mode) String() string {
	switch m {
	case ModeOrbit:
		return "orbit"
	case ModeTrackPedestal:
		return "track/pedestal"
	case ModeDolly:
		return "dolly"
	default:
		return "none"
	}
}

// ModeForButton maps a held button to its interaction mode.
func ModeForButton(b Button) Mode {
	switch b {
	case ButtonLeft:
		return ModeOrbit
	case ButtonRight:
		return ModeTrackPedestal
	case ButtonMiddle:
		return ModeDolly
	default:
		return ModeNone
	}
}

// Camera is the set of mutators a Controller drives.
type Camera interface {
	Orbit(dx, dy float32)
	Track(dx float32)
	Pedestal(dy float32)
	Dolly(dy float32)
	Zoom(scroll float32)
}

// PointerState is a polled snapshot of the pointer.
type PointerState struct {
	X, Y   float32
	Left   bool
	Right  bool
	Middle bool
}

// Controller owns the interaction mode and dispatches pointer deltas to the
// camera mutator for that mode. Exactly one mutator runs per move event.
type Controller struct {
	cam  Camera
	mode Mode

	lastX, lastY float32
	hasBaseline  bool

	prev PointerState
}

// NewController creates a controller for cam.
func NewController(cam Camera) *Controller {
	return &Controller{cam: cam}
}

// Mode returns the current interaction mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Press enters the mode for b. The next move only records a baseline.
func (c *Controller) Press(b Button) {
	m := ModeForButton(b)
	if m == ModeNone {
		return
	}
	c.mode = m
	c.hasBaseline = false
}

// Release leaves the mode entered by b. Releasing a button that does not
// own the current mode is ignored.
func (c *Controller) Release(b Button) {
	if ModeForButton(b) != c.mode {
		return
	}
	c.mode = ModeNone
	c.hasBaseline = false
}

// Move handles a pointer position in window coordinates (y grows down).
func (c *Controller) Move(x, y float32) {
	if c.mode == ModeNone {
		return
	}
	if !c.hasBaseline {
		c.lastX, c.lastY = x, y
		c.hasBaseline = true
		return
	}

	dx := x - c.lastX
	dy := c.lastY - y // screen down rotates up
	c.lastX, c.lastY = x, y

	switch c.mode {
	case ModeOrbit:
		c.cam.Orbit(dx, dy)
	case ModeTrackPedestal:
		c.cam.Track(dx)
		c.cam.Pedestal(dy)
	case ModeDolly:
		c.cam.Dolly(dy)
	}
}

// Scroll zooms regardless of mode.
func (c *Controller) Scroll(delta float32) {
	if delta == 0 {
		return
	}
	c.cam.Zoom(delta)
}

// Handle applies a pointer or focus event. Other events are ignored.
func (c *Controller) Handle(e Event) {
	switch e.Type {
	case EventMouseDown:
		c.Press(e.Button)
	case EventMouseUp:
		c.Release(e.Button)
	case EventMouseMove:
		c.Move(e.MouseX, e.MouseY)
	case EventMouseWheel:
		c.Scroll(e.Scroll)
	case EventFocusLost:
		c.Cancel()
	}
}

// Sync derives press, release and move events from a polled pointer state.
// Buttons are checked in left, right, middle order so a later press wins.
func (c *Controller) Sync(s PointerState) {
	edges := []struct {
		btn     Button
		was, is bool
	}{
		{ButtonLeft, c.prev.Left, s.Left},
		{ButtonRight, c.prev.Right, s.Right},
		{ButtonMiddle, c.prev.Middle, s.Middle},
	}
	for _, e := range edges {
		switch {
		case e.is && !e.was:
			c.Press(e.btn)
		case !e.is && e.was:
			c.Release(e.btn)
		}
	}

	moved := s.X != c.prev.X || s.Y != c.prev.Y
	if c.mode != ModeNone && (moved || !c.hasBaseline) {
		c.Move(s.X, s.Y)
	}
	c.prev = s
}

// Cancel drops the current mode, as when the pointer is captured by a UI.
func (c *Controller) Cancel() {
	c.mode = ModeNone
	c.hasBaseline = false
	c.prev = PointerState{X: c.prev.X, Y: c.prev.Y}
}

// Ignore drops the current mode and records s without acting on it. Buttons
// already held in s will not start a drag on the next Sync.
func (c *Controller) Ignore(s PointerState) {
	c.mode = ModeNone
	c.hasBaseline = false
	c.prev = s
}
