// Package window handles SDL2 window and OpenGL context creation.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/celview/internal/engine/input"
	"github.com/Faultbox/celview/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Window wraps SDL2 window and OpenGL context.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	events    []input.Event
}

// New creates a new window with OpenGL context.
func New(cfg Config) (*Window, error) {
	w := &Window{
		config: cfg,
		events: make([]input.Event, 0, 16),
	}

	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// OpenGL 4.1 Core Profile (max supported on macOS)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)
	// The outline pass masks itself with the stencil buffer.
	sdl.GLSetAttribute(sdl.GL_STENCIL_SIZE, 8)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		logger.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	logger.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// SwapBuffers swaps the OpenGL buffers.
func (w *Window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// DrawableSize returns the size of the GL drawable in pixels.
func (w *Window) DrawableSize() (int32, int32) {
	return w.sdlWindow.GLGetDrawableSize()
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

// PollEvents drains the SDL queue and returns the translated events. The
// slice is reused by the next call.
func (w *Window) PollEvents() []input.Event {
	w.events = w.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			w.events = append(w.events, input.Event{Type: input.EventQuit})

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				dw, dh := w.DrawableSize()
				w.events = append(w.events, input.Event{
					Type:   input.EventWindowResize,
					Width:  int(dw),
					Height: int(dh),
				})
			}
			if e.Event == sdl.WINDOWEVENT_FOCUS_LOST {
				w.events = append(w.events, input.Event{Type: input.EventFocusLost})
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			ev := input.Event{Type: input.EventKeyUp, Key: translateKey(e.Keysym.Sym)}
			if e.Type == sdl.KEYDOWN {
				ev.Type = input.EventKeyDown
			}
			w.events = append(w.events, ev)

		case *sdl.MouseMotionEvent:
			w.events = append(w.events, input.Event{
				Type:   input.EventMouseMove,
				MouseX: float32(e.X),
				MouseY: float32(e.Y),
			})

		case *sdl.MouseButtonEvent:
			ev := input.Event{
				Type:   input.EventMouseUp,
				MouseX: float32(e.X),
				MouseY: float32(e.Y),
				Button: translateButton(e.Button),
			}
			if e.Type == sdl.MOUSEBUTTONDOWN {
				ev.Type = input.EventMouseDown
			}
			w.events = append(w.events, ev)

		case *sdl.MouseWheelEvent:
			scroll := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				scroll = -scroll
			}
			w.events = append(w.events, input.Event{Type: input.EventMouseWheel, Scroll: scroll})
		}
	}

	return w.events
}

func translateButton(b uint8) input.Button {
	switch b {
	case sdl.BUTTON_LEFT:
		return input.ButtonLeft
	case sdl.BUTTON_RIGHT:
		return input.ButtonRight
	case sdl.BUTTON_MIDDLE:
		return input.ButtonMiddle
	default:
		return input.ButtonNone
	}
}

func translateKey(k sdl.Keycode) input.Key {
	switch k {
	case sdl.K_ESCAPE:
		return input.KeyEscape
	case sdl.K_TAB:
		return input.KeyTab
	case sdl.K_w:
		return input.KeyW
	case sdl.K_r:
		return input.KeyR
	case sdl.K_f:
		return input.KeyF
	case sdl.K_p:
		return input.KeyP
	default:
		return input.KeyUnknown
	}
}
