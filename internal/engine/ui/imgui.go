// Package ui provides the ImGui front end of the viewer: the SDL backend,
// the control panel and the scene viewport.
package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/celview/internal/engine/renderer"
)

// Backend wraps the ImGui SDL backend.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	info    renderer.Info
}

// NewBackend creates the window and initialises OpenGL.
func NewBackend(title string, width, height int) (*Backend, error) {
	b := &Backend{}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	b.backend.CreateWindow(title, width, height)

	b.info, err = renderer.Init()
	if err != nil {
		return nil, err
	}

	return b, nil
}

// Info returns the OpenGL driver description.
func (b *Backend) Info() renderer.Info {
	return b.info
}

// Run starts the main render loop. It returns when the window closes.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// OnDestroy registers fn to run while the GL context is still alive during
// shutdown.
func (b *Backend) OnDestroy(fn func()) {
	b.backend.SetBeforeDestroyContextHook(fn)
}

// Close asks the loop to stop after the current frame.
func (b *Backend) Close() {
	b.backend.SetShouldClose(true)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// Viewport returns the main viewport work area.
func Viewport() (pos, size imgui.Vec2) {
	viewport := imgui.MainViewport()
	return viewport.WorkPos(), viewport.WorkSize()
}

// IsKeyPressed checks if a key was pressed this frame.
func IsKeyPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}
