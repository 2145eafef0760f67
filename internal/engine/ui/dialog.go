package ui

import (
	"errors"
	"sync/atomic"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/celview/internal/logger"
)

// FilePicker runs the native open dialog off the render thread and hands
// the chosen path back through a channel polled by the render loop.
type FilePicker struct {
	chosen chan string
	open   atomic.Bool
}

// NewFilePicker creates a picker.
func NewFilePicker() *FilePicker {
	return &FilePicker{chosen: make(chan string, 1)}
}

// Open shows the dialog starting in dir. A call while a dialog is already
// showing is ignored.
func (p *FilePicker) Open(dir string) {
	if !p.open.CompareAndSwap(false, true) {
		return
	}

	// SDL/Cocoa window operations must happen on the main thread, so only
	// the path crosses back.
	go func() {
		defer p.open.Store(false)

		filename, err := dialog.File().
			Filter("Wavefront OBJ", "obj").
			Filter("All Files", "*").
			Title("Open model").
			SetStartDir(dir).
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				logger.Warn("file dialog failed", zap.Error(err))
			}
			return
		}
		p.chosen <- filename
	}()
}

// Poll returns a path chosen since the last call, if any.
func (p *FilePicker) Poll() (string, bool) {
	select {
	case path := <-p.chosen:
		return path, true
	default:
		return "", false
	}
}
