// Package main is the plain SDL viewer: no control panel, keyboard
// shortcuts only.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/celview/internal/config"
	"github.com/Faultbox/celview/internal/engine/input"
	"github.com/Faultbox/celview/internal/engine/renderer"
	"github.com/Faultbox/celview/internal/engine/scene"
	"github.com/Faultbox/celview/internal/engine/window"
	"github.com/Faultbox/celview/internal/logger"
	"github.com/Faultbox/celview/internal/session"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== celview (SDL) ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	v, err := newViewer(cfg)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	defer v.Close()

	v.Run()
	logger.Info("viewer closed normally")
}

type viewer struct {
	session  *session.Session
	window   *window.Window
	renderer *renderer.Renderer
	scene    *scene.Scene
	title    string

	screenshot bool // save the next frame
}

func newViewer(cfg *config.Config) (*viewer, error) {
	s, err := session.New(cfg)
	if err != nil {
		return nil, err
	}
	v := &viewer{session: s, title: cfg.Window.Title}

	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("creating window: %w", err)
	}

	w, h := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{Width: int(w), Height: int(h)})
	if err != nil {
		v.window.Close()
		s.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	v.scene, err = scene.New(scene.Config{
		Width:     w,
		Height:    h,
		ShaderDir: cfg.Viewer.ShaderDir(),
	})
	if err != nil {
		v.window.Close()
		s.Close()
		return nil, fmt.Errorf("creating scene: %w", err)
	}

	s.Start()
	return v, nil
}

// Run processes events and draws until the window is closed or Escape is
// pressed.
func (v *viewer) Run() {
	for {
		if !v.handleEvents() {
			return
		}

		if v.scene.Sync(v.session.Poll()) {
			v.window.SetTitle(v.title + " - " + v.session.Status())
		}

		v.renderer.Begin()
		v.scene.Draw(v.session.Frame(v.renderer.Size()))
		if v.screenshot {
			v.screenshot = false
			if _, err := v.session.SaveScreenshot(v.renderer.ReadPixels()); err == nil {
				v.window.SetTitle(v.title + " - " + v.session.Status())
			}
		}
		v.window.SwapBuffers()
	}
}

func (v *viewer) handleEvents() bool {
	ctrl := v.session.Controller()
	for _, e := range v.window.PollEvents() {
		switch e.Type {
		case input.EventQuit:
			return false
		case input.EventWindowResize:
			v.renderer.Resize(e.Width, e.Height)
		case input.EventKeyDown:
			if e.Key == input.KeyP {
				v.screenshot = true
			}
			if v.session.HandleKey(e.Key) {
				return false
			}
		default:
			ctrl.Handle(e)
		}
	}
	return true
}

// Close releases GL objects before the context goes away.
func (v *viewer) Close() {
	v.session.Close()
	v.scene.Destroy()
	v.renderer.Close()
	v.window.Close()
}
