// celview - a cel-shading OBJ viewer with an ImGui control panel.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/celview/internal/config"
	"github.com/Faultbox/celview/internal/engine/scene"
	"github.com/Faultbox/celview/internal/engine/ui"
	"github.com/Faultbox/celview/internal/logger"
	"github.com/Faultbox/celview/internal/session"
)

const panelWidth = 380

func main() {
	runtime.LockOSThread()

	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== celview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	app, err := NewApp(cfg)
	if err != nil {
		logger.Error("failed to start viewer", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	defer app.Close()

	app.Run()
	logger.Info("viewer closed normally")
}

// App is the ImGui viewer.
type App struct {
	cfg     *config.Config
	backend *ui.Backend
	session *session.Session
	scene   *scene.Scene

	panel  *ui.Panel
	view   *ui.SceneView
	picker *ui.FilePicker
	driver string

	generation uint64 // of the model named in the window title
}

// NewApp lists the models, opens the window and compiles the shaders.
func NewApp(cfg *config.Config) (*App, error) {
	app := &App{
		cfg:    cfg,
		panel:  ui.NewPanel("Settings"),
		view:   ui.NewSceneView("Viewer"),
		picker: ui.NewFilePicker(),
	}

	var err error
	app.session, err = session.New(cfg)
	if err != nil {
		return nil, err
	}

	app.backend, err = ui.NewBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		app.session.Close()
		return nil, err
	}

	app.scene, err = scene.New(scene.Config{
		Width:     int32(cfg.Window.Width - panelWidth),
		Height:    int32(cfg.Window.Height),
		ShaderDir: cfg.Viewer.ShaderDir(),
		Offscreen: true,
	})
	if err != nil {
		app.session.Close()
		return nil, fmt.Errorf("creating scene: %w", err)
	}
	app.backend.OnDestroy(app.destroyGL)

	info := app.backend.Info()
	app.driver = fmt.Sprintf("%s (GL %s)", info.Renderer, info.Version)

	app.session.Start()
	return app, nil
}

// Run starts the main loop.
func (app *App) Run() {
	app.backend.Run(app.render)
}

// Close stops background work.
func (app *App) Close() {
	app.session.Close()
}

func (app *App) destroyGL() {
	if app.scene != nil {
		app.scene.Destroy()
		app.scene = nil
	}
}

func (app *App) render() {
	s := app.session

	if path, ok := app.picker.Poll(); ok {
		s.Open(path)
	}
	model := s.Poll()
	app.scene.Sync(model)
	if model.Generation != app.generation {
		app.generation = model.Generation
		app.backend.SetWindowTitle(app.cfg.Window.Title + " - " + s.Status())
	}

	if !imgui.CurrentIO().WantCaptureKeyboard() && ui.IsKeyPressed(imgui.KeyEscape) {
		app.backend.Close()
	}

	pos, size := ui.Viewport()
	panelW := min(float32(panelWidth), size.X*0.45)

	w, h := app.view.Size()
	texture := app.scene.Render(s.Frame(w, h))
	app.view.Draw(imgui.NewVec2(pos.X+panelW, pos.Y), imgui.NewVec2(size.X-panelW, size.Y), texture, s.Controller())

	files, selected := s.Files()
	settings, act := app.panel.Draw(pos, imgui.NewVec2(panelW, size.Y), ui.PanelState{
		Settings: s.Settings(),
		Files:    files,
		Selected: selected,
		Model:    model,
		Status:   s.Status(),
		Driver:   app.driver,
	})
	s.SetSettings(settings)
	app.apply(act)
}

func (app *App) apply(act ui.Actions) {
	s := app.session
	if act.Select >= 0 {
		s.SelectIndex(act.Select)
	}
	if act.Open {
		app.picker.Open(s.Dir())
	}
	if act.ResetLook {
		s.ResetLook()
	}
	if act.ResetCamera {
		s.ResetCamera()
	}
	if act.FitCamera {
		s.FitCamera()
	}
	// Failures below are logged and shown in the status line.
	if act.Save {
		_, _ = s.SaveSettings()
	}
	if act.Screenshot {
		if pixels, w, h, ok := app.scene.ReadPixels(); ok {
			_, _ = s.SaveScreenshot(pixels, w, h)
		}
	}
}
