// Package session ties the viewer together independently of any window
// system: the model library, background loading, the camera and its input
// controller, and the current render settings. Both front ends drive one
// Session from their render loop.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/celview/internal/config"
	"github.com/Faultbox/celview/internal/engine/camera"
	"github.com/Faultbox/celview/internal/engine/debug"
	"github.com/Faultbox/celview/internal/engine/input"
	"github.com/Faultbox/celview/internal/library"
	"github.com/Faultbox/celview/internal/logger"
	"github.com/Faultbox/celview/internal/viewer"
)

// ErrNoModels is returned by New when the objects directory holds no model
// and none was named explicitly.
var ErrNoModels = errors.New("no .obj models found")

// farMargin keeps the back of the bounding sphere off the far plane.
const farMargin = 1.01

// Session is the viewer state shared by the front ends. Apart from Close,
// its methods must be called from the render loop goroutine.
type Session struct {
	cfg *config.Config
	log *zap.Logger

	lib     *library.Library
	store   *viewer.Store
	loader  *viewer.Loader
	watcher *library.Watcher
	shots   *debug.Screenshots

	cam  *camera.Orbital
	ctrl *input.Controller

	settings  viewer.Settings
	requested string // last path handed to the loader
	seen      uint64 // last generation Poll reported
	status    string

	// Bounding sphere of the model of generation sphereGen, in model space.
	sphereGen    uint64
	sphereCenter mgl32.Vec3
	sphereRadius float32
	sphereOK     bool

	ctx    context.Context
	cancel context.CancelFunc
}

// New lists the objects directory and prepares the camera. It does not load
// anything yet; call Start.
func New(cfg *config.Config) (*Session, error) {
	s := &Session{
		cfg:      cfg,
		log:      logger.Named("session"),
		lib:      library.New(cfg.Viewer.ObjectsDir, ""),
		store:    viewer.NewStore(),
		shots:    debug.NewScreenshots(cfg.Viewer.ScreenshotDir, "celview"),
		cam:      cfg.Camera.NewCamera(),
		settings: cfg.Render.Clamp(),
	}
	s.loader = viewer.NewLoader(s.store, logger.Named("loader"))
	s.ctrl = input.NewController(s.cam)

	if err := s.lib.Refresh(); err != nil {
		return nil, fmt.Errorf("objects directory: %w", err)
	}
	if m := cfg.Viewer.DefaultModel; m != "" {
		s.selectDefault(m)
	}
	if s.lib.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", cfg.Viewer.ObjectsDir, ErrNoModels)
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.log.Info("session created",
		zap.String("objects", cfg.Viewer.ObjectsDir),
		zap.Int("models", s.lib.Len()),
	)
	return s, nil
}

// selectDefault accepts either a listed base name or a path.
func (s *Session) selectDefault(name string) {
	for i, f := range s.lib.Files() {
		if library.DisplayName(f) == name {
			s.lib.SelectIndex(i)
			return
		}
	}
	s.lib.Select(name)
}

// Start loads the selected model and, if configured, starts watching the
// objects directory.
func (s *Session) Start() {
	if path, _ := s.lib.Selected(); path != "" {
		s.load(path)
	}

	if !s.cfg.Viewer.WatchObjects {
		return
	}
	w, err := library.Watch(s.lib, logger.Named("library"))
	if err != nil {
		s.log.Warn("objects directory not watched", zap.Error(err))
		return
	}
	s.watcher = w
	go w.Run(s.ctx)
}

func (s *Session) load(path string) {
	s.requested = path
	s.status = "Loading " + library.DisplayName(path) + "..."
	if s.cfg.Viewer.AsyncLoad {
		s.loader.LoadAsync(s.ctx, path)
		return
	}
	s.loader.Load(path)
}

// Open selects path, which may lie outside the objects directory, and loads it.
func (s *Session) Open(path string) {
	s.lib.Select(path)
	selected, _ := s.lib.Selected()
	s.load(selected)
}

// SelectIndex loads the i-th listed model if it is not already selected.
func (s *Session) SelectIndex(i int) {
	if !s.lib.SelectIndex(i) {
		return
	}
	path, _ := s.lib.Selected()
	s.load(path)
}

// Next loads the following model in the list.
func (s *Session) Next() {
	if s.lib.Len() < 2 {
		return
	}
	s.load(s.lib.Next())
}

// Poll applies directory changes and returns the current model. When a new
// model has been published since the last call it updates the status and,
// if configured, fits the camera to it.
func (s *Session) Poll() *viewer.Model {
	s.applyChanges()

	m := s.store.Current()
	if m.Generation != s.seen {
		s.seen = m.Generation
		s.status = describe(m)
		if s.cfg.Camera.FitOnLoad {
			s.FitCamera()
		}
	}
	return m
}

func (s *Session) applyChanges() {
	if s.watcher == nil {
		return
	}
	for {
		select {
		case c, ok := <-s.watcher.Changes():
			if !ok {
				s.watcher = nil
				return
			}
			s.applyChange(c)
		default:
			return
		}
	}
}

func (s *Session) applyChange(c library.Change) {
	selected, _ := s.lib.Selected()
	switch {
	case selected == "":
		return
	case !library.SamePath(selected, s.requested):
		// The requested file went away and the library moved on.
		s.log.Info("selected model changed on disk", zap.String("path", selected))
		s.load(selected)
	case library.SamePath(c.Path, selected) && c.Op.Has(fsnotify.Write):
		s.log.Info("reloading modified model", zap.String("path", selected))
		s.load(selected)
	}
}

func describe(m *viewer.Model) string {
	if m.Report != nil && m.Report.Err != nil {
		return "Cannot read " + library.DisplayName(m.Path)
	}
	msg := fmt.Sprintf("%s: %d vertices, %d faces", library.DisplayName(m.Path), m.Mesh.VertexCount(), m.Mesh.FaceCount())
	if m.Report != nil && !m.Report.Clean() {
		msg += " (with warnings, see log)"
	}
	return msg
}

// HandleKey applies a keyboard shortcut. It reports whether the viewer
// should quit.
func (s *Session) HandleKey(k input.Key) bool {
	switch k {
	case input.KeyEscape:
		return true
	case input.KeyTab:
		s.Next()
	case input.KeyW:
		s.settings.ShowMesh = !s.settings.ShowMesh
	case input.KeyR:
		s.ResetCamera()
	case input.KeyF:
		s.FitCamera()
	}
	return false
}

// Controller returns the pointer controller bound to the camera.
func (s *Session) Controller() *input.Controller {
	return s.ctrl
}

// Camera returns the orbital camera.
func (s *Session) Camera() *camera.Orbital {
	return s.cam
}

// Settings returns the current render settings.
func (s *Session) Settings() viewer.Settings {
	return s.settings
}

// SetSettings replaces the render settings, clamped to their ranges.
func (s *Session) SetSettings(v viewer.Settings) {
	s.settings = v.Clamp()
}

// ResetLook restores the default render settings.
func (s *Session) ResetLook() {
	s.settings = viewer.DefaultSettings()
}

// ResetCamera restores the configured camera.
func (s *Session) ResetCamera() {
	s.ctrl.Cancel()
	s.cam.Reset()
}

// FitCamera frames the current model as placed by the model matrix.
func (s *Session) FitCamera() {
	m := s.store.Current()
	lo, hi, ok := m.Mesh.Bounds()
	if !ok {
		return
	}
	lo, hi = transformBounds(s.settings.ModelMatrix(), lo, hi)
	s.cam.FitToBounds(lo, hi)
}

// transformBounds returns the axis-aligned box around the eight transformed
// corners of lo/hi.
func transformBounds(m mgl32.Mat4, lo, hi mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	var outLo, outHi mgl32.Vec3
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{lo[0], lo[1], lo[2]}
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				corner[axis] = hi[axis]
			}
		}
		p := mgl32.TransformCoordinate(corner, m)
		if i == 0 {
			outLo, outHi = p, p
			continue
		}
		for axis := 0; axis < 3; axis++ {
			outLo[axis] = min(outLo[axis], p[axis])
			outHi[axis] = max(outHi[axis], p[axis])
		}
	}
	return outLo, outHi
}

// Frame snapshots everything one render of a width x height viewport needs.
// The far plane is pushed out so the whole model stays visible however far
// the camera is fitted or dollied away.
func (s *Session) Frame(width, height int32) viewer.Frame {
	return viewer.NewFrame(s.settings, s.cam, width, height, s.cfg.Camera.Near, s.farPlane())
}

func (s *Session) farPlane() float32 {
	far := s.cfg.Camera.Far
	center, radius, ok := s.modelSphere()
	if !ok {
		return far
	}
	world := mgl32.TransformCoordinate(center, s.settings.ModelMatrix())
	return max(far, (s.cam.Position().Sub(world).Len()+radius)*farMargin)
}

// modelSphere returns the bounding sphere of the current mesh around its box
// centre. The model matrix has no scale, so the radius holds in world space.
func (s *Session) modelSphere() (mgl32.Vec3, float32, bool) {
	m := s.store.Current()
	if m.Generation != s.sphereGen || m.Generation == 0 {
		s.sphereGen = m.Generation
		lo, hi, ok := m.Mesh.Bounds()
		s.sphereOK = ok
		s.sphereCenter = lo.Add(hi).Mul(0.5)
		s.sphereRadius = hi.Sub(lo).Len() / 2
	}
	return s.sphereCenter, s.sphereRadius, s.sphereOK
}

// Files returns the model list and the selected index.
func (s *Session) Files() ([]string, int) {
	files := s.lib.Files()
	_, idx := s.lib.Selected()
	return files, idx
}

// Dir returns the objects directory.
func (s *Session) Dir() string {
	return s.lib.Dir()
}

// Status is a one-line description of the last load.
func (s *Session) Status() string {
	return s.status
}

// SaveSettings stores the current render settings in the user config file.
func (s *Session) SaveSettings() (string, error) {
	s.cfg.Render = s.settings
	path, err := s.cfg.Save()
	if err != nil {
		s.log.Error("saving settings failed", zap.Error(err))
		s.status = "Saving settings failed"
		return path, err
	}
	s.log.Info("settings saved", zap.String("path", path))
	s.status = "Settings saved to " + path
	return path, nil
}

// SaveScreenshot writes a frame read back from the GPU (RGBA, bottom row
// first) and reports the result in the status line.
func (s *Session) SaveScreenshot(pixels []byte, width, height int) (string, error) {
	path, err := s.shots.Save(pixels, width, height)
	if err != nil {
		s.log.Error("saving screenshot failed", zap.Error(err))
		s.status = "Saving screenshot failed"
		return "", err
	}
	s.status = "Screenshot saved to " + path
	return path, nil
}

// Close stops background work and waits for pending loads.
func (s *Session) Close() {
	s.cancel()
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			s.log.Warn("closing watcher", zap.Error(err))
		}
	}
	s.loader.Wait()
}
