// Package scene draws a loaded model with the cel-shading passes: banded
// lighting with silhouette edges and dithering, a stencil-masked outline,
// and a small copy of the model marking the light.
package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/celview/internal/engine/framebuffer"
	"github.com/Faultbox/celview/internal/engine/scene/shaders"
	"github.com/Faultbox/celview/internal/engine/shader"
	"github.com/Faultbox/celview/internal/logger"
	"github.com/Faultbox/celview/internal/viewer"
)

// Config contains scene configuration options.
type Config struct {
	Width  int32
	Height int32

	// ShaderDir is searched for <program>.vert / <program>.frag files that
	// replace the embedded sources. Empty means embedded only.
	ShaderDir string

	// Offscreen creates a framebuffer for Render. Without it only Draw is
	// usable.
	Offscreen bool
}

// Scene owns the programs, the uploaded mesh and, optionally, an offscreen
// target. All methods must be called on the GL thread.
type Scene struct {
	lighting *shader.Program
	outline  *shader.Program
	marker   *shader.Program

	framebuffer *framebuffer.Framebuffer

	mesh       *MeshBuffers
	generation uint64

	log *zap.Logger
}

// New compiles the programs and, if requested, creates the framebuffer.
func New(cfg Config) (*Scene, error) {
	s := &Scene{log: logger.Named("scene")}

	var err error
	for _, p := range []struct {
		dst **shader.Program
		src shaders.Source
	}{
		{&s.lighting, shaders.Lighting},
		{&s.outline, shaders.Outline},
		{&s.marker, shaders.Marker},
	} {
		if *p.dst, err = shader.BuildSource(cfg.ShaderDir, p.src); err != nil {
			s.Destroy()
			return nil, err
		}
	}

	if cfg.Offscreen {
		s.framebuffer, err = framebuffer.New(cfg.Width, cfg.Height)
		if err != nil {
			s.Destroy()
			return nil, fmt.Errorf("creating framebuffer: %w", err)
		}
	}

	return s, nil
}

// Sync uploads m if it is newer than the mesh on the GPU.
// It reports whether an upload happened.
func (s *Scene) Sync(m *viewer.Model) bool {
	if m == nil || m.Generation == s.generation {
		return false
	}

	s.mesh.Destroy()
	s.mesh = UploadMesh(m.Mesh)
	s.generation = m.Generation

	s.log.Debug("mesh uploaded",
		zap.String("path", m.Path),
		zap.Uint64("generation", m.Generation),
		zap.Int32("indices", s.mesh.IndexCount()))
	return true
}

// Draw renders f on the currently bound target and viewport.
func (s *Scene) Draw(f viewer.Frame) {
	st := f.Settings
	bg := st.Background

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.STENCIL_TEST)
	gl.StencilOp(gl.KEEP, gl.KEEP, gl.REPLACE)
	gl.StencilFunc(gl.ALWAYS, 1, 0xFF)
	gl.StencilMask(0xFF)

	gl.ClearColor(bg[0], bg[1], bg[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)

	if s.mesh == nil {
		gl.Disable(gl.STENCIL_TEST)
		return
	}

	if st.ShowMesh {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	s.drawLighting(f)

	// Outline: only where the model did not write the stencil.
	gl.StencilFunc(gl.NOTEQUAL, 1, 0xFF)
	gl.StencilMask(0x00)
	gl.Disable(gl.DEPTH_TEST)
	s.drawOutline(f)
	gl.StencilMask(0xFF)
	gl.StencilFunc(gl.ALWAYS, 0, 0xFF)
	gl.Enable(gl.DEPTH_TEST)

	s.drawMarker(f)

	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	gl.Disable(gl.STENCIL_TEST)
	gl.UseProgram(0)
}

func (s *Scene) drawLighting(f viewer.Frame) {
	st := f.Settings
	p := s.lighting
	p.Use()
	setTransforms(p, f, f.Model)
	p.SetVec3("lightPos", st.LightPosition)
	p.SetVec3("lightColor", st.LightColor)
	p.SetVec3("viewPos", f.ViewPos)
	p.SetVec3("modelColor", st.ModelColor)
	p.SetInt("dithering", st.Dithering)
	p.SetVec3("ditheringColor", st.DitheringColor)
	p.SetInt("nbColors", st.ColorBands)
	p.SetFloat("edgeThreshold", st.EdgeThreshold)
	p.SetVec3("edgeColor", st.EdgeColor)
	s.mesh.draw()
}

func (s *Scene) drawOutline(f viewer.Frame) {
	p := s.outline
	p.Use()
	setTransforms(p, f, f.Model)
	p.SetVec3("outlineColor", f.Settings.OutlineColor)
	p.SetFloat("outlineThickness", f.Settings.OutlineThickness)
	s.mesh.draw()
}

func (s *Scene) drawMarker(f viewer.Frame) {
	p := s.marker
	p.Use()
	setTransforms(p, f, f.Marker)
	p.SetVec3("lightColor", f.Settings.LightColor)
	s.mesh.draw()
}

func setTransforms(p *shader.Program, f viewer.Frame, model mgl32.Mat4) {
	p.SetMat4("model", model)
	p.SetMat4("view", f.View)
	p.SetMat4("projection", f.Projection)
}

// Render draws f into the framebuffer, resized to the frame, and returns
// the color texture. The previous target and viewport are restored.
func (s *Scene) Render(f viewer.Frame) uint32 {
	if s.framebuffer == nil {
		return 0
	}
	s.framebuffer.Resize(f.Width, f.Height)
	restore := s.framebuffer.BindWithViewport()
	defer restore()
	s.Draw(f)
	return s.framebuffer.ColorTexture()
}

// ColorTexture returns the framebuffer color texture, or 0 without one.
func (s *Scene) ColorTexture() uint32 {
	if s.framebuffer == nil {
		return 0
	}
	return s.framebuffer.ColorTexture()
}

// ReadPixels returns the last Render result as RGBA rows, bottom row first.
// ok is false without an offscreen target.
func (s *Scene) ReadPixels() (pixels []byte, width, height int, ok bool) {
	if s.framebuffer == nil {
		return nil, 0, 0, false
	}
	w, h := s.framebuffer.Size()
	return s.framebuffer.ReadPixels(), int(w), int(h), true
}

// Destroy releases all resources.
func (s *Scene) Destroy() {
	s.mesh.Destroy()
	s.mesh = nil
	for _, p := range []*shader.Program{s.lighting, s.outline, s.marker} {
		if p != nil {
			p.Delete()
		}
	}
	if s.framebuffer != nil {
		s.framebuffer.Destroy()
		s.framebuffer = nil
	}
}
