// Package renderer initialises OpenGL and manages the default framebuffer
// for viewers that draw straight to the window.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/celview/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Info describes the OpenGL driver.
type Info struct {
	Version     string
	Renderer    string
	Vendor      string
	GLSL        string
	StencilBits int32
}

// Renderer owns the default framebuffer state.
type Renderer struct {
	config Config
	info   Info
}

// Init loads the OpenGL function pointers and logs the driver. It must be
// called after the GL context is current.
func Init() (Info, error) {
	if err := gl.Init(); err != nil {
		return Info{}, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	info := Info{
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
		Vendor:   gl.GoStr(gl.GetString(gl.VENDOR)),
		GLSL:     gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
	gl.GetFramebufferAttachmentParameteriv(gl.FRAMEBUFFER, gl.STENCIL, gl.FRAMEBUFFER_ATTACHMENT_STENCIL_SIZE, &info.StencilBits)

	logger.Info("OpenGL initialized",
		zap.String("version", info.Version),
		zap.String("renderer", info.Renderer),
		zap.String("vendor", info.Vendor),
		zap.String("glsl", info.GLSL),
	)
	return info, nil
}

// New initialises OpenGL and prepares the default framebuffer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	info, err := Init()
	if err != nil {
		return nil, err
	}
	if info.StencilBits == 0 {
		logger.Warn("default framebuffer has no stencil buffer, outlines will cover the model")
	}

	r := &Renderer{config: cfg, info: info}
	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Info returns the driver description gathered at startup.
func (r *Renderer) Info() Info {
	return r.info
}

// Size returns the current viewport size.
func (r *Renderer) Size() (width, height int32) {
	return int32(r.config.Width), int32(r.config.Height)
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = max(width, 1)
	r.config.Height = max(height, 1)
	gl.Viewport(0, 0, int32(r.config.Width), int32(r.config.Height))
	logger.Debug("renderer resized",
		zap.Int("width", r.config.Width),
		zap.Int("height", r.config.Height),
	)
}

// Begin binds the default framebuffer with a full-window viewport.
func (r *Renderer) Begin() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(r.config.Width), int32(r.config.Height))
}

// ReadPixels reads the back buffer of the default framebuffer as RGBA rows,
// bottom row first. Call it after drawing and before swapping.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.ReadBuffer(gl.BACK)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pixels[0]))
	return pixels, w, h
}

// Close logs shutdown. The default framebuffer is owned by the window.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
}
