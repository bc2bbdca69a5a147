// Package renderer draws textured sprites with OpenGL.
//
// Renderer implements both the rasterizer used by the render queue and the
// texture uploader used by the asset cache. It must be created after the GL
// context exists and used only from the thread that owns it.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-iso/internal/engine/shader"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int

	// ClearColor is the RGBA background.
	ClearColor [4]float32
}

// DefaultClearColor is a dark blue-gray.
var DefaultClearColor = [4]float32{0.1, 0.1, 0.15, 1.0}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	program *shader.Program
	proj    mgl32.Mat4

	locProj    int32
	locModel   int32
	locUVMin   int32
	locUVMax   int32
	locTexture int32

	vao uint32
	vbo uint32
	ebo uint32

	drawCalls int
}

// New creates a renderer. log may be nil.
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.ClearColor == ([4]float32{}) {
		cfg.ClearColor = DefaultClearColor
	}

	r := &Renderer{config: cfg, log: log}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])

	program, err := shader.Compile(spriteVertexShader, spriteFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("sprite shader: %w", err)
	}
	locs, err := program.Uniforms("uProj", "uModel", "uUVMin", "uUVMax")
	if err != nil {
		program.Delete()
		return nil, fmt.Errorf("sprite shader: %w", err)
	}
	r.program = program
	r.locProj, r.locModel, r.locUVMin, r.locUVMax = locs[0], locs[1], locs[2], locs[3]
	r.locTexture = program.Uniform("uTexture")

	r.createQuad()
	r.Resize(cfg.Width, cfg.Height)

	return r, nil
}

// Close releases GL resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
		r.ebo = 0
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize updates the viewport and the pixel projection.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.proj = Projection(width, height)
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	r.drawCalls = 0
	gl.Clear(gl.COLOR_BUFFER_BIT)

	r.program.Use()
	gl.UniformMatrix4fv(r.locProj, 1, false, &r.proj[0])
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(r.locTexture, 0)
	gl.BindVertexArray(r.vao)
}

// End finishes the current frame and returns the number of sprites drawn.
func (r *Renderer) End() int {
	gl.BindVertexArray(0)
	return r.drawCalls
}

// ReadPixels returns the current framebuffer contents, bottom row first as
// OpenGL stores them.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels, width, height
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}
