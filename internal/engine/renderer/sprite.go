package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-iso/internal/engine/camera"
	"github.com/Faultbox/midgard-iso/internal/engine/texture"
	"github.com/Faultbox/midgard-iso/pkg/math"
)

const spriteVertexShader = `
#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aUV;

uniform mat4 uProj;
uniform mat4 uModel;
uniform vec2 uUVMin;
uniform vec2 uUVMax;

out vec2 vUV;

void main() {
	vUV = mix(uUVMin, uUVMax, aUV);
	gl_Position = uProj * uModel * vec4(aPos, 0.0, 1.0);
}
`

const spriteFragmentShader = `
#version 410 core

in vec2 vUV;
out vec4 FragColor;

uniform sampler2D uTexture;

void main() {
	vec4 c = texture(uTexture, vUV);
	if (c.a < 0.01) {
		discard;
	}
	FragColor = c;
}
`

// createQuad builds a unit quad with its top-left at the origin. The top
// edge samples uvMax.Y because textures are stored bottom row first.
func (r *Renderer) createQuad() {
	vertices := []float32{
		// Position (XY), TexCoord (UV)
		0, 0, 0, 1, // Top-left
		1, 0, 1, 1, // Top-right
		1, 1, 1, 0, // Bottom-right
		0, 1, 0, 0, // Bottom-left
	}
	indices := []uint32{0, 1, 2, 2, 3, 0}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
}

// Draw draws the texture region uvMin..uvMax as a quad covering size pixels
// at the world position topLeft. Begin must have been called this frame.
func (r *Renderer) Draw(tex texture.Handle, topLeft, size math.Vec2, cam *camera.Camera2D, uvMin, uvMax math.Vec2) {
	if !tex.Valid() || size.X <= 0 || size.Y <= 0 {
		return
	}

	model := SpriteModel(topLeft, size, cam)
	gl.UniformMatrix4fv(r.locModel, 1, false, &model[0])
	gl.Uniform2f(r.locUVMin, uvMin.X, uvMin.Y)
	gl.Uniform2f(r.locUVMax, uvMax.X, uvMax.Y)
	gl.BindTexture(gl.TEXTURE_2D, tex.ID)

	gl.DrawElementsWithOffset(gl.TRIANGLES, 6, gl.UNSIGNED_INT, 0)
	r.drawCalls++
}

// Projection maps pixel coordinates with a top-left origin and Y down to
// clip space.
func Projection(width, height int) mgl32.Mat4 {
	return mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
}

// SpriteModel places the unit quad at topLeft in screen space, scaled to
// size. A nil camera leaves world and screen coordinates equal.
func SpriteModel(topLeft, size math.Vec2, cam *camera.Camera2D) mgl32.Mat4 {
	screen := topLeft
	if cam != nil {
		screen = cam.WorldToScreen(topLeft)
	}
	return mgl32.Translate3D(screen.X, screen.Y, 0).Mul4(mgl32.Scale3D(size.X, size.Y, 1))
}
