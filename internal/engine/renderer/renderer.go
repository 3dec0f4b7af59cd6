// Package renderer uploads and draws stroke geometry with OpenGL.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/voxelforge/vrpaint/internal/engine/shader"
	"github.com/voxelforge/vrpaint/internal/engine/stroke"
	"github.com/voxelforge/vrpaint/internal/logger"
	math "github.com/voxelforge/vrpaint/pkg/math"
)

// floatsPerVertex is the interleaved stride: position 3, normal 3, color 4,
// tangent 3, uv 2.
const floatsPerVertex = 3 + 3 + 4 + 3 + 2

const vertexShaderSrc = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec4 aColor;
layout (location = 3) in vec3 aTangent;
layout (location = 4) in vec2 aUV;

uniform mat4 uViewProj;

out vec3 vNormal;
out vec4 vColor;
out vec2 vUV;

void main() {
	gl_Position = uViewProj * vec4(aPos, 1.0);
	vNormal = aNormal;
	vColor = aColor;
	vUV = aUV;
}
`

const fragmentShaderSrc = `
#version 410 core

in vec3 vNormal;
in vec4 vColor;
in vec2 vUV;

uniform vec3 uLightDir;

out vec4 FragColor;

void main() {
	float diffuse = max(dot(normalize(vNormal), -uLightDir), 0.0);
	FragColor = vec4(vColor.rgb * (0.3 + 0.7 * diffuse), vColor.a);
}
`

// Renderer draws one stroke mesh. Create it after the GL context exists.
type Renderer struct {
	program uint32
	vao     uint32
	vbo     uint32
	ebo     uint32

	uViewProj int32
	uLightDir int32

	indexCount int32
	scratch    []float32
}

// New initializes OpenGL state and compiles the surface shader.
func New(layout stroke.VertexLayout) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	if layout.UV0Size != 2 || !layout.Normals || !layout.Colors || !layout.Tangents {
		return nil, fmt.Errorf("unsupported vertex layout: %+v", layout)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.08, 0.08, 0.11, 1.0)

	r := &Renderer{}
	var err error
	r.program, err = shader.CompileProgram(vertexShaderSrc, fragmentShaderSrc)
	if err != nil {
		return nil, fmt.Errorf("surface shader: %w", err)
	}
	r.uViewProj = shader.MustGetUniform(r.program, "uViewProj")
	r.uLightDir = shader.GetUniform(r.program, "uLightDir")

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)

	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(3, 3, gl.FLOAT, false, stride, gl.PtrOffset(10*4))
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(4, 2, gl.FLOAT, false, stride, gl.PtrOffset(13*4))
	gl.EnableVertexAttribArray(4)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	return r, nil
}

// Close releases GL resources.
func (r *Renderer) Close() {
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Upload pushes the buffer's current contents to the GPU. Call after every
// stroke mutation; the buffer stays CPU-owned and is re-read each time.
func (r *Renderer) Upload(buf *stroke.Buffer) {
	n := buf.VertexCount()
	r.indexCount = int32(len(buf.Indices))
	if n == 0 || r.indexCount == 0 {
		return
	}

	if cap(r.scratch) < n*floatsPerVertex {
		r.scratch = make([]float32, 0, n*floatsPerVertex*2)
	}
	r.scratch = r.scratch[:0]
	for i := 0; i < n; i++ {
		p, nm, c, tg, uv := buf.Positions[i], buf.Normals[i], buf.Colors[i], buf.Tangents[i], buf.UVs[i]
		r.scratch = append(r.scratch,
			p.X, p.Y, p.Z,
			nm.X, nm.Y, nm.Z,
			c[0], c[1], c[2], c[3],
			tg.X, tg.Y, tg.Z,
			uv.X, uv.Y,
		)
	}

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.scratch)*4, gl.Ptr(r.scratch), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(buf.Indices)*4, gl.Ptr(buf.Indices), gl.DYNAMIC_DRAW)
	gl.BindVertexArray(0)
}

// Draw clears the frame and renders the uploaded stroke.
func (r *Renderer) Draw(viewProj math.Mat4, lightDir math.Vec3) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if r.indexCount == 0 {
		return
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.uViewProj, 1, false, viewProj.Ptr())
	gl.Uniform3f(r.uLightDir, lightDir.X, lightDir.Y, lightDir.Z)
	gl.BindVertexArray(r.vao)
	gl.DrawElements(gl.TRIANGLES, r.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}
