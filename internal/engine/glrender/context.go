package glrender

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/tessera3d/tessera/internal/engine/render"
	"github.com/tessera3d/tessera/internal/logger"
)

// Context is the GL command stream. It owns a single VAO and rebuilds its
// attribute pointers lazily before a draw whenever the bound layout or vertex
// buffer changed, so redundant SetInputLayout/SetVertexBuffer calls between
// draws cost nothing.
type Context struct {
	vao uint32

	layout       *inputLayout
	vertexBuf    *buffer
	stride       int32
	vertexOffset int
	vertexDirty  bool

	indexType uint32
	indexSize int

	topology uint32

	enabled map[uint32]bool
}

// NewContext creates the command context for the current GL context.
func NewContext() *Context {
	c := &Context{
		topology: gl.TRIANGLES,
		enabled:  make(map[uint32]bool),
	}
	gl.GenVertexArrays(1, &c.vao)
	gl.BindVertexArray(c.vao)
	return c
}

// SetInputLayout stages the attribute layout for the next draw.
func (c *Context) SetInputLayout(layout render.InputLayout) {
	l, ok := layout.(*inputLayout)
	if !ok {
		logger.Warn("foreign input layout ignored")
		return
	}
	if l != c.layout {
		c.layout = l
		c.vertexDirty = true
	}
}

// SetVertexBuffer stages the vertex stream for the next draw. Only stream
// slot 0 exists on this backend; the byte offset is folded into the attribute
// pointers.
func (c *Context) SetVertexBuffer(slot int, buf render.Buffer, stride, offset int) {
	if slot != 0 {
		logger.Warn("vertex buffer slot not supported", zap.Int("slot", slot))
		return
	}
	b, ok := buf.(*buffer)
	if !ok {
		logger.Warn("foreign vertex buffer ignored")
		return
	}
	if b != c.vertexBuf || int32(stride) != c.stride || offset != c.vertexOffset {
		c.vertexBuf = b
		c.stride = int32(stride)
		c.vertexOffset = offset
		c.vertexDirty = true
	}
}

// SetIndexBuffer binds the index stream. The binding lives in the VAO, so it
// takes effect immediately.
func (c *Context) SetIndexBuffer(buf render.Buffer, format render.IndexFormat) {
	b, ok := buf.(*buffer)
	if !ok {
		logger.Warn("foreign index buffer ignored")
		return
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.id)
	if format == render.Index32 {
		c.indexType = gl.UNSIGNED_INT
	} else {
		c.indexType = gl.UNSIGNED_SHORT
	}
	c.indexSize = format.Size()
}

// SetTopology selects the primitive type for subsequent draws.
func (c *Context) SetTopology(t render.Topology) {
	switch t {
	case render.TriangleStrip:
		c.topology = gl.TRIANGLE_STRIP
	case render.LineList:
		c.topology = gl.LINES
	case render.LineStrip:
		c.topology = gl.LINE_STRIP
	case render.PointList:
		c.topology = gl.POINTS
	default:
		c.topology = gl.TRIANGLES
	}
}

// SetBlendState applies a blend preset from States.
func (c *Context) SetBlendState(s render.BlendState) {
	b, ok := s.(*blendState)
	if !ok {
		logger.Warn("foreign blend state ignored")
		return
	}
	if !b.enabled {
		gl.Disable(gl.BLEND)
		return
	}
	gl.Enable(gl.BLEND)
	gl.BlendFunc(b.src, b.dst)
}

// SetDepthStencilState applies a depth preset from States.
func (c *Context) SetDepthStencilState(s render.DepthStencilState) {
	d, ok := s.(*depthState)
	if !ok {
		logger.Warn("foreign depth state ignored")
		return
	}
	if d.test {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LEQUAL)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.DepthMask(d.write)
}

// SetRasterizerState applies a rasterizer preset from States.
func (c *Context) SetRasterizerState(s render.RasterizerState) {
	r, ok := s.(*rasterState)
	if !ok {
		logger.Warn("foreign rasterizer state ignored")
		return
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, r.fillMode)
	if r.cull {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
		gl.FrontFace(r.frontFace)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
}

// SetSamplers binds sampler objects to consecutive texture units starting at
// startSlot.
func (c *Context) SetSamplers(startSlot int, samplers []render.SamplerState) {
	for i, s := range samplers {
		smp, ok := s.(*samplerState)
		if !ok {
			logger.Warn("foreign sampler ignored", zap.Int("slot", startSlot+i))
			continue
		}
		gl.BindSampler(uint32(startSlot+i), smp.id)
	}
}

// DrawIndexed submits one indexed draw.
func (c *Context) DrawIndexed(indexCount, startIndex, vertexOffset int) {
	if !c.bindVertexState() {
		return
	}
	gl.DrawElementsBaseVertex(c.topology, int32(indexCount), c.indexType,
		gl.PtrOffset(startIndex*c.indexSize), int32(vertexOffset))
}

// DrawIndexedInstanced submits one instanced indexed draw. OpenGL 4.1 has no
// base-instance draw call, so a nonzero startInstance cannot be honored.
func (c *Context) DrawIndexedInstanced(indexCount, instanceCount, startIndex, vertexOffset, startInstance int) {
	if startInstance != 0 {
		logger.Warn("startInstance ignored, not supported before GL 4.2",
			zap.Int("startInstance", startInstance))
	}
	if !c.bindVertexState() {
		return
	}
	gl.DrawElementsInstancedBaseVertex(c.topology, int32(indexCount), c.indexType,
		gl.PtrOffset(startIndex*c.indexSize), int32(instanceCount), int32(vertexOffset))
}

// bindVertexState re-points the VAO's attributes at the staged layout and
// vertex buffer. Returns false when no draw is possible.
func (c *Context) bindVertexState() bool {
	if c.layout == nil || c.vertexBuf == nil {
		logger.Warn("draw without layout or vertex buffer dropped")
		return false
	}
	if !c.vertexDirty {
		return true
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, c.vertexBuf.id)

	active := make(map[uint32]bool, len(c.layout.attribs))
	for _, a := range c.layout.attribs {
		gl.EnableVertexAttribArray(a.location)
		gl.VertexAttribPointerWithOffset(a.location, a.components, a.xtype,
			a.normalized, c.stride, uintptr(c.vertexOffset+a.offset))
		active[a.location] = true
	}
	for loc := range c.enabled {
		if !active[loc] {
			gl.DisableVertexAttribArray(loc)
		}
	}
	c.enabled = active
	c.vertexDirty = false
	return true
}

// Destroy releases the VAO.
func (c *Context) Destroy() {
	if c.vao != 0 {
		gl.DeleteVertexArrays(1, &c.vao)
		c.vao = 0
	}
}

var _ render.Context = (*Context)(nil)
