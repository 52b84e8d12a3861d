package model

import (
	"fmt"

	"github.com/tessera3d/tessera/internal/engine/render"
	"github.com/tessera3d/tessera/pkg/math"
)

// recordContext captures every command issued into it. State handles from
// fakeStates are plain strings, so assertions read naturally.
type recordContext struct {
	blend    render.BlendState
	depth    render.DepthStencilState
	raster   render.RasterizerState
	samplers []render.SamplerState

	layout   render.InputLayout
	topology render.Topology

	// ops is the flat command log, used for ordering assertions.
	ops []string

	draws []recordedDraw
}

type recordedDraw struct {
	indexCount   int
	startIndex   int
	vertexOffset int

	instanceCount int
	startInstance int

	// blend is the blend state at submission time; the pass a draw belongs
	// to is recovered from it.
	blend render.BlendState
}

func (c *recordContext) op(format string, args ...any) {
	c.ops = append(c.ops, fmt.Sprintf(format, args...))
}

func (c *recordContext) SetInputLayout(l render.InputLayout) {
	c.layout = l
	c.op("input-layout")
}

func (c *recordContext) SetVertexBuffer(slot int, b render.Buffer, stride, offset int) {
	c.op("vertex-buffer")
}

func (c *recordContext) SetIndexBuffer(b render.Buffer, f render.IndexFormat) {
	c.op("index-buffer")
}

func (c *recordContext) SetTopology(t render.Topology) {
	c.topology = t
	c.op("topology")
}

func (c *recordContext) SetBlendState(s render.BlendState) {
	c.blend = s
	c.op("blend:%v", s)
}

func (c *recordContext) SetDepthStencilState(s render.DepthStencilState) {
	c.depth = s
	c.op("depth:%v", s)
}

func (c *recordContext) SetRasterizerState(s render.RasterizerState) {
	c.raster = s
	c.op("raster:%v", s)
}

func (c *recordContext) SetSamplers(startSlot int, samplers []render.SamplerState) {
	c.samplers = samplers
	c.op("samplers:%d:%d", startSlot, len(samplers))
}

func (c *recordContext) DrawIndexed(indexCount, startIndex, vertexOffset int) {
	c.op("draw")
	c.draws = append(c.draws, recordedDraw{
		indexCount:    indexCount,
		startIndex:    startIndex,
		vertexOffset:  vertexOffset,
		instanceCount: 1,
		blend:         c.blend,
	})
}

func (c *recordContext) DrawIndexedInstanced(indexCount, instanceCount, startIndex, vertexOffset, startInstance int) {
	c.op("draw-instanced")
	c.draws = append(c.draws, recordedDraw{
		indexCount:    indexCount,
		startIndex:    startIndex,
		vertexOffset:  vertexOffset,
		instanceCount: instanceCount,
		startInstance: startInstance,
		blend:         c.blend,
	})
}

// opaqueDraws and alphaDraws partition the recorded draws by the blend state
// that was current when they were issued.
func (c *recordContext) opaqueDraws() []recordedDraw {
	var out []recordedDraw
	for _, d := range c.draws {
		if d.blend == render.BlendState("opaque") {
			out = append(out, d)
		}
	}
	return out
}

func (c *recordContext) alphaDraws() []recordedDraw {
	var out []recordedDraw
	for _, d := range c.draws {
		if d.blend == render.BlendState("alpha-blend") || d.blend == render.BlendState("non-premultiplied") {
			out = append(out, d)
		}
	}
	return out
}

// fakeStates hands out string handles named after the preset.
type fakeStates struct{}

func (fakeStates) Opaque() render.BlendState                  { return "opaque" }
func (fakeStates) AlphaBlend() render.BlendState              { return "alpha-blend" }
func (fakeStates) NonPremultiplied() render.BlendState        { return "non-premultiplied" }
func (fakeStates) DepthDefault() render.DepthStencilState     { return "depth-default" }
func (fakeStates) DepthRead() render.DepthStencilState        { return "depth-read" }
func (fakeStates) CullClockwise() render.RasterizerState      { return "cull-cw" }
func (fakeStates) CullCounterClockwise() render.RasterizerState { return "cull-ccw" }
func (fakeStates) Wireframe() render.RasterizerState          { return "wireframe" }
func (fakeStates) LinearWrap() render.SamplerState            { return "linear-wrap" }

// fakeDevice counts input layouts and can be told to fail.
type fakeDevice struct {
	created int
	fail    error
}

func (d *fakeDevice) CreateInputLayout(layout []render.InputElement, e render.Effect) (render.InputLayout, error) {
	if d.fail != nil {
		return nil, d.fail
	}
	d.created++
	return fmt.Sprintf("layout-%d", d.created), nil
}

// fakeEffect supports neither capability.
type fakeEffect struct {
	applies int
}

func (e *fakeEffect) Apply(ctx render.Context) {
	e.applies++
	if rc, ok := ctx.(*recordContext); ok {
		rc.op("apply")
	}
}

// fakeMatrixEffect adds the matrix-injection capability and records every
// pushed world matrix.
type fakeMatrixEffect struct {
	fakeEffect
	world      math.Mat4
	view       math.Mat4
	projection math.Mat4
	worlds     []math.Mat4
}

func (e *fakeMatrixEffect) SetWorld(m math.Mat4) {
	e.world = m
	e.worlds = append(e.worlds, m)
}

func (e *fakeMatrixEffect) SetView(m math.Mat4)       { e.view = m }
func (e *fakeMatrixEffect) SetProjection(m math.Mat4) { e.projection = m }

// fakeSkinnedEffect adds the skinning capability on top of matrices.
type fakeSkinnedEffect struct {
	fakeMatrixEffect
	boneTables [][]math.Mat4
}

func (e *fakeSkinnedEffect) SetBoneTransforms(t []math.Mat4) {
	e.boneTables = append(e.boneTables, t)
}

func testLayout() []render.InputElement {
	return []render.InputElement{
		{Name: "aPosition", Location: 0, Format: render.Float3, Offset: 0},
		{Name: "aNormal", Location: 1, Format: render.Float3, Offset: 12},
	}
}

func newTestPart(indexCount int, alpha bool, e render.Effect) *Part {
	p, err := NewPart(Part{
		IndexCount:   indexCount,
		VertexStride: 24,
		Topology:     render.TriangleList,
		IndexFormat:  render.Index16,
		Layout:       testLayout(),
		IsAlpha:      alpha,
		InputLayout:  "test-layout",
		Effect:       e,
	})
	if err != nil {
		panic(err)
	}
	return p
}
