package glrender

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/tessera3d/tessera/internal/engine/render"
)

type blendState struct {
	enabled  bool
	src, dst uint32
}

type depthState struct {
	test  bool
	write bool
}

type rasterState struct {
	cull bool
	// frontFace names the winding of faces that are kept. Culling clockwise
	// faces means declaring counter-clockwise as front.
	frontFace uint32
	fillMode  uint32
}

type samplerState struct {
	id uint32
}

// States builds the preset state objects once and hands out the same handles
// for the lifetime of the GL context.
type States struct {
	opaque           *blendState
	alphaBlend       *blendState
	nonPremultiplied *blendState

	depthDefault *depthState
	depthRead    *depthState

	cullCW    *rasterState
	cullCCW   *rasterState
	wireframe *rasterState

	linearWrap *samplerState
}

// NewStates creates the preset set for the current GL context.
func NewStates() *States {
	var sampler uint32
	gl.GenSamplers(1, &sampler)
	gl.SamplerParameteri(sampler, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.SamplerParameteri(sampler, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.SamplerParameteri(sampler, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.SamplerParameteri(sampler, gl.TEXTURE_WRAP_T, gl.REPEAT)

	return &States{
		opaque:           &blendState{enabled: false},
		alphaBlend:       &blendState{enabled: true, src: gl.ONE, dst: gl.ONE_MINUS_SRC_ALPHA},
		nonPremultiplied: &blendState{enabled: true, src: gl.SRC_ALPHA, dst: gl.ONE_MINUS_SRC_ALPHA},

		depthDefault: &depthState{test: true, write: true},
		depthRead:    &depthState{test: true, write: false},

		cullCW:    &rasterState{cull: true, frontFace: gl.CCW, fillMode: gl.FILL},
		cullCCW:   &rasterState{cull: true, frontFace: gl.CW, fillMode: gl.FILL},
		wireframe: &rasterState{cull: false, frontFace: gl.CCW, fillMode: gl.LINE},

		linearWrap: &samplerState{id: sampler},
	}
}

func (s *States) Opaque() render.BlendState           { return s.opaque }
func (s *States) AlphaBlend() render.BlendState       { return s.alphaBlend }
func (s *States) NonPremultiplied() render.BlendState { return s.nonPremultiplied }

func (s *States) DepthDefault() render.DepthStencilState { return s.depthDefault }
func (s *States) DepthRead() render.DepthStencilState    { return s.depthRead }

func (s *States) CullClockwise() render.RasterizerState        { return s.cullCW }
func (s *States) CullCounterClockwise() render.RasterizerState { return s.cullCCW }
func (s *States) Wireframe() render.RasterizerState            { return s.wireframe }

func (s *States) LinearWrap() render.SamplerState { return s.linearWrap }

// Destroy releases the sampler object.
func (s *States) Destroy() {
	if s.linearWrap.id != 0 {
		gl.DeleteSamplers(1, &s.linearWrap.id)
		s.linearWrap.id = 0
	}
}

var _ render.StateProvider = (*States)(nil)
