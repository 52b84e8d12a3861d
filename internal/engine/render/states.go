package render

// StateProvider exposes the fixed set of named state presets the mesh
// renderer selects from. Implementations create the underlying objects once
// and hand out the same handle on every call.
type StateProvider interface {
	// Opaque disables blending.
	Opaque() BlendState
	// AlphaBlend blends premultiplied alpha.
	AlphaBlend() BlendState
	// NonPremultiplied blends straight (non-premultiplied) alpha.
	NonPremultiplied() BlendState

	// DepthDefault tests and writes depth.
	DepthDefault() DepthStencilState
	// DepthRead tests depth without writing it.
	DepthRead() DepthStencilState

	// CullClockwise culls clockwise-wound faces.
	CullClockwise() RasterizerState
	// CullCounterClockwise culls counter-clockwise-wound faces.
	CullCounterClockwise() RasterizerState
	// Wireframe rasterizes edges only, with culling disabled.
	Wireframe() RasterizerState

	// LinearWrap samples with linear filtering and repeat addressing.
	LinearWrap() SamplerState
}
