// Package render defines the boundary between the scene graph and a GPU
// backend: a command context for state setting and draw submission, a device
// for input-layout creation, and the named render-state presets the mesh code
// selects from. The glrender package provides the OpenGL implementation;
// tests substitute recording fakes.
package render

// Opaque backend handles. The scene graph stores and forwards these without
// inspecting them; each backend asserts them back to its own concrete types.
type (
	// Buffer is a GPU vertex or index buffer handle.
	Buffer interface{}
	// InputLayout describes how vertex buffer bytes map to shader inputs.
	InputLayout interface{}
	// BlendState is a blend preset handle.
	BlendState interface{}
	// DepthStencilState is a depth/stencil preset handle.
	DepthStencilState interface{}
	// RasterizerState is a rasterizer preset handle.
	RasterizerState interface{}
	// SamplerState is a texture sampler handle.
	SamplerState interface{}
)

// Context is a command stream. All calls are synchronous and execute on the
// calling goroutine; the scene graph never retains a Context across draws.
type Context interface {
	SetInputLayout(layout InputLayout)
	SetVertexBuffer(slot int, buf Buffer, stride, offset int)
	SetIndexBuffer(buf Buffer, format IndexFormat)
	SetTopology(t Topology)

	SetBlendState(s BlendState)
	SetDepthStencilState(s DepthStencilState)
	SetRasterizerState(s RasterizerState)
	SetSamplers(startSlot int, samplers []SamplerState)

	DrawIndexed(indexCount, startIndex, vertexOffset int)
	DrawIndexedInstanced(indexCount, instanceCount, startIndex, vertexOffset, startInstance int)
}

// Device creates input layouts from a vertex layout descriptor and the input
// signature of the effect the layout will be used with.
type Device interface {
	CreateInputLayout(layout []InputElement, e Effect) (InputLayout, error)
}
