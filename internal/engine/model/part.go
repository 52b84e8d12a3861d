// Package model implements the drawable scene graph: a Model owns an ordered
// list of Meshes, each Mesh owns an ordered list of geometry Parts, and an
// optional bone forest supplies per-mesh world transforms. Draw traversal is
// single-threaded and synchronous; commands go straight into the caller's
// render.Context.
package model

import (
	"github.com/pkg/errors"

	"github.com/tessera3d/tessera/internal/engine/render"
)

// Part is the smallest drawable unit: one contiguous run of indexed geometry
// with a single bound effect. Parts are assembled once; after that the only
// in-place mutation is ModifyEffect.
type Part struct {
	IndexCount   int
	StartIndex   int
	VertexOffset int
	VertexStride int
	Topology     render.Topology
	IndexFormat  render.IndexFormat

	// Layout describes how vertex bytes map to shader inputs. It must be
	// non-empty and within render.MaxInputElements.
	Layout []render.InputElement

	// IsAlpha routes the part into the translucent pass.
	IsAlpha bool

	VertexBuffer render.Buffer
	IndexBuffer  render.Buffer
	InputLayout  render.InputLayout

	// Effect is shared; other parts in this or other models may reference
	// the same instance.
	Effect render.Effect
}

// NewPart validates the vertex layout descriptor and returns the part.
func NewPart(p Part) (*Part, error) {
	if err := p.validateLayout(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Part) validateLayout() error {
	if len(p.Layout) == 0 {
		return errors.Wrap(ErrInvalidConfiguration, "part has no vertex layout elements")
	}
	if len(p.Layout) > render.MaxInputElements {
		return errors.Wrapf(ErrInvalidConfiguration,
			"part declares %d vertex layout elements, limit is %d",
			len(p.Layout), render.MaxInputElements)
	}
	return nil
}

// Draw binds the part's buffers and input layout, applies the effect, runs
// the optional custom-state hook, and issues the indexed draw.
//
// The effect and layout are parameters rather than read from the part so a
// caller can substitute its own, mirroring how the mesh passes the part's
// current binding in the common case.
func (p *Part) Draw(ctx render.Context, e render.Effect, layout render.InputLayout, customState func()) {
	ctx.SetInputLayout(layout)
	ctx.SetVertexBuffer(0, p.VertexBuffer, p.VertexStride, 0)
	ctx.SetIndexBuffer(p.IndexBuffer, p.IndexFormat)

	e.Apply(ctx)

	// Hook lets the caller replace shaders or state with whatever they see fit.
	if customState != nil {
		customState()
	}

	ctx.SetTopology(p.Topology)
	ctx.DrawIndexed(p.IndexCount, p.StartIndex, p.VertexOffset)
}

// DrawInstanced is Draw with an instanced indexed draw call.
func (p *Part) DrawInstanced(ctx render.Context, e render.Effect, layout render.InputLayout,
	instanceCount, startInstance int, customState func()) {

	ctx.SetInputLayout(layout)
	ctx.SetVertexBuffer(0, p.VertexBuffer, p.VertexStride, 0)
	ctx.SetIndexBuffer(p.IndexBuffer, p.IndexFormat)

	e.Apply(ctx)

	if customState != nil {
		customState()
	}

	ctx.SetTopology(p.Topology)
	ctx.DrawIndexedInstanced(p.IndexCount, instanceCount, p.StartIndex, p.VertexOffset, startInstance)
}

// CreateInputLayout builds an input layout for this part's vertex layout
// against the given effect's input signature. The part itself is not
// modified; assign the result to InputLayout to adopt it.
func (p *Part) CreateInputLayout(dev render.Device, e render.Effect) (render.InputLayout, error) {
	if err := p.validateLayout(); err != nil {
		return nil, err
	}
	return dev.CreateInputLayout(p.Layout, e)
}

// ModifyEffect rebinds the part to a different effect, updates its alpha
// routing, and regenerates the input layout for the new effect's signature.
// On failure the part keeps its previous binding.
func (p *Part) ModifyEffect(dev render.Device, e render.Effect, isAlpha bool) error {
	if err := p.validateLayout(); err != nil {
		return err
	}

	layout, err := dev.CreateInputLayout(p.Layout, e)
	if err != nil {
		return err
	}

	p.Effect = e
	p.IsAlpha = isAlpha
	p.InputLayout = layout
	return nil
}
