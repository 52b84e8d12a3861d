package model

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tessera3d/tessera/internal/engine/render"
	"github.com/tessera3d/tessera/internal/logger"
	"github.com/tessera3d/tessera/pkg/math"
)

// Mesh is a named group of parts sharing one optional bone binding and one
// set of render-state preferences. Meshes are assembled once during model
// construction and are immutable afterwards, except for their parts' effect
// bindings (Part.ModifyEffect).
type Mesh struct {
	Name string

	// BoneIndex selects this mesh's world transform from a bone transform
	// table, or NoBone for meshes not bound to a bone.
	BoneIndex int

	// CCW selects counter-clockwise culling in PrepareForRendering.
	CCW bool

	// PMAlpha selects the premultiplied alpha blend preset for the alpha pass.
	PMAlpha bool

	// BoneInfluences maps this mesh's vertex bone slots to indices in the
	// bone transform table. The draw path only requires it to be non-empty
	// when a skinning-capable effect is bound; the mapping itself is
	// consumed by the vertex stage.
	BoneInfluences []uint32

	Parts []*Part
}

// PrepareForRendering sets up blend, depth-stencil, rasterizer, and sampler
// state for one pass over this mesh.
func (m *Mesh) PrepareForRendering(ctx render.Context, states render.StateProvider, alphaPass, wireframe bool) {
	var blend render.BlendState
	var depth render.DepthStencilState
	if alphaPass {
		if m.PMAlpha {
			blend = states.AlphaBlend()
		} else {
			blend = states.NonPremultiplied()
		}
		depth = states.DepthRead()
	} else {
		blend = states.Opaque()
		depth = states.DepthDefault()
	}
	ctx.SetBlendState(blend)
	ctx.SetDepthStencilState(depth)

	switch {
	case wireframe:
		ctx.SetRasterizerState(states.Wireframe())
	case m.CCW:
		ctx.SetRasterizerState(states.CullCounterClockwise())
	default:
		ctx.SetRasterizerState(states.CullClockwise())
	}

	ctx.SetSamplers(0, []render.SamplerState{states.LinearWrap(), states.LinearWrap()})
}

// Draw draws the parts whose alpha flag matches alphaPass, in declared
// order. Effects with the matrix capability receive world, view, and
// projection before their part draws; other effects are assumed to be
// pre-configured by the caller.
func (m *Mesh) Draw(ctx render.Context, world, view, projection math.Mat4, alphaPass bool, customState func()) {
	for _, part := range m.Parts {
		if part.IsAlpha != alphaPass {
			// Skip alpha parts when drawing opaque, opaque parts when drawing alpha.
			continue
		}

		if fx, ok := part.Effect.(render.MatrixEffect); ok {
			fx.SetWorld(world)
			fx.SetView(view)
			fx.SetProjection(projection)
		}

		part.Draw(ctx, part.Effect, part.InputLayout, customState)
	}
}

// DrawSkinned draws the parts whose alpha flag matches alphaPass, resolving
// transforms per the bound effect's capabilities:
//
//   - skinning: the mesh must carry bone influences; the whole table is
//     pushed to the effect and the vertex stage resolves influences against it.
//   - matrices without skinning: view and projection are pushed, and world is
//     boneTransforms[BoneIndex] when that index is in range, else
//     boneTransforms[0].
//   - neither: nothing is pushed.
//
// boneTransforms must be non-empty. The table is read by index only, never
// mutated, and works identically whether caller-supplied or taken from a
// model's absolute pose.
func (m *Mesh) DrawSkinned(ctx render.Context, boneTransforms []math.Mat4,
	view, projection math.Mat4, alphaPass bool, customState func()) error {

	if len(boneTransforms) == 0 {
		return errors.Wrapf(ErrInvalidArgument, "mesh %q: bone transform table required", m.Name)
	}

	for _, part := range m.Parts {
		if part.IsAlpha != alphaPass {
			// Skip alpha parts when drawing opaque, opaque parts when drawing alpha.
			continue
		}

		fx, hasMatrices := part.Effect.(render.MatrixEffect)
		if hasMatrices {
			fx.SetView(view)
			fx.SetProjection(projection)
		}

		if skinned, ok := part.Effect.(render.SkinnedEffect); ok {
			if len(m.BoneInfluences) == 0 {
				logger.Warn("mesh is missing bone influences required for skinning",
					zap.String("mesh", m.Name))
				return errors.Wrapf(ErrMissingSkinningData, "mesh %q", m.Name)
			}
			skinned.SetBoneTransforms(boneTransforms)
		} else if hasMatrices {
			fx.SetWorld(worldFromBones(boneTransforms, m.BoneIndex))
		}

		part.Draw(ctx, part.Effect, part.InputLayout, customState)
	}

	return nil
}

// worldFromBones selects the transform at boneIndex when it addresses the
// table, falling back to the table's first entry for unbound or out-of-range
// meshes (rigid fallback).
func worldFromBones(boneTransforms []math.Mat4, boneIndex int) math.Mat4 {
	if boneIndex >= 0 && boneIndex < len(boneTransforms) {
		return boneTransforms[boneIndex]
	}
	return boneTransforms[0]
}
