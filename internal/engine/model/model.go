package model

import (
	"github.com/pkg/errors"

	"github.com/tessera3d/tessera/internal/engine/render"
	"github.com/tessera3d/tessera/pkg/math"
)

// Model is the aggregate root: ordered meshes plus an optional bone forest
// with its precomputed absolute pose, and a lazily built registry of the
// distinct effect instances its parts reference.
//
// Draw traversal is two full passes over the meshes, opaque then alpha, so
// that all opaque geometry in the model writes depth before any translucent
// geometry blends. The effect registry and Part.ModifyEffect are not safe for
// concurrent use against the same model; everything here assumes a
// single-threaded render loop.
type Model struct {
	Name   string
	Meshes []*Mesh

	bones        []Bone
	localPose    []math.Mat4
	absolutePose []math.Mat4

	// effectCache dedups shared effects by instance identity. Built on the
	// first UpdateEffects call and never rebuilt; rebinding a part's effect
	// afterwards leaves the cache stale by design.
	effectCache map[render.Effect]struct{}
}

// New returns an empty model.
func New(name string) *Model {
	return &Model{Name: name}
}

// Draw draws every mesh with an explicit world matrix: one opaque pass over
// all meshes, then one alpha pass over all meshes.
func (m *Model) Draw(ctx render.Context, states render.StateProvider,
	world, view, projection math.Mat4, wireframe bool, customState func()) {

	for _, alphaPass := range [2]bool{false, true} {
		for _, mesh := range m.Meshes {
			mesh.PrepareForRendering(ctx, states, alphaPass, wireframe)
			mesh.Draw(ctx, world, view, projection, alphaPass, customState)
		}
	}
}

// DrawWithBones draws every mesh rigidly, resolving each mesh's world matrix
// from a bone transform table: boneTransforms[mesh.BoneIndex] when in range,
// else boneTransforms[0]. An empty table falls back to the model's own
// absolute pose; if the model has no bones either, the draw fails before any
// command is issued.
func (m *Model) DrawWithBones(ctx render.Context, states render.StateProvider,
	boneTransforms []math.Mat4, view, projection math.Mat4, wireframe bool, customState func()) error {

	if len(boneTransforms) == 0 {
		if len(m.bones) == 0 {
			return errors.Wrapf(ErrInvalidArgument, "model %q contains no bones", m.Name)
		}
		boneTransforms = m.absolutePose
	}

	for _, alphaPass := range [2]bool{false, true} {
		for _, mesh := range m.Meshes {
			mesh.PrepareForRendering(ctx, states, alphaPass, wireframe)
			world := worldFromBones(boneTransforms, mesh.BoneIndex)
			mesh.Draw(ctx, world, view, projection, alphaPass, customState)
		}
	}
	return nil
}

// DrawSkinned draws every mesh through Mesh.DrawSkinned with the same
// two-pass order. A transform table is required regardless of the model's
// own bone data. The first failing mesh aborts the traversal; commands
// already issued stay in the stream.
func (m *Model) DrawSkinned(ctx render.Context, states render.StateProvider,
	boneTransforms []math.Mat4, view, projection math.Mat4, wireframe bool, customState func()) error {

	if len(boneTransforms) == 0 {
		return errors.Wrapf(ErrInvalidArgument, "model %q: bone transform table required", m.Name)
	}

	for _, alphaPass := range [2]bool{false, true} {
		for _, mesh := range m.Meshes {
			mesh.PrepareForRendering(ctx, states, alphaPass, wireframe)
			if err := mesh.DrawSkinned(ctx, boneTransforms, view, projection, alphaPass, customState); err != nil {
				return err
			}
		}
	}
	return nil
}

// UpdateEffects invokes visit once per distinct effect instance referenced by
// any part in any mesh. Dedup is by instance identity, so an effect shared by
// many parts is visited exactly once.
//
// The registry is built on the first call and kept for the model's lifetime;
// effects rebound after that are not picked up. The registry holds
// back-references for enumeration only, it does not govern effect lifetime.
func (m *Model) UpdateEffects(visit func(render.Effect)) {
	if m.effectCache == nil {
		m.effectCache = make(map[render.Effect]struct{})
		for _, mesh := range m.Meshes {
			for _, part := range mesh.Parts {
				if part.Effect != nil {
					m.effectCache[part.Effect] = struct{}{}
				}
			}
		}
	}

	for e := range m.effectCache {
		visit(e)
	}
}
