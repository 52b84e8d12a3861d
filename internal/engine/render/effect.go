package render

import "github.com/tessera3d/tessera/pkg/math"

// Effect is a bound shading configuration: shader programs plus their
// per-draw constants. Apply pushes both into the command stream.
//
// Effects are shared: many geometry parts, across meshes and models, may
// reference one instance. Optional capabilities are expressed as interface
// upgrades; the scene graph type-asserts for MatrixEffect and SkinnedEffect
// at draw time and skips whatever an effect does not implement.
type Effect interface {
	Apply(ctx Context)
}

// MatrixEffect is the matrix-injection capability: the effect accepts
// world/view/projection matrices for its next Apply.
type MatrixEffect interface {
	Effect
	SetWorld(m math.Mat4)
	SetView(m math.Mat4)
	SetProjection(m math.Mat4)
}

// SkinnedEffect is the skinning capability: the effect accepts a bone
// transform table consumed by its vertex stage. The table is read, never
// retained past the next Apply, and never mutated.
type SkinnedEffect interface {
	Effect
	SetBoneTransforms(transforms []math.Mat4)
}
