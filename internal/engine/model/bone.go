package model

import (
	"github.com/pkg/errors"

	"github.com/tessera3d/tessera/pkg/math"
)

// NoBone marks the absence of a bone binding or linkage.
const NoBone = -1

// Bone is a node in a parent-indexed hierarchy. Bones live in a dense arena
// slice owned by the Model; Parent, Child, and Sibling address that slice or
// are NoBone. Multiple roots are allowed, so the bones form a forest.
type Bone struct {
	Name    string
	Parent  int
	Child   int
	Sibling int
}

// SetBones installs the bone forest and its local pose, then computes the
// absolute (model-space) pose. Linkage indices must address the slice or be
// NoBone, and one local transform is required per bone.
func (m *Model) SetBones(bones []Bone, localPose []math.Mat4) error {
	if len(localPose) != len(bones) {
		return errors.Wrapf(ErrInvalidArgument,
			"local pose has %d transforms for %d bones", len(localPose), len(bones))
	}
	for i, b := range bones {
		for _, link := range [3]int{b.Parent, b.Child, b.Sibling} {
			if link != NoBone && (link < 0 || link >= len(bones)) {
				return errors.Wrapf(ErrInvalidArgument,
					"bone %d (%q) links to out-of-range bone %d", i, b.Name, link)
			}
		}
	}

	m.bones = append([]Bone(nil), bones...)
	m.localPose = append([]math.Mat4(nil), localPose...)
	m.absolutePose = make([]math.Mat4, len(bones))
	composeAbsolutePose(m.bones, m.localPose, m.absolutePose)
	return nil
}

// SetLocalBoneTransforms replaces the local pose and recomputes the absolute
// pose in one pass. This is the only time the absolute pose changes; draw
// calls never touch it.
func (m *Model) SetLocalBoneTransforms(localPose []math.Mat4) error {
	if len(localPose) != len(m.bones) {
		return errors.Wrapf(ErrInvalidArgument,
			"local pose has %d transforms for %d bones", len(localPose), len(m.bones))
	}
	copy(m.localPose, localPose)
	composeAbsolutePose(m.bones, m.localPose, m.absolutePose)
	return nil
}

// Bones returns the bone forest. The slice is owned by the model.
func (m *Model) Bones() []Bone {
	return m.bones
}

// AbsoluteBoneTransforms returns the precomputed model-space pose, one
// transform per bone. The slice is owned by the model; callers must treat it
// as read-only.
func (m *Model) AbsoluteBoneTransforms() []math.Mat4 {
	return m.absolutePose
}

// composeAbsolutePose fills absolute with parent-chain compositions of the
// local pose. Bones may appear in any order; each parent chain is resolved
// once via memoization. A bone on its own ancestor chain is treated as a
// root, which keeps malformed data from recursing forever.
func composeAbsolutePose(bones []Bone, local, absolute []math.Mat4) {
	const (
		unresolved = iota
		resolving
		resolved
	)
	state := make([]uint8, len(bones))

	var resolve func(i int) math.Mat4
	resolve = func(i int) math.Mat4 {
		switch state[i] {
		case resolved:
			return absolute[i]
		case resolving:
			// Cycle: break it at this bone.
			absolute[i] = local[i]
			state[i] = resolved
			return absolute[i]
		}
		state[i] = resolving

		parent := bones[i].Parent
		if parent == NoBone {
			absolute[i] = local[i]
		} else {
			absolute[i] = resolve(parent).Mul(local[i])
		}
		state[i] = resolved
		return absolute[i]
	}

	for i := range bones {
		resolve(i)
	}
}
