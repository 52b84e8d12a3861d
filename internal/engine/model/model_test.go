package model

import (
	"errors"
	"testing"

	"github.com/tessera3d/tessera/internal/engine/render"
	"github.com/tessera3d/tessera/pkg/math"
)

// buildTwoMeshModel returns a model whose first mesh holds one opaque part
// and whose second mesh holds one alpha part.
func buildTwoMeshModel(fx render.Effect) *Model {
	m := New("two-mesh")
	m.Meshes = []*Mesh{
		{Name: "opaque", BoneIndex: NoBone, Parts: []*Part{newTestPart(3, false, fx)}},
		{Name: "alpha", BoneIndex: NoBone, Parts: []*Part{newTestPart(6, true, fx)}},
	}
	return m
}

func TestModelDrawRoundTrip(t *testing.T) {
	ctx := &recordContext{}
	m := buildTwoMeshModel(&fakeMatrixEffect{})

	m.Draw(ctx, fakeStates{}, math.Identity(), math.Identity(), math.Identity(), false, nil)

	if len(ctx.draws) != 2 {
		t.Fatalf("expected exactly 2 draws, got %d", len(ctx.draws))
	}
	if len(ctx.opaqueDraws()) != 1 || len(ctx.alphaDraws()) != 1 {
		t.Fatalf("expected 1 opaque and 1 alpha draw, got %d/%d",
			len(ctx.opaqueDraws()), len(ctx.alphaDraws()))
	}
	if ctx.draws[0].blend != render.BlendState("opaque") {
		t.Error("first draw must be the opaque one")
	}
	if ctx.draws[1].blend == render.BlendState("opaque") {
		t.Error("second draw must be the alpha one")
	}
}

func TestModelDrawTwoPassOrdering(t *testing.T) {
	// Mixed model: meshes interleave opaque and alpha parts.
	fx := &fakeMatrixEffect{}
	m := New("mixed")
	m.Meshes = []*Mesh{
		{Name: "a", BoneIndex: NoBone, Parts: []*Part{
			newTestPart(3, false, fx),
			newTestPart(3, true, fx),
		}},
		{Name: "b", BoneIndex: NoBone, Parts: []*Part{
			newTestPart(3, true, fx),
			newTestPart(3, false, fx),
			newTestPart(3, false, fx),
		}},
	}

	ctx := &recordContext{}
	m.Draw(ctx, fakeStates{}, math.Identity(), math.Identity(), math.Identity(), false, nil)

	opaque, alpha := ctx.opaqueDraws(), ctx.alphaDraws()
	if len(opaque) != 3 {
		t.Errorf("opaque pass drew %d parts, want 3", len(opaque))
	}
	if len(alpha) != 2 {
		t.Errorf("alpha pass drew %d parts, want 2", len(alpha))
	}
	if len(ctx.draws) != 5 {
		t.Fatalf("total draws = %d, want 5", len(ctx.draws))
	}

	// Every opaque draw precedes every alpha draw.
	seenAlpha := false
	for i, d := range ctx.draws {
		if d.blend != render.BlendState("opaque") {
			seenAlpha = true
		} else if seenAlpha {
			t.Fatalf("draw %d is opaque after an alpha draw", i)
		}
	}
}

func TestModelDrawWithBonesWorldSelection(t *testing.T) {
	table := []math.Mat4{
		math.Translate(1, 0, 0),
		math.Translate(0, 1, 0),
		math.Translate(0, 0, 1),
	}

	tests := []struct {
		name      string
		boneIndex int
		wantWorld math.Mat4
	}{
		{name: "invalid sentinel falls back to first", boneIndex: NoBone, wantWorld: table[0]},
		{name: "valid index selects its transform", boneIndex: 2, wantWorld: table[2]},
		{name: "index past table falls back to first", boneIndex: 3, wantWorld: table[0]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := &fakeMatrixEffect{}
			m := New("bones")
			m.Meshes = []*Mesh{{Name: "m", BoneIndex: tt.boneIndex, Parts: []*Part{newTestPart(3, false, fx)}}}

			err := m.DrawWithBones(&recordContext{}, fakeStates{}, table, math.Identity(), math.Identity(), false, nil)
			if err != nil {
				t.Fatalf("DrawWithBones: %v", err)
			}

			if fx.world != tt.wantWorld {
				t.Errorf("world = %v, want %v", fx.world, tt.wantWorld)
			}
		})
	}
}

func TestModelDrawWithBonesUsesOwnPose(t *testing.T) {
	fx := &fakeMatrixEffect{}
	m := New("posed")
	m.Meshes = []*Mesh{{Name: "m", BoneIndex: 1, Parts: []*Part{newTestPart(3, false, fx)}}}

	bones := []Bone{
		{Name: "root", Parent: NoBone, Child: 1, Sibling: NoBone},
		{Name: "arm", Parent: 0, Child: NoBone, Sibling: NoBone},
	}
	local := []math.Mat4{math.Translate(1, 0, 0), math.Translate(0, 2, 0)}
	if err := m.SetBones(bones, local); err != nil {
		t.Fatalf("SetBones: %v", err)
	}

	err := m.DrawWithBones(&recordContext{}, fakeStates{}, nil, math.Identity(), math.Identity(), false, nil)
	if err != nil {
		t.Fatalf("DrawWithBones: %v", err)
	}

	want := math.Translate(1, 0, 0).Mul(math.Translate(0, 2, 0))
	if fx.world != want {
		t.Errorf("world = %v, want composed absolute transform %v", fx.world, want)
	}
}

func TestModelDrawWithBonesNoBones(t *testing.T) {
	m := buildTwoMeshModel(&fakeMatrixEffect{})

	ctx := &recordContext{}
	err := m.DrawWithBones(ctx, fakeStates{}, nil, math.Identity(), math.Identity(), false, nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if len(ctx.draws) != 0 {
		t.Errorf("no draws may be issued, got %d", len(ctx.draws))
	}
}

func TestModelDrawSkinnedRequiresTransforms(t *testing.T) {
	fx := &fakeSkinnedEffect{}
	m := buildTwoMeshModel(fx)

	for _, table := range [][]math.Mat4{nil, {}} {
		ctx := &recordContext{}
		err := m.DrawSkinned(ctx, fakeStates{}, table, math.Identity(), math.Identity(), false, nil)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
		if len(ctx.draws) != 0 {
			t.Errorf("no draws may be issued, got %d", len(ctx.draws))
		}
	}
}

func TestModelDrawSkinnedTwoPass(t *testing.T) {
	fx := &fakeSkinnedEffect{}
	m := buildTwoMeshModel(fx)
	for _, mesh := range m.Meshes {
		mesh.BoneInfluences = []uint32{0}
	}

	ctx := &recordContext{}
	table := []math.Mat4{math.Identity()}
	if err := m.DrawSkinned(ctx, fakeStates{}, table, math.Identity(), math.Identity(), false, nil); err != nil {
		t.Fatalf("DrawSkinned: %v", err)
	}

	if len(ctx.opaqueDraws()) != 1 || len(ctx.alphaDraws()) != 1 {
		t.Fatalf("expected 1 opaque and 1 alpha draw, got %d/%d",
			len(ctx.opaqueDraws()), len(ctx.alphaDraws()))
	}
	if ctx.draws[0].blend != render.BlendState("opaque") {
		t.Error("opaque draw must come first")
	}
}

func TestModelDrawSkinnedAbortsOnFirstFailure(t *testing.T) {
	fx := &fakeSkinnedEffect{}
	m := New("partial")
	m.Meshes = []*Mesh{
		{Name: "good", BoneIndex: NoBone, BoneInfluences: []uint32{0}, Parts: []*Part{newTestPart(3, false, fx)}},
		{Name: "bad", BoneIndex: NoBone, Parts: []*Part{newTestPart(3, false, fx)}},
	}

	ctx := &recordContext{}
	err := m.DrawSkinned(ctx, fakeStates{}, []math.Mat4{math.Identity()}, math.Identity(), math.Identity(), false, nil)
	if !errors.Is(err, ErrMissingSkinningData) {
		t.Fatalf("expected ErrMissingSkinningData, got %v", err)
	}

	// The first mesh's draw stays in the stream; nothing after the failure.
	if len(ctx.draws) != 1 {
		t.Errorf("expected exactly the pre-failure draw, got %d", len(ctx.draws))
	}
}

func TestUpdateEffectsDedup(t *testing.T) {
	shared := &fakeMatrixEffect{}
	solo := &fakeEffect{}

	m := New("dedup")
	m.Meshes = []*Mesh{
		{Name: "a", BoneIndex: NoBone, Parts: []*Part{
			newTestPart(3, false, shared),
			newTestPart(3, true, shared),
		}},
		{Name: "b", BoneIndex: NoBone, Parts: []*Part{
			newTestPart(3, false, shared),
			newTestPart(3, false, solo),
		}},
	}

	visits := make(map[render.Effect]int)
	m.UpdateEffects(func(e render.Effect) { visits[e]++ })

	if len(visits) != 2 {
		t.Fatalf("visited %d distinct effects, want 2", len(visits))
	}
	if visits[shared] != 1 || visits[solo] != 1 {
		t.Errorf("each effect must be visited exactly once: %v", visits)
	}
}

func TestUpdateEffectsCacheIsStaleByDesign(t *testing.T) {
	original := &fakeMatrixEffect{}
	replacement := &fakeMatrixEffect{}

	m := New("stale")
	m.Meshes = []*Mesh{{Name: "a", BoneIndex: NoBone, Parts: []*Part{newTestPart(3, false, original)}}}

	first := make(map[render.Effect]int)
	m.UpdateEffects(func(e render.Effect) { first[e]++ })

	// Rebind after the cache is built.
	if err := m.Meshes[0].Parts[0].ModifyEffect(&fakeDevice{}, replacement, false); err != nil {
		t.Fatalf("ModifyEffect: %v", err)
	}

	second := make(map[render.Effect]int)
	m.UpdateEffects(func(e render.Effect) { second[e]++ })

	if second[original] != 1 {
		t.Error("second call must still visit the originally cached effect")
	}
	if second[replacement] != 0 {
		t.Error("second call must not see the rebound effect")
	}
	if len(first) != 1 || len(second) != 1 {
		t.Errorf("both calls must visit the same single-instance set: %v vs %v", first, second)
	}
}

func TestUpdateEffectsSkipsNilBindings(t *testing.T) {
	m := New("nil-effect")
	part := newTestPart(3, false, nil)
	m.Meshes = []*Mesh{{Name: "a", BoneIndex: NoBone, Parts: []*Part{part}}}

	count := 0
	m.UpdateEffects(func(render.Effect) { count++ })
	if count != 0 {
		t.Errorf("nil bindings must not be visited, got %d visits", count)
	}
}
