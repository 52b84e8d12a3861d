package viewer

import (
	"encoding/binary"
	gomath "math"

	"github.com/chewxy/math32"

	"github.com/tessera3d/tessera/internal/engine/glrender"
	"github.com/tessera3d/tessera/internal/engine/model"
	"github.com/tessera3d/tessera/internal/engine/render"
	"github.com/tessera3d/tessera/pkg/math"
)

// Vertex formats for the two demo models. Offsets are bytes within one vertex.
var basicLayout = []render.InputElement{
	{Name: "aPosition", Location: 0, Format: render.Float3, Offset: 0},
	{Name: "aNormal", Location: 1, Format: render.Float3, Offset: 12},
	{Name: "aColor", Location: 2, Format: render.Float4, Offset: 24},
}

var skinnedLayout = []render.InputElement{
	{Name: "aPosition", Location: 0, Format: render.Float3, Offset: 0},
	{Name: "aNormal", Location: 1, Format: render.Float3, Offset: 12},
	{Name: "aColor", Location: 2, Format: render.Float4, Offset: 24},
	{Name: "aBoneIndices", Location: 3, Format: render.UByte4, Offset: 40},
	{Name: "aBoneWeights", Location: 4, Format: render.UByte4Norm, Offset: 44},
}

const (
	basicStride   = 40
	skinnedStride = 48
)

// buildCubeModel builds a spinning demo cube: an opaque core and a larger
// translucent shell sharing one vertex and one index buffer. The shell reuses
// the core's index range through its part's vertex offset.
func buildCubeModel(dev *glrender.Device, fx render.Effect) (*model.Model, error) {
	var verts []byte
	verts = appendBoxVerts(verts, 1.0, [4]float32{0.85, 0.55, 0.2, 1.0}, nil)
	verts = appendBoxVerts(verts, 1.3, [4]float32{0.4, 0.7, 0.95, 0.35}, nil)

	indices := boxIndices(0)

	vbuf, err := dev.CreateVertexBuffer(verts)
	if err != nil {
		return nil, err
	}
	ibuf, err := dev.CreateIndexBuffer(u16Bytes(indices))
	if err != nil {
		return nil, err
	}

	core, err := newScenePart(dev, fx, model.Part{
		IndexCount:   len(indices),
		VertexStride: basicStride,
		Layout:       basicLayout,
		VertexBuffer: vbuf,
		IndexBuffer:  ibuf,
	})
	if err != nil {
		return nil, err
	}

	shell, err := newScenePart(dev, fx, model.Part{
		IndexCount:   len(indices),
		VertexOffset: 24,
		VertexStride: basicStride,
		Layout:       basicLayout,
		IsAlpha:      true,
		VertexBuffer: vbuf,
		IndexBuffer:  ibuf,
	})
	if err != nil {
		return nil, err
	}

	m := model.New("demo-cube")
	m.Meshes = append(m.Meshes, &model.Mesh{
		Name:      "cube",
		BoneIndex: model.NoBone,
		Parts:     []*model.Part{core, shell},
	})
	return m, nil
}

// buildArmModel builds a three-segment arm where each segment is rigidly
// weighted to one bone of a root-elbow-wrist chain.
func buildArmModel(dev *glrender.Device, fx render.Effect) (*model.Model, error) {
	var verts []byte
	var indices []uint16
	colors := [3][4]float32{
		{0.8, 0.3, 0.3, 1.0},
		{0.3, 0.8, 0.3, 1.0},
		{0.3, 0.4, 0.9, 1.0},
	}
	for bone := 0; bone < 3; bone++ {
		verts = appendSegmentVerts(verts, colors[bone], uint8(bone))
		indices = append(indices, boxIndices(uint16(bone*24))...)
	}

	vbuf, err := dev.CreateVertexBuffer(verts)
	if err != nil {
		return nil, err
	}
	ibuf, err := dev.CreateIndexBuffer(u16Bytes(indices))
	if err != nil {
		return nil, err
	}

	part, err := newScenePart(dev, fx, model.Part{
		IndexCount:   len(indices),
		VertexStride: skinnedStride,
		Layout:       skinnedLayout,
		VertexBuffer: vbuf,
		IndexBuffer:  ibuf,
	})
	if err != nil {
		return nil, err
	}

	m := model.New("demo-arm")
	m.Meshes = append(m.Meshes, &model.Mesh{
		Name:           "arm",
		BoneIndex:      0,
		BoneInfluences: []uint32{0, 1, 2},
		Parts:          []*model.Part{part},
	})

	bones := []model.Bone{
		{Name: "root", Parent: model.NoBone, Child: 1, Sibling: model.NoBone},
		{Name: "elbow", Parent: 0, Child: 2, Sibling: model.NoBone},
		{Name: "wrist", Parent: 1, Child: model.NoBone, Sibling: model.NoBone},
	}
	if err := m.SetBones(bones, armPose(0)); err != nil {
		return nil, err
	}
	return m, nil
}

// armPose returns the arm's local pose at time t: each joint bends between
// straight and a key rotation, slerped by a sine of t.
func armPose(t float32) []math.Mat4 {
	blend := (math32.Sin(t*1.3) + 1) / 2
	axis := math.Vec3{X: 0, Y: 0, Z: 1}

	straight := math.QuatIdentity()
	bent := math.QuatFromAxisAngle(axis, 0.9)
	joint := straight.Slerp(bent, blend).ToMat4()

	return []math.Mat4{
		math.Translate(1.6, 0, 0),
		math.Translate(0, 1, 0).Mul(joint),
		math.Translate(0, 1, 0).Mul(joint),
	}
}

// newScenePart validates the part and binds its input layout and effect.
func newScenePart(dev *glrender.Device, fx render.Effect, p model.Part) (*model.Part, error) {
	part, err := model.NewPart(p)
	if err != nil {
		return nil, err
	}
	layout, err := part.CreateInputLayout(dev, fx)
	if err != nil {
		return nil, err
	}
	part.Effect = fx
	part.InputLayout = layout
	return part, nil
}

// Unit cube face data: 6 faces, 4 corners each, outward normals.
var boxFaces = [6]struct {
	normal  [3]float32
	corners [4][3]float32
}{
	{[3]float32{0, 0, 1}, [4][3]float32{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
	{[3]float32{0, 0, -1}, [4][3]float32{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}},
	{[3]float32{1, 0, 0}, [4][3]float32{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}}},
	{[3]float32{-1, 0, 0}, [4][3]float32{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}},
	{[3]float32{0, 1, 0}, [4][3]float32{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}}},
	{[3]float32{0, -1, 0}, [4][3]float32{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}},
}

// appendBoxVerts appends 24 basic-format vertices for a cube of the given
// half-extent. When skin is non-nil it also appends the bone bytes, producing
// skinned-format vertices instead.
func appendBoxVerts(dst []byte, halfExtent float32, color [4]float32, skin []byte) []byte {
	for _, face := range boxFaces {
		for _, c := range face.corners {
			dst = appendF32(dst,
				c[0]*halfExtent, c[1]*halfExtent, c[2]*halfExtent,
				face.normal[0], face.normal[1], face.normal[2],
				color[0], color[1], color[2], color[3])
			dst = append(dst, skin...)
		}
	}
	return dst
}

// appendSegmentVerts appends 24 skinned-format vertices for one arm segment:
// a slender box spanning y in [0, 1] in its bone's local space, rigidly
// weighted to that bone.
func appendSegmentVerts(dst []byte, color [4]float32, bone uint8) []byte {
	skin := []byte{bone, 0, 0, 0, 255, 0, 0, 0}
	for _, face := range boxFaces {
		for _, c := range face.corners {
			dst = appendF32(dst,
				c[0]*0.15, (c[1]+1)*0.5, c[2]*0.15,
				face.normal[0], face.normal[1], face.normal[2],
				color[0], color[1], color[2], color[3])
			dst = append(dst, skin...)
		}
	}
	return dst
}

// boxIndices returns 36 indices for 24 box vertices starting at base, two
// counter-clockwise triangles per face.
func boxIndices(base uint16) []uint16 {
	out := make([]uint16, 0, 36)
	for face := uint16(0); face < 6; face++ {
		v := base + face*4
		out = append(out, v, v+1, v+2, v, v+2, v+3)
	}
	return out
}

func appendF32(dst []byte, vs ...float32) []byte {
	for _, v := range vs {
		dst = binary.LittleEndian.AppendUint32(dst, gomath.Float32bits(v))
	}
	return dst
}

func u16Bytes(indices []uint16) []byte {
	out := make([]byte, 0, len(indices)*2)
	for _, i := range indices {
		out = binary.LittleEndian.AppendUint16(out, i)
	}
	return out
}
