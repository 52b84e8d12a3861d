package effect

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/tessera3d/tessera/internal/engine/render"
	"github.com/tessera3d/tessera/internal/engine/shader"
	"github.com/tessera3d/tessera/pkg/math"
)

// MaxBones is the size of the bone uniform array in the skinned vertex
// shader. Tables longer than this are truncated on upload.
const MaxBones = 72

// Skinning is a skinned effect: vertices are deformed by a weighted blend of
// bone transforms. It implements render.MatrixEffect and render.SkinnedEffect;
// the world transform is carried per bone, so SetWorld is accepted but only
// view and projection are uploaded.
type Skinning struct {
	program uint32

	locBones      int32
	locView       int32
	locProjection int32

	view       math.Mat4
	projection math.Mat4

	boneCount int
	boneData  [MaxBones * 16]float32
}

// NewSkinning compiles the skinned shading program.
// Must be called with a current OpenGL context.
func NewSkinning() (*Skinning, error) {
	program, err := shader.CompileProgram(skinnedVertexShader, litFragmentShader)
	if err != nil {
		return nil, err
	}

	s := &Skinning{
		program:       program,
		locBones:      shader.GetUniform(program, "uBones"),
		locView:       shader.GetUniform(program, "uView"),
		locProjection: shader.GetUniform(program, "uProjection"),
		view:          math.Identity(),
		projection:    math.Identity(),
	}
	s.SetBoneTransforms([]math.Mat4{math.Identity()})
	return s, nil
}

// Program returns the GL program object.
func (e *Skinning) Program() uint32 { return e.program }

// SetWorld is accepted for interface completeness; skinned vertices take
// their world transform from the bone table.
func (e *Skinning) SetWorld(math.Mat4) {}

// SetView sets the view matrix for the next Apply.
func (e *Skinning) SetView(m math.Mat4) { e.view = m }

// SetProjection sets the projection matrix for the next Apply.
func (e *Skinning) SetProjection(m math.Mat4) { e.projection = m }

// SetBoneTransforms stages the bone table for the next Apply. The table is
// copied; the caller's slice is not retained.
func (e *Skinning) SetBoneTransforms(transforms []math.Mat4) {
	n := len(transforms)
	if n > MaxBones {
		n = MaxBones
	}
	e.boneCount = n
	for i := 0; i < n; i++ {
		copy(e.boneData[i*16:(i+1)*16], transforms[i][:])
	}
}

// Apply binds the program and uploads view, projection, and the bone table.
func (e *Skinning) Apply(_ render.Context) {
	gl.UseProgram(e.program)
	gl.UniformMatrix4fv(e.locView, 1, false, e.view.Ptr())
	gl.UniformMatrix4fv(e.locProjection, 1, false, e.projection.Ptr())
	if e.boneCount > 0 {
		gl.UniformMatrix4fv(e.locBones, int32(e.boneCount), false, &e.boneData[0])
	}
}
