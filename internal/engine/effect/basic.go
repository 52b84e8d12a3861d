package effect

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/tessera3d/tessera/internal/engine/render"
	"github.com/tessera3d/tessera/internal/engine/shader"
	"github.com/tessera3d/tessera/pkg/math"
)

// Basic is a world/view/projection effect with per-vertex color and a fixed
// directional light. It implements render.MatrixEffect.
type Basic struct {
	program uint32

	locWorld      int32
	locView       int32
	locProjection int32

	world      math.Mat4
	view       math.Mat4
	projection math.Mat4
}

// NewBasic compiles the basic shading program.
// Must be called with a current OpenGL context.
func NewBasic() (*Basic, error) {
	program, err := shader.CompileProgram(basicVertexShader, litFragmentShader)
	if err != nil {
		return nil, err
	}

	return &Basic{
		program:       program,
		locWorld:      shader.GetUniform(program, "uWorld"),
		locView:       shader.GetUniform(program, "uView"),
		locProjection: shader.GetUniform(program, "uProjection"),
		world:         math.Identity(),
		view:          math.Identity(),
		projection:    math.Identity(),
	}, nil
}

// Program returns the GL program object.
func (e *Basic) Program() uint32 { return e.program }

// SetWorld sets the world matrix for the next Apply.
func (e *Basic) SetWorld(m math.Mat4) { e.world = m }

// SetView sets the view matrix for the next Apply.
func (e *Basic) SetView(m math.Mat4) { e.view = m }

// SetProjection sets the projection matrix for the next Apply.
func (e *Basic) SetProjection(m math.Mat4) { e.projection = m }

// Apply binds the program and uploads the current matrices. Commands go
// straight to the GL context, so the render.Context parameter is unused.
func (e *Basic) Apply(_ render.Context) {
	gl.UseProgram(e.program)
	gl.UniformMatrix4fv(e.locWorld, 1, false, e.world.Ptr())
	gl.UniformMatrix4fv(e.locView, 1, false, e.view.Ptr())
	gl.UniformMatrix4fv(e.locProjection, 1, false, e.projection.Ptr())
}
