package render

// Topology selects how indexed vertices assemble into primitives.
type Topology int

const (
	TriangleList Topology = iota
	TriangleStrip
	LineList
	LineStrip
	PointList
)

// IndexFormat is the element width of an index buffer.
type IndexFormat int

const (
	Index16 IndexFormat = iota
	Index32
)

// Size returns the index element width in bytes.
func (f IndexFormat) Size() int {
	if f == Index32 {
		return 4
	}
	return 2
}

// AttribFormat is the component layout of a single vertex attribute.
type AttribFormat int

const (
	Float AttribFormat = iota
	Float2
	Float3
	Float4
	UByte4
	UByte4Norm
)

// Components returns the number of components in the attribute.
func (f AttribFormat) Components() int {
	switch f {
	case Float:
		return 1
	case Float2:
		return 2
	case Float3:
		return 3
	default:
		return 4
	}
}

// Size returns the attribute size in bytes.
func (f AttribFormat) Size() int {
	switch f {
	case UByte4, UByte4Norm:
		return 4
	default:
		return 4 * f.Components()
	}
}

// MaxInputElements is the maximum number of vertex attributes a layout may
// declare, matching the guaranteed GL_MAX_VERTEX_ATTRIBS minimum.
const MaxInputElements = 16

// InputElement declares one vertex attribute within a layout descriptor.
type InputElement struct {
	// Name is the shader attribute name, used by backends that resolve
	// locations from the effect's input signature.
	Name string
	// Location is the attribute slot used when the backend cannot resolve
	// Name against the effect.
	Location int
	Format   AttribFormat
	// Offset is the byte offset of the attribute within a vertex.
	Offset int
}
