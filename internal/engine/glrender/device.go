// Package glrender implements the render package's Context, Device, and
// StateProvider interfaces over OpenGL 4.1 core, the profile ceiling on
// macOS. One Context wraps one GL context and must only be used from the
// thread that owns it.
package glrender

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"github.com/tessera3d/tessera/internal/engine/render"
)

// Device creates GL buffers and input layouts.
type Device struct{}

// NewDevice returns a device for the current GL context.
func NewDevice() *Device {
	return &Device{}
}

type buffer struct {
	id uint32
}

type attrib struct {
	location   uint32
	components int32
	xtype      uint32
	normalized bool
	offset     int
}

type inputLayout struct {
	attribs []attrib
}

// programmed is implemented by GL effects that can expose their program for
// attribute location lookup.
type programmed interface {
	Program() uint32
}

// CreateVertexBuffer uploads vertex data into a new GL buffer.
func (d *Device) CreateVertexBuffer(data []byte) (render.Buffer, error) {
	if len(data) == 0 {
		return nil, errors.New("empty vertex data")
	}
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	gl.BufferData(gl.ARRAY_BUFFER, len(data), gl.Ptr(data), gl.STATIC_DRAW)
	return &buffer{id: id}, nil
}

// CreateIndexBuffer uploads index data into a new GL buffer.
func (d *Device) CreateIndexBuffer(data []byte) (render.Buffer, error) {
	if len(data) == 0 {
		return nil, errors.New("empty index data")
	}
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, id)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data), gl.Ptr(data), gl.STATIC_DRAW)
	return &buffer{id: id}, nil
}

// CreateInputLayout resolves each element's attribute location against the
// effect's program when the effect exposes one, falling back to the declared
// location otherwise.
func (d *Device) CreateInputLayout(layout []render.InputElement, e render.Effect) (render.InputLayout, error) {
	if len(layout) == 0 {
		return nil, errors.New("empty vertex layout")
	}

	var program uint32
	hasProgram := false
	if p, ok := e.(programmed); ok {
		program = p.Program()
		hasProgram = program != 0
	}

	out := &inputLayout{attribs: make([]attrib, 0, len(layout))}
	for _, el := range layout {
		location := int32(el.Location)
		if hasProgram && el.Name != "" {
			if loc := gl.GetAttribLocation(program, gl.Str(el.Name+"\x00")); loc >= 0 {
				location = loc
			}
		}

		xtype, normalized := glAttribType(el.Format)
		out.attribs = append(out.attribs, attrib{
			location:   uint32(location),
			components: int32(el.Format.Components()),
			xtype:      xtype,
			normalized: normalized,
			offset:     el.Offset,
		})
	}
	return out, nil
}

func glAttribType(f render.AttribFormat) (xtype uint32, normalized bool) {
	switch f {
	case render.UByte4:
		return gl.UNSIGNED_BYTE, false
	case render.UByte4Norm:
		return gl.UNSIGNED_BYTE, true
	default:
		return gl.FLOAT, false
	}
}
