package bmi

import (
	"fmt"
)

// ElemType tags the element type of a typed-array payload. The tag is always
// explicit on the wire; element types are never inferred from buffer length.
type ElemType string

// Supported element types.
const (
	TypeInt32   ElemType = "int32"
	TypeInt64   ElemType = "int64"
	TypeFloat32 ElemType = "float32"
	TypeFloat64 ElemType = "float64"
)

// ItemSize returns the byte width of one element, or 0 for an unknown tag.
func (t ElemType) ItemSize() int {
	switch t {
	case TypeInt32, TypeFloat32:
		return 4
	case TypeInt64, TypeFloat64:
		return 8
	default:
		return 0
	}
}

// Valid reports whether the tag names a supported element type.
func (t ElemType) Valid() bool { return t.ItemSize() != 0 }

// Payload is a typed array exchanged with a model: a shape plus a flat buffer
// of homogeneous values. Shape is always present; scalars carry shape [1].
// Values holds one of []int32, []int64, []float32 or []float64 matching Type.
type Payload struct {
	Type   ElemType
	Shape  []int64
	Values any
}

// NewPayload builds a payload and checks that the value slice matches the
// declared type tag and shape.
func NewPayload(t ElemType, shape []int64, values any) (Payload, error) {
	p := Payload{Type: t, Shape: shape, Values: values}
	if err := p.Validate(); err != nil {
		return Payload{}, err
	}
	return p, nil
}

// Scalar wraps a single float64 value as a shape-[1] payload.
func Scalar(v float64) Payload {
	return Payload{Type: TypeFloat64, Shape: []int64{1}, Values: []float64{v}}
}

// Len returns the element count implied by the shape.
func (p Payload) Len() int64 {
	if len(p.Shape) == 0 {
		return 0
	}
	n := int64(1)
	for _, dim := range p.Shape {
		n *= dim
	}
	return n
}

// Validate checks the tag, the shape and the value slice agree.
func (p Payload) Validate() error {
	if !p.Type.Valid() {
		return fmt.Errorf("unsupported element type %q", p.Type)
	}
	if len(p.Shape) == 0 {
		return fmt.Errorf("payload shape is required")
	}
	for _, dim := range p.Shape {
		if dim <= 0 {
			return fmt.Errorf("invalid shape dimension %d", dim)
		}
	}
	want := p.Len()
	var got int64
	switch values := p.Values.(type) {
	case []int32:
		if p.Type != TypeInt32 {
			return fmt.Errorf("values are []int32 but tag is %q", p.Type)
		}
		got = int64(len(values))
	case []int64:
		if p.Type != TypeInt64 {
			return fmt.Errorf("values are []int64 but tag is %q", p.Type)
		}
		got = int64(len(values))
	case []float32:
		if p.Type != TypeFloat32 {
			return fmt.Errorf("values are []float32 but tag is %q", p.Type)
		}
		got = int64(len(values))
	case []float64:
		if p.Type != TypeFloat64 {
			return fmt.Errorf("values are []float64 but tag is %q", p.Type)
		}
		got = int64(len(values))
	default:
		return fmt.Errorf("unsupported value slice %T", p.Values)
	}
	if got != want {
		return fmt.Errorf("shape implies %d elements, got %d", want, got)
	}
	return nil
}

// Clone returns a deep copy so callers cannot alias model-owned buffers.
func (p Payload) Clone() Payload {
	out := Payload{Type: p.Type, Shape: append([]int64(nil), p.Shape...)}
	switch values := p.Values.(type) {
	case []int32:
		out.Values = append([]int32(nil), values...)
	case []int64:
		out.Values = append([]int64(nil), values...)
	case []float32:
		out.Values = append([]float32(nil), values...)
	case []float64:
		out.Values = append([]float64(nil), values...)
	default:
		out.Values = p.Values
	}
	return out
}

// Float64s returns the values as a float64 slice when the tag matches.
func (p Payload) Float64s() ([]float64, bool) {
	values, ok := p.Values.([]float64)
	return values, ok
}
