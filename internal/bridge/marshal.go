package bridge

import (
	"encoding/binary"
	"fmt"
	"math"

	bmiv1 "github.com/csdms/bmi-bridge/api/bmi/v1"
	"github.com/csdms/bmi-bridge/internal/bmi"
	apperrors "github.com/csdms/bmi-bridge/internal/platform/errors"
)

// The wire byte order is fixed to big-endian regardless of host endianness.
// Element types are carried as explicit tags so bytes are never silently
// reinterpreted between hosts with differing native sizes.

// ToWire flattens a native payload into the canonical wire representation.
func ToWire(p bmi.Payload) (*bmiv1.WirePayload, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}

	data := make([]byte, p.Len()*int64(p.Type.ItemSize()))
	switch values := p.Values.(type) {
	case []int32:
		for i, v := range values {
			binary.BigEndian.PutUint32(data[i*4:], uint32(v))
		}
	case []int64:
		for i, v := range values {
			binary.BigEndian.PutUint64(data[i*8:], uint64(v))
		}
	case []float32:
		for i, v := range values {
			binary.BigEndian.PutUint32(data[i*4:], math.Float32bits(v))
		}
	case []float64:
		for i, v := range values {
			binary.BigEndian.PutUint64(data[i*8:], math.Float64bits(v))
		}
	}

	return &bmiv1.WirePayload{
		Type:  string(p.Type),
		Shape: append([]int64(nil), p.Shape...),
		Data:  data,
	}, nil
}

// FromWire decodes a wire payload, checking the element-type tag and element
// count against the declared variable descriptor before any value reaches
// the model.
func FromWire(wire *bmiv1.WirePayload, want bmi.VarDescriptor) (bmi.Payload, error) {
	if wire == nil {
		return bmi.Payload{}, apperrors.New(apperrors.CodeTypeMismatch, "payload is required")
	}

	tag := bmi.ElemType(wire.Type)
	if !tag.Valid() {
		return bmi.Payload{}, apperrors.WithMetadata(apperrors.CodeTypeMismatch,
			fmt.Sprintf("unsupported element type %q", wire.Type),
			map[string]string{"variable": want.Name})
	}
	if tag != want.Type {
		return bmi.Payload{}, apperrors.WithMetadata(apperrors.CodeTypeMismatch,
			fmt.Sprintf("variable %s expects element type %s, got %s", want.Name, want.Type, tag),
			map[string]string{"variable": want.Name})
	}

	if len(wire.Shape) == 0 {
		return bmi.Payload{}, apperrors.New(apperrors.CodeShapeMismatch, "payload shape is required")
	}
	count := int64(1)
	for _, dim := range wire.Shape {
		if dim <= 0 {
			return bmi.Payload{}, apperrors.New(apperrors.CodeShapeMismatch,
				fmt.Sprintf("invalid shape dimension %d", dim))
		}
		count *= dim
	}
	if count != want.ItemCount {
		return bmi.Payload{}, apperrors.WithMetadata(apperrors.CodeShapeMismatch,
			fmt.Sprintf("variable %s expects %d elements, got %d", want.Name, want.ItemCount, count),
			map[string]string{"variable": want.Name})
	}
	if int64(len(wire.Data)) != count*int64(tag.ItemSize()) {
		return bmi.Payload{}, apperrors.New(apperrors.CodeShapeMismatch,
			fmt.Sprintf("buffer holds %d bytes, shape implies %d", len(wire.Data), count*int64(tag.ItemSize())))
	}

	payload := bmi.Payload{Type: tag, Shape: append([]int64(nil), wire.Shape...)}
	switch tag {
	case bmi.TypeInt32:
		values := make([]int32, count)
		for i := range values {
			values[i] = int32(binary.BigEndian.Uint32(wire.Data[i*4:]))
		}
		payload.Values = values
	case bmi.TypeInt64:
		values := make([]int64, count)
		for i := range values {
			values[i] = int64(binary.BigEndian.Uint64(wire.Data[i*8:]))
		}
		payload.Values = values
	case bmi.TypeFloat32:
		values := make([]float32, count)
		for i := range values {
			values[i] = math.Float32frombits(binary.BigEndian.Uint32(wire.Data[i*4:]))
		}
		payload.Values = values
	case bmi.TypeFloat64:
		values := make([]float64, count)
		for i := range values {
			values[i] = math.Float64frombits(binary.BigEndian.Uint64(wire.Data[i*8:]))
		}
		payload.Values = values
	}
	return payload, nil
}
