package domain

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"go.trai.ch/zerr"
)

// DType identifies the element type of an Array. The names double as the
// dtype vocabulary of the durable store format, so documents written by other
// renditions of the format decode cleanly.
type DType string

const (
	Float64 DType = "float64"
	Float32 DType = "float32"
	Int64   DType = "int64"
	Int32   DType = "int32"
	Int16   DType = "int16"
	Int8    DType = "int8"
	Uint64  DType = "uint64"
	Uint32  DType = "uint32"
	Uint16  DType = "uint16"
	Uint8   DType = "uint8"
	Bool    DType = "bool"
)

// Size returns the number of bytes one element occupies, or 0 for an unknown
// dtype.
func (d DType) Size() int {
	switch d {
	case Float64, Int64, Uint64:
		return 8
	case Float32, Int32, Uint32:
		return 4
	case Int16, Uint16:
		return 2
	case Int8, Uint8, Bool:
		return 1
	default:
		return 0
	}
}

// Array is a dense numeric array: element type, shape and row-major
// little-endian payload. It is the value commands return when they produce
// multi-dimensional numeric results that must survive a round-trip through
// the result store.
type Array struct {
	DType DType
	Shape []int
	Data  []byte
}

// NewArray validates that the payload length matches dtype and shape.
func NewArray(dtype DType, shape []int, data []byte) (*Array, error) {
	size := dtype.Size()
	if size == 0 {
		return nil, zerr.With(ErrUnsupportedType, "dtype", string(dtype))
	}
	n := 1
	for _, dim := range shape {
		if dim < 0 {
			return nil, zerr.With(ErrMalformedArray, "shape", fmt.Sprint(shape))
		}
		n *= dim
	}
	if len(data) != n*size {
		return nil, zerr.With(zerr.With(ErrMalformedArray, "expected_bytes", n*size), "actual_bytes", len(data))
	}
	return &Array{DType: dtype, Shape: slices.Clone(shape), Data: data}, nil
}

// Len returns the number of elements, the product of the shape.
func (a *Array) Len() int {
	n := 1
	for _, dim := range a.Shape {
		n *= dim
	}
	return n
}

// At returns the i-th element in row-major order as its native Go value, or
// nil when the dtype is unknown.
func (a *Array) At(i int) any {
	switch a.DType {
	case Float64:
		return math.Float64frombits(binary.LittleEndian.Uint64(a.Data[i*8:]))
	case Float32:
		return math.Float32frombits(binary.LittleEndian.Uint32(a.Data[i*4:]))
	case Int64:
		return int64(binary.LittleEndian.Uint64(a.Data[i*8:]))
	case Int32:
		return int32(binary.LittleEndian.Uint32(a.Data[i*4:]))
	case Int16:
		return int16(binary.LittleEndian.Uint16(a.Data[i*2:]))
	case Int8:
		return int8(a.Data[i])
	case Uint64:
		return binary.LittleEndian.Uint64(a.Data[i*8:])
	case Uint32:
		return binary.LittleEndian.Uint32(a.Data[i*4:])
	case Uint16:
		return binary.LittleEndian.Uint16(a.Data[i*2:])
	case Uint8:
		return a.Data[i]
	case Bool:
		return a.Data[i] != 0
	default:
		return nil
	}
}

// Equal reports whether two arrays agree in dtype, shape and payload.
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.DType == b.DType && slices.Equal(a.Shape, b.Shape) && bytes.Equal(a.Data, b.Data)
}

// FromFloat64s packs a float64 slice into a one-dimensional array.
func FromFloat64s(values []float64) *Array {
	data := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(data[i*8:], math.Float64bits(v))
	}
	return &Array{DType: Float64, Shape: []int{len(values)}, Data: data}
}

// FromFloat32s packs a float32 slice into a one-dimensional array.
func FromFloat32s(values []float32) *Array {
	data := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	return &Array{DType: Float32, Shape: []int{len(values)}, Data: data}
}

// FromInt64s packs an int64 slice into a one-dimensional array.
func FromInt64s(values []int64) *Array {
	data := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(data[i*8:], uint64(v))
	}
	return &Array{DType: Int64, Shape: []int{len(values)}, Data: data}
}

// FromInt32s packs an int32 slice into a one-dimensional array.
func FromInt32s(values []int32) *Array {
	data := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[i*4:], uint32(v))
	}
	return &Array{DType: Int32, Shape: []int{len(values)}, Data: data}
}

// FromBools packs a bool slice into a one-dimensional array.
func FromBools(values []bool) *Array {
	data := make([]byte, len(values))
	for i, v := range values {
		if v {
			data[i] = 1
		}
	}
	return &Array{DType: Bool, Shape: []int{len(values)}, Data: data}
}

// Reshape returns the same payload under a new shape. The element count must
// not change.
func (a *Array) Reshape(shape ...int) (*Array, error) {
	n := 1
	for _, dim := range shape {
		if dim < 0 {
			return nil, zerr.With(ErrMalformedArray, "shape", fmt.Sprint(shape))
		}
		n *= dim
	}
	if n != a.Len() {
		return nil, zerr.With(zerr.With(ErrMalformedArray, "elements", a.Len()), "shape", fmt.Sprint(shape))
	}
	return &Array{DType: a.DType, Shape: slices.Clone(shape), Data: a.Data}, nil
}

// Float64s unpacks the payload as float64 values. The dtype must be float64.
func (a *Array) Float64s() ([]float64, error) {
	if a.DType != Float64 {
		return nil, zerr.With(ErrUnsupportedType, "dtype", string(a.DType))
	}
	out := make([]float64, a.Len())
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(a.Data[i*8:]))
	}
	return out, nil
}

// Float32s unpacks the payload as float32 values. The dtype must be float32.
func (a *Array) Float32s() ([]float32, error) {
	if a.DType != Float32 {
		return nil, zerr.With(ErrUnsupportedType, "dtype", string(a.DType))
	}
	out := make([]float32, a.Len())
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(a.Data[i*4:]))
	}
	return out, nil
}

// Int64s unpacks the payload as int64 values. The dtype must be int64.
func (a *Array) Int64s() ([]int64, error) {
	if a.DType != Int64 {
		return nil, zerr.With(ErrUnsupportedType, "dtype", string(a.DType))
	}
	out := make([]int64, a.Len())
	for i := range out {
		out[i] = int64(binary.LittleEndian.Uint64(a.Data[i*8:]))
	}
	return out, nil
}

// Int32s unpacks the payload as int32 values. The dtype must be int32.
func (a *Array) Int32s() ([]int32, error) {
	if a.DType != Int32 {
		return nil, zerr.With(ErrUnsupportedType, "dtype", string(a.DType))
	}
	out := make([]int32, a.Len())
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(a.Data[i*4:]))
	}
	return out, nil
}

// Bools unpacks the payload as bool values. The dtype must be bool.
func (a *Array) Bools() ([]bool, error) {
	if a.DType != Bool {
		return nil, zerr.With(ErrUnsupportedType, "dtype", string(a.DType))
	}
	out := make([]bool, a.Len())
	for i := range out {
		out[i] = a.Data[i] != 0
	}
	return out, nil
}
