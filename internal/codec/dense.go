package codec

import (
	"encoding/binary"
	"math"

	"go.trai.ch/zerr"
	"gonum.org/v1/gonum/mat"

	"go.trai.ch/memo/internal/core/domain"
)

// FromDense converts a gonum matrix into a float64 array. Views with a
// stride wider than their column count are materialized into a contiguous
// copy; the raw backing slice is never encoded as-is.
func FromDense(m *mat.Dense) *domain.Array {
	raw := m.RawMatrix()
	data := make([]byte, raw.Rows*raw.Cols*8)
	i := 0
	for r := range raw.Rows {
		row := raw.Data[r*raw.Stride : r*raw.Stride+raw.Cols]
		for _, v := range row {
			binary.LittleEndian.PutUint64(data[i*8:], math.Float64bits(v))
			i++
		}
	}
	return &domain.Array{DType: domain.Float64, Shape: []int{raw.Rows, raw.Cols}, Data: data}
}

// FromVecDense converts a gonum vector into a one-dimensional float64 array,
// compacting strided views.
func FromVecDense(v *mat.VecDense) *domain.Array {
	raw := v.RawVector()
	data := make([]byte, raw.N*8)
	for i := range raw.N {
		binary.LittleEndian.PutUint64(data[i*8:], math.Float64bits(raw.Data[i*raw.Inc]))
	}
	return &domain.Array{DType: domain.Float64, Shape: []int{raw.N}, Data: data}
}

// ToDense converts a float64 array of one or two dimensions back into a
// gonum matrix. Vectors become single-column matrices. Empty arrays are
// rejected because gonum matrices cannot be zero-sized.
func ToDense(a *domain.Array) (*mat.Dense, error) {
	values, err := a.Float64s()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, zerr.With(domain.ErrMalformedArray, "reason", "empty array")
	}
	switch len(a.Shape) {
	case 1:
		return mat.NewDense(a.Shape[0], 1, values), nil
	case 2:
		return mat.NewDense(a.Shape[0], a.Shape[1], values), nil
	default:
		return nil, zerr.With(domain.ErrMalformedArray, "dimensions", len(a.Shape))
	}
}

// ToVecDense converts a one-dimensional float64 array back into a gonum
// vector.
func ToVecDense(a *domain.Array) (*mat.VecDense, error) {
	if len(a.Shape) != 1 {
		return nil, zerr.With(domain.ErrMalformedArray, "dimensions", len(a.Shape))
	}
	values, err := a.Float64s()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, zerr.With(domain.ErrMalformedArray, "reason", "empty array")
	}
	return mat.NewVecDense(len(values), values), nil
}
