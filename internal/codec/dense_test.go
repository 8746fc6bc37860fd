package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"go.trai.ch/memo/internal/codec"
	"go.trai.ch/memo/internal/core/domain"
)

func TestFromDense(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})

	arr := codec.FromDense(m)
	assert.Equal(t, domain.Float64, arr.DType)
	assert.Equal(t, []int{2, 3}, arr.Shape)

	values, err := arr.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, values)
}

func TestFromDenseCompactsStridedView(t *testing.T) {
	m := mat.NewDense(3, 4, []float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	})

	// A column slice keeps the parent's stride, so its backing data is not
	// contiguous.
	view := m.Slice(0, 3, 1, 3).(*mat.Dense)
	require.NotEqual(t, view.RawMatrix().Cols, view.RawMatrix().Stride)

	arr := codec.FromDense(view)
	assert.Equal(t, []int{3, 2}, arr.Shape)

	values, err := arr.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 6, 7, 10, 11}, values)
}

func TestFromVecDense(t *testing.T) {
	v := mat.NewVecDense(3, []float64{1, 2, 3})

	arr := codec.FromVecDense(v)
	assert.Equal(t, []int{3}, arr.Shape)

	values, err := arr.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, values)
}

func TestFromVecDenseCompactsStridedView(t *testing.T) {
	m := mat.NewDense(3, 3, []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	})

	// A column vector of a matrix strides across rows.
	col := m.ColView(1).(*mat.VecDense)
	require.NotEqual(t, 1, col.RawVector().Inc)

	arr := codec.FromVecDense(col)
	values, err := arr.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 5, 8}, values)
}

func TestToDense(t *testing.T) {
	t.Run("two dimensions", func(t *testing.T) {
		arr, err := domain.FromFloat64s([]float64{1, 2, 3, 4}).Reshape(2, 2)
		require.NoError(t, err)

		m, err := codec.ToDense(arr)
		require.NoError(t, err)

		r, c := m.Dims()
		assert.Equal(t, 2, r)
		assert.Equal(t, 2, c)
		assert.Equal(t, 4.0, m.At(1, 1))
	})

	t.Run("vector becomes single column", func(t *testing.T) {
		arr := domain.FromFloat64s([]float64{1, 2, 3})

		m, err := codec.ToDense(arr)
		require.NoError(t, err)

		r, c := m.Dims()
		assert.Equal(t, 3, r)
		assert.Equal(t, 1, c)
	})

	t.Run("rejects higher dimensions", func(t *testing.T) {
		arr, err := domain.FromFloat64s([]float64{1, 2, 3, 4, 5, 6, 7, 8}).Reshape(2, 2, 2)
		require.NoError(t, err)

		_, err = codec.ToDense(arr)
		assert.Error(t, err)
	})

	t.Run("rejects non-float64 dtype", func(t *testing.T) {
		_, err := codec.ToDense(domain.FromInt64s([]int64{1}))
		assert.Error(t, err)
	})
}

func TestToVecDense(t *testing.T) {
	arr := domain.FromFloat64s([]float64{1, 2, 3})

	v, err := codec.ToVecDense(arr)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, 2.0, v.AtVec(1))

	matrix, err := arr.Reshape(3, 1)
	require.NoError(t, err)
	_, err = codec.ToVecDense(matrix)
	assert.Error(t, err)
}

func TestDenseRoundTripThroughCodec(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	tree, err := codec.Encode(m)
	require.NoError(t, err)

	out, err := codec.Decode(tree)
	require.NoError(t, err)

	decoded, ok := out.(*domain.Array)
	require.True(t, ok)

	back, err := codec.ToDense(decoded)
	require.NoError(t, err)
	assert.True(t, mat.Equal(m, back))
}
