// Package codec converts command results between their in-memory form and
// the durable tree form stored in result files. Numeric arrays travel as a
// mapping with a marker field, element type name, shape and a base64 payload
// of the row-major bytes, so stored documents stay portable across
// renditions of the format.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"reflect"

	"go.trai.ch/zerr"
	"gonum.org/v1/gonum/mat"

	"go.trai.ch/memo/internal/core/domain"
)

// Field names of the durable array form.
const (
	fieldPayload = "__ndarray__"
	fieldDType   = "dtype"
	fieldShape   = "shape"
)

// Encode converts a command result into its durable store form: a tree of
// JSON-compatible values in which arrays appear in their marker form. Values
// that cannot be represented losslessly are rejected with
// domain.ErrUnsupportedType.
func Encode(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32:
		return t, nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, zerr.With(domain.ErrUnsupportedType, "value", fmt.Sprint(t))
		}
		return t, nil
	case *domain.Array:
		if t == nil {
			return nil, nil
		}
		return encodeArray(t)
	case domain.Array:
		return encodeArray(&t)
	case *mat.Dense:
		if t == nil {
			return nil, nil
		}
		return encodeArray(FromDense(t))
	case *mat.VecDense:
		if t == nil {
			return nil, nil
		}
		return encodeArray(FromVecDense(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			enc, err := Encode(val)
			if err != nil {
				return nil, zerr.With(err, "key", k)
			}
			out[k] = enc
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			enc, err := Encode(val)
			if err != nil {
				return nil, zerr.With(err, "index", i)
			}
			out[i] = enc
		}
		return out, nil
	case []byte:
		// Raw bytes have no lossless JSON form; callers pack them into a
		// uint8 array instead.
		return nil, zerr.With(domain.ErrUnsupportedType, "type", "[]byte")
	default:
		return encodeReflect(v)
	}
}

// encodeReflect covers the remaining slice and string-keyed map types so
// commands can return e.g. []float64 or map[string]float64 without wrapping.
func encodeReflect(v any) (any, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range rv.Len() {
			enc, err := Encode(rv.Index(i).Interface())
			if err != nil {
				return nil, zerr.With(err, "index", i)
			}
			out[i] = enc
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, zerr.With(domain.ErrUnsupportedType, "type", fmt.Sprintf("%T", v))
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			enc, err := Encode(iter.Value().Interface())
			if err != nil {
				return nil, zerr.With(err, "key", iter.Key().String())
			}
			out[iter.Key().String()] = enc
		}
		return out, nil
	default:
		return nil, zerr.With(domain.ErrUnsupportedType, "type", fmt.Sprintf("%T", v))
	}
}

func encodeArray(a *domain.Array) (map[string]any, error) {
	size := a.DType.Size()
	if size == 0 {
		return nil, zerr.With(domain.ErrUnsupportedType, "dtype", string(a.DType))
	}
	if len(a.Data) != a.Len()*size {
		return nil, zerr.With(zerr.With(domain.ErrMalformedArray, "expected_bytes", a.Len()*size), "actual_bytes", len(a.Data))
	}
	return map[string]any{
		fieldPayload: base64.StdEncoding.EncodeToString(a.Data),
		fieldDType:   string(a.DType),
		fieldShape:   a.Shape,
	}, nil
}

// Decode reverses Encode on a tree read back from a result file. Mappings
// carrying the array marker field become *domain.Array values; everything
// else is returned as parsed.
func Decode(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		if _, ok := t[fieldPayload]; ok {
			return decodeArray(t)
		}
		out := make(map[string]any, len(t))
		for k, val := range t {
			dec, err := Decode(val)
			if err != nil {
				return nil, zerr.With(err, "key", k)
			}
			out[k] = dec
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			dec, err := Decode(val)
			if err != nil {
				return nil, zerr.With(err, "index", i)
			}
			out[i] = dec
		}
		return out, nil
	default:
		return v, nil
	}
}

func decodeArray(t map[string]any) (*domain.Array, error) {
	b64, ok := t[fieldPayload].(string)
	if !ok {
		return nil, zerr.With(domain.ErrMalformedArray, "field", fieldPayload)
	}
	dtype, ok := t[fieldDType].(string)
	if !ok {
		return nil, zerr.With(domain.ErrMalformedArray, "field", fieldDType)
	}
	shape, err := decodeShape(t[fieldShape])
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrMalformedArray, err), "field", fieldPayload)
	}
	return domain.NewArray(domain.DType(dtype), shape, data)
}

func decodeShape(v any) ([]int, error) {
	dims, ok := v.([]any)
	if !ok {
		return nil, zerr.With(domain.ErrMalformedArray, "field", fieldShape)
	}
	shape := make([]int, len(dims))
	for i, dim := range dims {
		switch n := dim.(type) {
		case float64:
			if n != math.Trunc(n) || n < 0 {
				return nil, zerr.With(domain.ErrMalformedArray, "dimension", fmt.Sprint(n))
			}
			shape[i] = int(n)
		case int:
			shape[i] = n
		default:
			return nil, zerr.With(domain.ErrMalformedArray, "dimension", fmt.Sprintf("%T", dim))
		}
	}
	return shape, nil
}
