package codec

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"gonum.org/v1/gonum/mat"

	"go.trai.ch/memo/internal/core/domain"
)

// previewElements caps how many array elements the display form shows.
const previewElements = 8

// EncodeDisplay converts a value into a lossy form meant for human eyes. It
// never fails: arrays render as short previews, non-finite numbers and
// values the durable encoding rejects fall back to strings.
func EncodeDisplay(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return t
	case float32:
		return EncodeDisplay(float64(t))
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Sprint(t)
		}
		return t
	case *domain.Array:
		if t == nil {
			return nil
		}
		return formatArray(t)
	case domain.Array:
		return formatArray(&t)
	case *mat.Dense:
		if t == nil {
			return nil
		}
		return formatArray(FromDense(t))
	case *mat.VecDense:
		if t == nil {
			return nil
		}
		return formatArray(FromVecDense(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = EncodeDisplay(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = EncodeDisplay(val)
		}
		return out
	default:
		return displayReflect(v)
	}
}

func displayReflect(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range rv.Len() {
			out[i] = EncodeDisplay(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return fmt.Sprintf("%v", v)
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = EncodeDisplay(iter.Value().Interface())
		}
		return out
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatArray renders an array as "dtype(dims): [first elements ...]".
func formatArray(a *domain.Array) string {
	dims := make([]string, len(a.Shape))
	for i, d := range a.Shape {
		dims[i] = fmt.Sprint(d)
	}

	n := a.Len()
	shown := min(n, previewElements)
	elems := make([]string, 0, shown+1)
	for i := range shown {
		elems = append(elems, fmt.Sprintf("%v", a.At(i)))
	}
	if n > shown {
		elems = append(elems, "...")
	}

	return fmt.Sprintf("%s(%s): [%s]", a.DType, strings.Join(dims, "x"), strings.Join(elems, " "))
}
