package params

import (
	"fmt"

	"github.com/born-ml/wpgrad/internal/tensor"
)

// Flatten concatenates every tensor of s, in key order, into one float64 vector.
func Flatten[T tensor.DType, B tensor.Backend](s *Set[T, B]) []float64 {
	out := make([]float64, 0, s.NumElements())
	for _, t := range s.All() {
		out = append(out, t.Float64s()...)
	}
	return out
}

// Unflatten is the inverse of Flatten: it slices values into tensors with the
// keys, order, shapes and backends of template.
func Unflatten[T tensor.DType, B tensor.Backend](template *Set[T, B], values []float64) (*Set[T, B], error) {
	if n := template.NumElements(); n != len(values) {
		return nil, fmt.Errorf("%w: unflatten needs %d values, got %d", ErrShapeMismatch, n, len(values))
	}

	out := &Set[T, B]{
		keys:    make([]string, 0, template.Len()),
		entries: make(map[string]*tensor.Tensor[T, B], template.Len()),
	}
	offset := 0
	for k, t := range template.All() {
		n := t.NumElements()
		v, err := tensor.FromFloat64s[T](values[offset:offset+n], t.Shape(), t.Backend())
		if err != nil {
			return nil, fmt.Errorf("unflatten %q: %w", k, err)
		}
		out.put(k, v)
		offset += n
	}
	return out, nil
}
