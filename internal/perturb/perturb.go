// Package perturb draws random perturbations shaped like a parameter Set.
package perturb

import (
	"fmt"

	"github.com/born-ml/wpgrad/internal/params"
	"github.com/born-ml/wpgrad/internal/tensor"
)

// Distribution draws a tensor of i.i.d. values of the requested shape.
//
// Reproducibility is entirely the distribution's business: Sample keeps no
// state between calls.
type Distribution[T tensor.DType, B tensor.Backend] interface {
	Sample(shape tensor.Shape) (*tensor.Tensor[T, B], error)
}

// Func adapts a plain function to Distribution.
type Func[T tensor.DType, B tensor.Backend] func(shape tensor.Shape) (*tensor.Tensor[T, B], error)

// Sample calls f(shape).
func (f Func[T, B]) Sample(shape tensor.Shape) (*tensor.Tensor[T, B], error) {
	return f(shape)
}

// Constant returns a Distribution that always yields tensors filled with v.
func Constant[T tensor.DType, B tensor.Backend](v T, b B) Func[T, B] {
	return func(shape tensor.Shape) (*tensor.Tensor[T, B], error) {
		if err := shape.Validate(); err != nil {
			return nil, err
		}
		return tensor.Full[T](shape, v, b), nil
	}
}

// Sample draws one perturbation per entry of p, with the same key, order and
// shape. An empty p yields an empty Set. Errors from dist are returned as-is.
func Sample[T tensor.DType, B tensor.Backend](dist Distribution[T, B], p *params.Set[T, B]) (*params.Set[T, B], error) {
	entries := make([]params.KV[T, B], 0, p.Len())
	for k, t := range p.All() {
		h, err := dist.Sample(t.Shape())
		if err != nil {
			return nil, err
		}
		if !h.Shape().Equal(t.Shape()) {
			return nil, fmt.Errorf("%w: perturbation for %q has shape %v, want %v",
				params.ErrShapeMismatch, k, h.Shape(), t.Shape())
		}
		entries = append(entries, params.Entry(k, h))
	}
	return params.New(entries...), nil
}
