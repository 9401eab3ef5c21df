package wp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/wpgrad/internal/params"
	"github.com/born-ml/wpgrad/internal/tensor"
)

// LossFunc is a loss evaluated at explicit parameter values.
type LossFunc[T tensor.DType, B tensor.Backend] func(p *params.Set[T, B]) (float64, error)

// Reference computes a deterministic central-difference gradient of loss at
// p, one coordinate at a time, for checking estimates on small problems. It
// costs 2·N loss evaluations for N scalar parameters. step <= 0 selects the
// gonum default.
//
// The first error returned by loss aborts the result.
func Reference[T tensor.DType, B tensor.Backend](loss LossFunc[T, B], p *params.Set[T, B], step float64) (*params.Set[T, B], error) {
	var firstErr error
	f := func(x []float64) float64 {
		if firstErr != nil {
			return math.NaN()
		}
		q, err := params.Unflatten(p, x)
		if err != nil {
			firstErr = err
			return math.NaN()
		}
		v, err := loss(q)
		if err != nil {
			firstErr = err
			return math.NaN()
		}
		return v
	}

	settings := &fd.Settings{Formula: fd.Central}
	if step > 0 {
		settings.Step = step
	}

	grad := fd.Gradient(nil, f, params.Flatten(p), settings)
	if firstErr != nil {
		return nil, firstErr
	}
	return params.Unflatten(p, grad)
}

// CosineSimilarity returns the cosine of the angle between a and b viewed as
// flat vectors over a's keys. It returns 0 if either vector is zero. b must
// hold every key of a with the same shape.
func CosineSimilarity[T tensor.DType, B tensor.Backend](a, b *params.Set[T, B]) (float64, error) {
	x := params.Flatten(a)
	y := make([]float64, 0, len(x))
	for k, ta := range a.All() {
		tb, ok := b.Get(k)
		if !ok {
			return 0, &params.KeyError{Op: "cosine", Key: k}
		}
		if !ta.Shape().Equal(tb.Shape()) {
			return 0, fmt.Errorf("%w: cosine %q: %v vs %v", params.ErrShapeMismatch, k, ta.Shape(), tb.Shape())
		}
		y = append(y, tb.Float64s()...)
	}

	nx, ny := floats.Norm(x, 2), floats.Norm(y, 2)
	if nx == 0 || ny == 0 {
		return 0, nil
	}
	return floats.Dot(x, y) / (nx * ny), nil
}
