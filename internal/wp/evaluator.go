package wp

import (
	"github.com/born-ml/wpgrad/internal/params"
	"github.com/born-ml/wpgrad/internal/tensor"
)

// Evaluator is the black-box loss as seen by the estimator.
//
// Loss(nil) must return the clean loss at the current parameters and Loss(h)
// the loss with perturbation h applied. How h is applied is up to the
// implementation; the adapters below cover the usual call shapes. An error is
// handed back to the caller of Estimate unchanged.
type Evaluator[T tensor.DType, B tensor.Backend] interface {
	Loss(h *params.Set[T, B]) (float64, error)
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc[T tensor.DType, B tensor.Backend] func(h *params.Set[T, B]) (float64, error)

// Loss calls f(h).
func (f EvaluatorFunc[T, B]) Loss(h *params.Set[T, B]) (float64, error) {
	return f(h)
}

// ForwardFunc computes a loss for inputs at explicit parameter values.
type ForwardFunc[I any, T tensor.DType, B tensor.Backend] func(inputs I, p *params.Set[T, B]) (float64, error)

// Explicit evaluates f(inputs, p) for the clean loss and f(inputs, p+h) for
// a perturbed one. The addition uses params.Add, so h must carry every key
// of p.
func Explicit[I any, T tensor.DType, B tensor.Backend](inputs I, p *params.Set[T, B], f ForwardFunc[I, T, B]) Evaluator[T, B] {
	return EvaluatorFunc[T, B](func(h *params.Set[T, B]) (float64, error) {
		if h == nil {
			return f(inputs, p)
		}
		perturbed, err := params.Add(p, h)
		if err != nil {
			return 0, err
		}
		return f(inputs, perturbed)
	})
}

// PerturbedFunc computes a loss for inputs at parameters p, applying the
// perturbation h itself. h is nil on the clean pass.
type PerturbedFunc[I any, T tensor.DType, B tensor.Backend] func(inputs I, p, h *params.Set[T, B]) (float64, error)

// WithPerturbation evaluates f(inputs, p, h), leaving it to f to combine p and h.
func WithPerturbation[I any, T tensor.DType, B tensor.Backend](inputs I, p *params.Set[T, B], f PerturbedFunc[I, T, B]) Evaluator[T, B] {
	return EvaluatorFunc[T, B](func(h *params.Set[T, B]) (float64, error) {
		return f(inputs, p, h)
	})
}

// InternalFunc computes a loss for inputs against targets for a model that
// owns its parameters, such as a spiking network simulator. h is the
// perturbation to apply to the model's weights, nil on the clean pass.
type InternalFunc[I, Y any, T tensor.DType, B tensor.Backend] func(inputs I, targets Y, h *params.Set[T, B]) (float64, error)

// Internal evaluates f(inputs, targets, h). The Set passed to Estimate is then
// only used as the shape template for sampling.
func Internal[I, Y any, T tensor.DType, B tensor.Backend](inputs I, targets Y, f InternalFunc[I, Y, T, B]) Evaluator[T, B] {
	return EvaluatorFunc[T, B](func(h *params.Set[T, B]) (float64, error) {
		return f(inputs, targets, h)
	})
}
