// Package wp estimates gradients by weight perturbation.
//
// The loss is treated as a black box. One random perturbation h, shaped like
// the parameters, is drawn per call and the loss is probed once or twice:
//
//	ffd: grad = h * (L(p+h) - L(p))
//	cfd: grad = h * (L(p+h) - L(p-h))
//
// The estimate is not divided by the perturbation variance σ². For a
// zero-mean isotropic h, E[h·ΔL]/σ² approximates ∇L (twice ∇L for cfd), and
// optim.UpdateWeights applies the 1/σ² factor.
//
// Example:
//
//	dist, _ := perturb.Normal[float32](0.01, seed, backend)
//	eval := wp.Explicit(batch, weights, forward)
//	grad, err := wp.Estimate(eval, weights, dist, wp.CFD)
//	weights, err = optim.UpdateWeights(grad, weights, 0.01, 1e-3)
package wp

import (
	"github.com/born-ml/wpgrad/internal/params"
	"github.com/born-ml/wpgrad/internal/parallel"
	"github.com/born-ml/wpgrad/internal/perturb"
	"github.com/born-ml/wpgrad/internal/tensor"
)

// Config holds configuration for an Estimator.
type Config struct {
	Method     Method // Finite-difference scheme (default: FFD)
	Concurrent bool   // Run the two loss evaluations on separate goroutines
}

// Estimator is a reusable, configured gradient estimator. It holds no state
// between calls.
type Estimator[T tensor.DType, B tensor.Backend] struct {
	method Method
	exec   parallel.Config
}

// NewEstimator creates an Estimator. An empty Method defaults to FFD; any
// other unknown value fails with ErrInvalidMethod.
//
// With Concurrent set, the evaluator must be safe for concurrent use.
func NewEstimator[T tensor.DType, B tensor.Backend](config Config) (*Estimator[T, B], error) {
	if config.Method == "" {
		config.Method = FFD
	}
	if err := config.Method.Validate(); err != nil {
		return nil, err
	}

	return &Estimator[T, B]{
		method: config.Method,
		exec:   parallel.Config{Enabled: config.Concurrent, NumWorkers: 2, MinChunkSize: 1},
	}, nil
}

// Method returns the configured finite-difference scheme.
func (e *Estimator[T, B]) Method() Method {
	return e.method
}

// Estimate draws one perturbation shaped like p and returns the raw
// gradient estimate, keyed and shaped like p.
func (e *Estimator[T, B]) Estimate(
	eval Evaluator[T, B],
	p *params.Set[T, B],
	dist perturb.Distribution[T, B],
) (*params.Set[T, B], error) {
	return estimate(eval, p, dist, e.method, e.exec)
}

// Estimate runs a single sequential estimation with the given method.
//
// The method is checked before anything else: an invalid method fails with
// ErrInvalidMethod without sampling or evaluating. Errors from eval and dist
// are returned unchanged, and no partial result is produced.
func Estimate[T tensor.DType, B tensor.Backend](
	eval Evaluator[T, B],
	p *params.Set[T, B],
	dist perturb.Distribution[T, B],
	method Method,
) (*params.Set[T, B], error) {
	return estimate(eval, p, dist, method, parallel.Config{})
}

func estimate[T tensor.DType, B tensor.Backend](
	eval Evaluator[T, B],
	p *params.Set[T, B],
	dist perturb.Distribution[T, B],
	method Method,
	exec parallel.Config,
) (*params.Set[T, B], error) {
	if err := method.Validate(); err != nil {
		return nil, err
	}

	h, err := perturb.Sample(dist, p)
	if err != nil {
		return nil, err
	}

	// grad = h * (probe - base). Sequential order is clean then perturbed
	// for FFD, and +h then -h for CFD.
	var probe, base float64
	probeTask := func() (err error) {
		probe, err = eval.Loss(h)
		return err
	}

	var tasks []func() error
	switch method {
	case FFD:
		baseTask := func() (err error) {
			base, err = eval.Loss(nil)
			return err
		}
		tasks = []func() error{baseTask, probeTask}
	case CFD:
		neg := params.Neg(h)
		baseTask := func() (err error) {
			base, err = eval.Loss(neg)
			return err
		}
		tasks = []func() error{probeTask, baseTask}
	}

	if err := parallel.Run(exec, tasks...); err != nil {
		return nil, err
	}

	return params.Scale(h, probe-base), nil
}
