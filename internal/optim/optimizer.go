// Package optim applies weight-perturbation gradient estimates to parameters.
//
// This package provides:
//   - UpdateWeights: the raw update rule p' = p - lr/σ² · grad
//   - WP: a small optimizer holding the learning rate and perturbation scale
//
// Example usage:
//
//	opt := optim.NewWP[float32, *cpu.CPUBackend](optim.WPConfig{LR: 1e-3, Scale: 0.01})
//
//	for step := range steps {
//	    grad, err := estimator.Estimate(eval, weights, dist)
//	    if err != nil {
//	        return err
//	    }
//	    weights, err = opt.Step(grad, weights)
//	    if err != nil {
//	        return err
//	    }
//	}
package optim

import (
	"github.com/born-ml/wpgrad/internal/params"
	"github.com/born-ml/wpgrad/internal/tensor"
)

// Optimizer is the base interface for weight-perturbation optimizers.
//
// Parameter sets are immutable: Step returns the updated parameters and
// leaves p untouched.
type Optimizer[T tensor.DType, B tensor.Backend] interface {
	// Step applies one gradient update and returns the new parameters.
	Step(grad, p *params.Set[T, B]) (*params.Set[T, B], error)

	// GetLR returns the current learning rate.
	GetLR() float64
}
