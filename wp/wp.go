// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package wp estimates gradients of a black-box loss by weight perturbation.
//
// One random perturbation h, shaped like the parameters, is drawn per call
// and the loss is probed at most twice:
//
//	ffd: grad = h * (L(p+h) - L(p))
//	cfd: grad = h * (L(p+h) - L(p-h))
//
// The raw estimate is not divided by σ²; optim.UpdateWeights does that.
//
// Example:
//
//	dist, _ := perturb.Normal[float32](0.01, 42, backend)
//	eval := wp.Explicit(batch, weights, forward)
//	grad, err := wp.Estimate(eval, weights, dist, wp.CFD)
package wp

import (
	"github.com/born-ml/wpgrad/internal/wp"
	"github.com/born-ml/wpgrad/params"
	"github.com/born-ml/wpgrad/perturb"
	"github.com/born-ml/wpgrad/tensor"
)

// Method selects the finite-difference scheme.
type Method = wp.Method

// Supported methods.
const (
	FFD Method = wp.FFD
	CFD Method = wp.CFD
)

// ErrInvalidMethod is returned for any method other than FFD or CFD.
var ErrInvalidMethod = wp.ErrInvalidMethod

// Config holds configuration for an Estimator.
type Config = wp.Config

// Estimator is a reusable, configured gradient estimator.
type Estimator[T tensor.DType, B tensor.Backend] = wp.Estimator[T, B]

// Evaluator is the black-box loss. Loss(nil) is the clean loss.
type Evaluator[T tensor.DType, B tensor.Backend] = wp.Evaluator[T, B]

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc[T tensor.DType, B tensor.Backend] = wp.EvaluatorFunc[T, B]

// ForwardFunc computes a loss for inputs at explicit parameter values.
type ForwardFunc[I any, T tensor.DType, B tensor.Backend] = wp.ForwardFunc[I, T, B]

// PerturbedFunc computes a loss for inputs at p, applying h itself.
type PerturbedFunc[I any, T tensor.DType, B tensor.Backend] = wp.PerturbedFunc[I, T, B]

// InternalFunc computes a loss for a model that owns its parameters.
type InternalFunc[I, Y any, T tensor.DType, B tensor.Backend] = wp.InternalFunc[I, Y, T, B]

// LossFunc is a loss evaluated at explicit parameter values.
type LossFunc[T tensor.DType, B tensor.Backend] = wp.LossFunc[T, B]

// ParseMethod parses a case-insensitive method name.
func ParseMethod(s string) (Method, error) {
	return wp.ParseMethod(s)
}

// NewEstimator creates an Estimator. An empty Method defaults to FFD.
func NewEstimator[T tensor.DType, B tensor.Backend](config Config) (*Estimator[T, B], error) {
	return wp.NewEstimator[T, B](config)
}

// Estimate runs a single sequential estimation with the given method.
func Estimate[T tensor.DType, B tensor.Backend](
	eval Evaluator[T, B],
	p *params.Set[T, B],
	dist perturb.Distribution[T, B],
	method Method,
) (*params.Set[T, B], error) {
	return wp.Estimate(eval, p, dist, method)
}

// Explicit evaluates f(inputs, p) clean and f(inputs, p+h) perturbed.
func Explicit[I any, T tensor.DType, B tensor.Backend](inputs I, p *params.Set[T, B], f ForwardFunc[I, T, B]) Evaluator[T, B] {
	return wp.Explicit(inputs, p, f)
}

// WithPerturbation evaluates f(inputs, p, h).
func WithPerturbation[I any, T tensor.DType, B tensor.Backend](inputs I, p *params.Set[T, B], f PerturbedFunc[I, T, B]) Evaluator[T, B] {
	return wp.WithPerturbation(inputs, p, f)
}

// Internal evaluates f(inputs, targets, h) for a model that owns its weights.
func Internal[I, Y any, T tensor.DType, B tensor.Backend](inputs I, targets Y, f InternalFunc[I, Y, T, B]) Evaluator[T, B] {
	return wp.Internal(inputs, targets, f)
}

// Reference computes a deterministic central-difference gradient of loss at p.
func Reference[T tensor.DType, B tensor.Backend](loss LossFunc[T, B], p *params.Set[T, B], step float64) (*params.Set[T, B], error) {
	return wp.Reference(loss, p, step)
}

// CosineSimilarity returns the cosine of the angle between a and b as flat vectors.
func CosineSimilarity[T tensor.DType, B tensor.Backend](a, b *params.Set[T, B]) (float64, error) {
	return wp.CosineSimilarity(a, b)
}
