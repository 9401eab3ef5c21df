// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package perturb provides the random perturbations used by weight
// perturbation.
//
// A Distribution draws a tensor of i.i.d. values for a requested shape;
// Sample applies it to every entry of a parameter Set. Normal, Rademacher and
// Uniform are backed by gonum's distuv and seeded explicitly, so a run is
// reproducible from its seed.
//
// Example:
//
//	dist, err := perturb.Normal[float32](0.01, 42, backend)
//	h, err := perturb.Sample(dist, weights)
package perturb

import (
	"github.com/born-ml/wpgrad/internal/perturb"
	"github.com/born-ml/wpgrad/params"
	"github.com/born-ml/wpgrad/tensor"
)

// Distribution draws a tensor of i.i.d. values of the requested shape.
type Distribution[T tensor.DType, B tensor.Backend] = perturb.Distribution[T, B]

// Func adapts a plain function to Distribution.
type Func[T tensor.DType, B tensor.Backend] = perturb.Func[T, B]

// Sampler is a seeded Distribution backed by a Rander.
type Sampler[T tensor.DType, B tensor.Backend] = perturb.Sampler[T, B]

// Rander is a source of i.i.d. float64 draws.
type Rander = perturb.Rander

// ErrInvalidScale is returned for a non-positive or non-finite spread.
var ErrInvalidScale = perturb.ErrInvalidScale

// Sample draws one perturbation per entry of p, with the same key, order and shape.
func Sample[T tensor.DType, B tensor.Backend](dist Distribution[T, B], p *params.Set[T, B]) (*params.Set[T, B], error) {
	return perturb.Sample(dist, p)
}

// Constant returns a Distribution that always yields tensors filled with v.
func Constant[T tensor.DType, B tensor.Backend](v T, b B) Func[T, B] {
	return perturb.Constant(v, b)
}

// NewSampler wraps src; scale should be the standard deviation of src.
func NewSampler[T tensor.DType, B tensor.Backend](src Rander, scale float64, b B) *Sampler[T, B] {
	return perturb.NewSampler[T](src, scale, b)
}

// Normal returns a zero-mean Gaussian sampler with standard deviation sigma.
func Normal[T tensor.DType, B tensor.Backend](sigma float64, seed uint64, b B) (*Sampler[T, B], error) {
	return perturb.Normal[T](sigma, seed, b)
}

// Rademacher returns a sampler drawing ±sigma with equal probability.
func Rademacher[T tensor.DType, B tensor.Backend](sigma float64, seed uint64, b B) (*Sampler[T, B], error) {
	return perturb.Rademacher[T](sigma, seed, b)
}

// Uniform returns a sampler drawing from [lo, hi).
func Uniform[T tensor.DType, B tensor.Backend](lo, hi float64, seed uint64, b B) (*Sampler[T, B], error) {
	return perturb.Uniform[T](lo, hi, seed, b)
}
