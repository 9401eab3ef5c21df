// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package params provides named, ordered collections of parameter tensors.
//
// A Set is what the estimator perturbs and what the optimizer updates. Sets
// are immutable; every operation returns a new Set.
//
// Binary operations iterate the keys of the LEFT operand only. A key of the
// left operand missing on the right fails with ErrKeyMismatch; extra keys on
// the right are ignored.
//
// Example:
//
//	backend := cpu.New()
//	p := params.New(
//	    params.Entry("weight", tensor.Zeros[float32](tensor.Shape{4, 2}, backend)),
//	    params.Entry("bias", tensor.Zeros[float32](tensor.Shape{2}, backend)),
//	)
//	q, err := params.Add(p, p)
package params

import (
	"github.com/born-ml/wpgrad/internal/params"
	"github.com/born-ml/wpgrad/tensor"
)

// Set is an ordered, immutable mapping from parameter name to tensor.
type Set[T tensor.DType, B tensor.Backend] = params.Set[T, B]

// KV is one key/tensor pair passed to New.
type KV[T tensor.DType, B tensor.Backend] = params.KV[T, B]

// KeyError reports the key missing from the right operand of a binary operation.
type KeyError = params.KeyError

// Errors.
var (
	ErrKeyMismatch   = params.ErrKeyMismatch
	ErrShapeMismatch = params.ErrShapeMismatch
)

// New creates a Set from entries, preserving their order.
func New[T tensor.DType, B tensor.Backend](entries ...KV[T, B]) *Set[T, B] {
	return params.New(entries...)
}

// Entry builds a KV.
func Entry[T tensor.DType, B tensor.Backend](key string, value *tensor.Tensor[T, B]) KV[T, B] {
	return params.Entry(key, value)
}

// FromMap creates a Set from a Go map with keys in sorted order.
func FromMap[T tensor.DType, B tensor.Backend](m map[string]*tensor.Tensor[T, B]) *Set[T, B] {
	return params.FromMap(m)
}

// Add returns a[k] + b[k] for every key of a.
func Add[T tensor.DType, B tensor.Backend](a, b *Set[T, B]) (*Set[T, B], error) {
	return params.Add(a, b)
}

// Sub returns a[k] - b[k] for every key of a.
func Sub[T tensor.DType, B tensor.Backend](a, b *Set[T, B]) (*Set[T, B], error) {
	return params.Sub(a, b)
}

// Mul returns a[k] * b[k] for every key of a.
func Mul[T tensor.DType, B tensor.Backend](a, b *Set[T, B]) (*Set[T, B], error) {
	return params.Mul(a, b)
}

// Scale returns a[k] * factor for every key of a. Integer dtypes truncate
// factor toward zero first.
func Scale[T tensor.DType, B tensor.Backend](a *Set[T, B], factor float64) *Set[T, B] {
	return params.Scale(a, factor)
}

// Neg returns -a.
func Neg[T tensor.DType, B tensor.Backend](a *Set[T, B]) *Set[T, B] {
	return params.Neg(a)
}

// AllClose reports whether a and b have the same keys and element-wise close
// tensors.
func AllClose[T tensor.DType, B tensor.Backend](a, b *Set[T, B], tol float64) bool {
	return params.AllClose(a, b, tol)
}

// Flatten concatenates every tensor of s, in key order, into one vector.
func Flatten[T tensor.DType, B tensor.Backend](s *Set[T, B]) []float64 {
	return params.Flatten(s)
}

// Unflatten slices values into a Set shaped like template.
func Unflatten[T tensor.DType, B tensor.Backend](template *Set[T, B], values []float64) (*Set[T, B], error) {
	return params.Unflatten(template, values)
}
