// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Operations allocate their result and panic on incompatible shapes.
//
// Implementations:
//   - backend/cpu: Pure Go, gonum kernels for float64
//
// Example:
//
//	import (
//	    "github.com/born-ml/wpgrad/tensor"
//	    "github.com/born-ml/wpgrad/backend/cpu"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)  // Uses backend.Add under the hood
type Backend interface {
	// Element-wise binary operations.
	Add(a, b *RawTensor) *RawTensor // Element-wise addition.
	Sub(a, b *RawTensor) *RawTensor // Element-wise subtraction.
	Mul(a, b *RawTensor) *RawTensor // Element-wise multiplication.

	// Scalar operations.
	MulScalar(x *RawTensor, scalar any) *RawTensor // Multiply by scalar of the tensor's Go type.

	// Metadata.
	Name() string   // Backend name.
	Device() Device // Compute device.
}
