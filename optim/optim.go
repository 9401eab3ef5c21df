// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/wpgrad/internal/optim"
	"github.com/born-ml/wpgrad/params"
	"github.com/born-ml/wpgrad/tensor"
)

// Optimizer is the base interface for weight-perturbation optimizers.
type Optimizer[T tensor.DType, B tensor.Backend] = optim.Optimizer[T, B]

// WP applies raw estimates with a fixed learning rate and perturbation scale.
type WP[T tensor.DType, B tensor.Backend] = optim.WP[T, B]

// WPConfig holds configuration for the WP optimizer.
type WPConfig = optim.WPConfig

// ErrZeroScale is returned when the perturbation scale is zero.
var ErrZeroScale = optim.ErrZeroScale

// DefaultWPConfig returns the default WP configuration.
func DefaultWPConfig() WPConfig {
	return optim.DefaultWPConfig()
}

// NewWP creates a new WP optimizer. The configuration is used as given.
func NewWP[T tensor.DType, B tensor.Backend](config WPConfig) *WP[T, B] {
	return optim.NewWP[T, B](config)
}

// UpdateWeights returns p[k] - lr/scale² * grad[k] for every key of grad.
func UpdateWeights[T tensor.DType, B tensor.Backend](grad, p *params.Set[T, B], scale, lr float64) (*params.Set[T, B], error) {
	return optim.UpdateWeights(grad, p, scale, lr)
}
