package optim

import (
	"github.com/born-ml/wpgrad/internal/params"
	"github.com/born-ml/wpgrad/internal/tensor"
)

// Verify that WP implements Optimizer.
var _ Optimizer[float32, tensor.Backend] = (*WP[float32, tensor.Backend])(nil)

// WP applies raw weight-perturbation estimates with a fixed learning rate and
// perturbation scale.
//
// Update rule:
//
//	param = param - lr / scale² * grad
//
// Example:
//
//	opt := optim.NewWP[float32, *cpu.CPUBackend](optim.WPConfig{
//	    LR:    0.01,
//	    Scale: dist.Scale(),
//	})
//	weights, err = opt.Step(grad, weights)
type WP[T tensor.DType, B tensor.Backend] struct {
	lr    float64
	scale float64
}

// WPConfig holds configuration for the WP optimizer.
type WPConfig struct {
	LR    float64 // Learning rate (default: 0.01)
	Scale float64 // Perturbation standard deviation σ (default: 1.0)
}

// DefaultWPConfig returns the default WP configuration.
func DefaultWPConfig() WPConfig {
	return WPConfig{LR: 0.01, Scale: 1.0}
}

// NewWP creates a new WP optimizer.
//
// The configuration is used as given: LR 0 makes Step an identity update on
// the gradient's keys, and Scale 0 makes Step fail with ErrZeroScale. Start
// from DefaultWPConfig for the defaults.
func NewWP[T tensor.DType, B tensor.Backend](config WPConfig) *WP[T, B] {
	return &WP[T, B]{
		lr:    config.LR,
		scale: config.Scale,
	}
}

// Step returns UpdateWeights(grad, p, scale, lr).
func (w *WP[T, B]) Step(grad, p *params.Set[T, B]) (*params.Set[T, B], error) {
	return UpdateWeights(grad, p, w.scale, w.lr)
}

// GetLR returns the learning rate.
func (w *WP[T, B]) GetLR() float64 {
	return w.lr
}

// Config returns the configuration.
func (w *WP[T, B]) Config() WPConfig {
	return WPConfig{LR: w.lr, Scale: w.scale}
}
