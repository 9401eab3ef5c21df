package optim

import (
	"errors"
	"fmt"

	"github.com/born-ml/wpgrad/internal/params"
	"github.com/born-ml/wpgrad/internal/tensor"
)

// ErrZeroScale is returned when the perturbation scale is zero.
var ErrZeroScale = errors.New("optim: perturbation scale must be non-zero")

// UpdateWeights applies one weight-perturbation step:
//
//	p'[k] = p[k] - lr / scale² * grad[k]
//
// scale is the standard deviation of the perturbation distribution used to
// produce grad. The result holds exactly grad's keys, in grad's order: every
// key of grad must be in p, and keys of p without a gradient are dropped.
//
// Integer dtypes truncate the scaled gradient toward zero before the addition.
func UpdateWeights[T tensor.DType, B tensor.Backend](grad, p *params.Set[T, B], scale, lr float64) (*params.Set[T, B], error) {
	if scale == 0 {
		return nil, fmt.Errorf("%w: lr=%g", ErrZeroScale, lr)
	}

	delta := params.Scale(grad, -lr/(scale*scale))
	return params.Add(delta, p)
}
