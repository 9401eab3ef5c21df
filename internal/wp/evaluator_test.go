package wp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/wpgrad/internal/backend/cpu"
	"github.com/born-ml/wpgrad/internal/params"
	"github.com/born-ml/wpgrad/internal/perturb"
	"github.com/born-ml/wpgrad/internal/tensor"
	"github.com/born-ml/wpgrad/internal/wp"
)

// linear returns sum(x * w) so every adapter sees the same loss surface.
func linear(x []float64, w *tensor.Tensor[float64, Backend]) float64 {
	sum := 0.0
	for i, v := range w.Data() {
		sum += x[i] * v
	}
	return sum
}

func TestExplicit(t *testing.T) {
	b := cpu.New()
	p := single(b, tensor.Shape{3}, 1)
	x := []float64{1, 2, 3}

	var got []*Set
	eval := wp.Explicit(x, p, func(inputs []float64, q *Set) (float64, error) {
		got = append(got, q)
		w, _ := q.Get("w")
		return linear(inputs, w), nil
	})

	grad, err := wp.Estimate(eval, p, ones(b), wp.FFD)
	require.NoError(t, err)

	// Clean pass sees p itself, perturbed pass sees p + 1.
	require.Len(t, got, 2)
	assert.Same(t, p, got[0])
	w, _ := got[1].Get("w")
	assert.Equal(t, []float64{2, 2, 2}, w.Data())

	// L(p+1) - L(p) = 1+2+3 = 6
	g, _ := grad.Get("w")
	assert.Equal(t, []float64{6, 6, 6}, g.Data())
}

func TestWithPerturbation(t *testing.T) {
	b := cpu.New()
	p := single(b, tensor.Shape{3}, 1)
	x := []float64{1, 2, 3}

	eval := wp.WithPerturbation(x, p, func(inputs []float64, q, h *Set) (float64, error) {
		assert.Same(t, p, q)
		w, _ := q.Get("w")
		if h == nil {
			return linear(inputs, w), nil
		}
		dw, _ := h.Get("w")
		return linear(inputs, w.Add(dw)), nil
	})

	grad, err := wp.Estimate(eval, p, ones(b), wp.CFD)
	require.NoError(t, err)

	// L(p+1) - L(p-1) = 12
	g, _ := grad.Get("w")
	assert.Equal(t, []float64{12, 12, 12}, g.Data())
}

// snn stands in for a simulator that owns its weights.
type snn struct {
	weights *tensor.Tensor[float64, Backend]
}

func (n *snn) loss(inputs, targets []float64, h *Set) (float64, error) {
	w := n.weights
	if h != nil {
		dw, _ := h.Get("w")
		w = w.Add(dw)
	}
	out := linear(inputs, w)
	diff := out - targets[0]
	return diff * diff, nil
}

func TestInternal(t *testing.T) {
	b := cpu.New()
	p := single(b, tensor.Shape{2}, 0)
	net := &snn{weights: tensor.Zeros[float64](tensor.Shape{2}, b)}

	eval := wp.Internal([]float64{1, 1}, []float64{1}, net.loss)

	ffd, err := wp.Estimate(eval, p, ones(b), wp.FFD)
	require.NoError(t, err)
	cfd, err := wp.Estimate(eval, p, ones(b), wp.CFD)
	require.NoError(t, err)

	// out(+1) = 2 → loss 1, out(0) = 0 → loss 1, out(-1) = -2 → loss 9.
	g, _ := ffd.Get("w")
	assert.Equal(t, []float64{0, 0}, g.Data())
	g, _ = cfd.Get("w")
	assert.Equal(t, []float64{-8, -8}, g.Data())

	// The simulator's weights are untouched.
	assert.Equal(t, []float64{0, 0}, net.weights.Data())
}

func TestExplicit_Float32(t *testing.T) {
	b := cpu.New()
	p := params.New(params.Entry("w", tensor.Full[float32](tensor.Shape{2}, 1, b)))

	eval := wp.Explicit(0, p, func(_ int, q *params.Set[float32, Backend]) (float64, error) {
		w, _ := q.Get("w")
		return float64(w.Data()[0] + w.Data()[1]), nil
	})

	grad, err := wp.Estimate[float32, Backend](eval, p, perturb.Constant[float32](1, b), wp.FFD)
	require.NoError(t, err)

	g, _ := grad.Get("w")
	assert.Equal(t, []float32{2, 2}, g.Data())
}
