package wp_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/wpgrad/internal/backend/cpu"
	"github.com/born-ml/wpgrad/internal/params"
	"github.com/born-ml/wpgrad/internal/perturb"
	"github.com/born-ml/wpgrad/internal/tensor"
	"github.com/born-ml/wpgrad/internal/wp"
)

type (
	Backend = *cpu.CPUBackend
	Set     = params.Set[float64, Backend]
)

func single(b Backend, shape tensor.Shape, v float64) *Set {
	return params.New(params.Entry("w", tensor.Full[float64](shape, v, b)))
}

func ones(b Backend) perturb.Distribution[float64, Backend] {
	return perturb.Constant[float64](1, b)
}

// stubLoss returns clean for the unperturbed pass, perturbed for a positive
// perturbation and neg for a negative one, counting every call.
type stubLoss struct {
	clean, perturbed, neg float64
	calls                 atomic.Int64
	mu                    sync.Mutex
	seen                  []*Set
}

func (s *stubLoss) Loss(h *Set) (float64, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.seen = append(s.seen, h)
	s.mu.Unlock()

	if h == nil {
		return s.clean, nil
	}
	w, _ := h.Get("w")
	if w.Data()[0] < 0 {
		return s.neg, nil
	}
	return s.perturbed, nil
}

func TestEstimate_FFD(t *testing.T) {
	b := cpu.New()
	stub := &stubLoss{clean: 2, perturbed: 5}

	grad, err := wp.Estimate[float64, Backend](stub, single(b, tensor.Shape{2, 2}, 0.5), ones(b), wp.FFD)
	require.NoError(t, err)

	w, ok := grad.Get("w")
	require.True(t, ok)
	assert.True(t, w.Shape().Equal(tensor.Shape{2, 2}))
	assert.Equal(t, []float64{3, 3, 3, 3}, w.Data())
	assert.EqualValues(t, 2, stub.calls.Load())

	// Clean pass first, then the perturbation.
	require.Len(t, stub.seen, 2)
	assert.Nil(t, stub.seen[0])
	assert.NotNil(t, stub.seen[1])
}

func TestEstimate_CFD(t *testing.T) {
	b := cpu.New()
	stub := &stubLoss{clean: 100, perturbed: 5, neg: 1}

	grad, err := wp.Estimate[float64, Backend](stub, single(b, tensor.Shape{3}, 0), ones(b), wp.CFD)
	require.NoError(t, err)

	w, _ := grad.Get("w")
	assert.Equal(t, []float64{4, 4, 4}, w.Data())
	assert.EqualValues(t, 2, stub.calls.Load())

	// +h then -h, never a clean pass.
	require.Len(t, stub.seen, 2)
	plus, _ := stub.seen[0].Get("w")
	minus, _ := stub.seen[1].Get("w")
	assert.Equal(t, []float64{1, 1, 1}, plus.Data())
	assert.Equal(t, []float64{-1, -1, -1}, minus.Data())
}

func TestEstimate_InvalidMethod(t *testing.T) {
	b := cpu.New()

	for _, m := range []wp.Method{"", "FFD ", "spsa", "bfd"} {
		stub := &stubLoss{}
		sampled := 0
		dist := perturb.Func[float64, Backend](func(shape tensor.Shape) (*tensor.Tensor[float64, Backend], error) {
			sampled++
			return tensor.Zeros[float64](shape, b), nil
		})

		grad, err := wp.Estimate[float64, Backend](stub, single(b, tensor.Shape{1}, 0), dist, m)
		assert.Nil(t, grad)
		assert.ErrorIs(t, err, wp.ErrInvalidMethod, "method %q", m)
		assert.Contains(t, err.Error(), `"ffd"`)
		assert.Contains(t, err.Error(), `"cfd"`)
		assert.Zero(t, stub.calls.Load(), "method %q evaluated the loss", m)
		assert.Zero(t, sampled, "method %q sampled a perturbation", m)
	}
}

func TestEstimate_PropagatesEvaluationError(t *testing.T) {
	b := cpu.New()
	errForward := errors.New("forward pass diverged")

	for _, m := range []wp.Method{wp.FFD, wp.CFD} {
		calls := 0
		eval := wp.EvaluatorFunc[float64, Backend](func(*Set) (float64, error) {
			calls++
			if calls == 2 {
				return 0, errForward
			}
			return 1, nil
		})

		grad, err := wp.Estimate(eval, single(b, tensor.Shape{1}, 0), ones(b), m)
		assert.Nil(t, grad)
		assert.Same(t, errForward, err, "method %s", m)
	}
}

func TestEstimate_PropagatesSamplingError(t *testing.T) {
	b := cpu.New()
	errDist := errors.New("bad distribution")
	stub := &stubLoss{}
	dist := perturb.Func[float64, Backend](func(tensor.Shape) (*tensor.Tensor[float64, Backend], error) {
		return nil, errDist
	})

	_, err := wp.Estimate[float64, Backend](stub, single(b, tensor.Shape{1}, 0), dist, wp.CFD)
	assert.Same(t, errDist, err)
	assert.Zero(t, stub.calls.Load())
}

func TestEstimate_DoesNotMutateParams(t *testing.T) {
	b := cpu.New()
	p := single(b, tensor.Shape{4}, 3)
	before := p.Clone()

	dist, err := perturb.Normal[float64](0.1, 11, b)
	require.NoError(t, err)

	eval := wp.Explicit(struct{}{}, p, func(_ struct{}, q *Set) (float64, error) {
		w, _ := q.Get("w")
		return w.Data()[0], nil
	})

	for _, m := range []wp.Method{wp.FFD, wp.CFD} {
		_, err := wp.Estimate(eval, p, perturb.Distribution[float64, Backend](dist), m)
		require.NoError(t, err)
	}
	assert.True(t, params.AllClose(before, p, 0))
}

func TestEstimate_IntegerTruncatesProduct(t *testing.T) {
	b := cpu.New()
	p := params.New(params.Entry("w", tensor.Zeros[int64](tensor.Shape{2}, b)))
	eval := wp.EvaluatorFunc[int64, Backend](func(h *params.Set[int64, Backend]) (float64, error) {
		if h == nil {
			return 2, nil
		}
		return 2.5, nil
	})

	grad, err := wp.Estimate(eval, p, perturb.Distribution[int64, Backend](perturb.Constant[int64](3, b)), wp.FFD)
	require.NoError(t, err)

	// trunc(3 * 0.5) = 1
	w, _ := grad.Get("w")
	assert.Equal(t, []int64{1, 1}, w.Data())
}

func TestNewEstimator(t *testing.T) {
	e, err := wp.NewEstimator[float64, Backend](wp.Config{})
	require.NoError(t, err)
	assert.Equal(t, wp.FFD, e.Method())

	_, err = wp.NewEstimator[float64, Backend](wp.Config{Method: "nope"})
	assert.ErrorIs(t, err, wp.ErrInvalidMethod)
}

func TestEstimator_ConcurrentMatchesSequential(t *testing.T) {
	b := cpu.New()

	for _, m := range []wp.Method{wp.FFD, wp.CFD} {
		seq, err := wp.NewEstimator[float64, Backend](wp.Config{Method: m})
		require.NoError(t, err)
		con, err := wp.NewEstimator[float64, Backend](wp.Config{Method: m, Concurrent: true})
		require.NoError(t, err)

		stub := &stubLoss{clean: 2, perturbed: 5, neg: 1}
		p := single(b, tensor.Shape{2}, 0)

		g1, err := seq.Estimate(stub, p, ones(b))
		require.NoError(t, err)
		g2, err := con.Estimate(stub, p, ones(b))
		require.NoError(t, err)

		assert.True(t, params.AllClose(g1, g2, 0), "method %s", m)
	}
}

func TestParseMethod(t *testing.T) {
	m, err := wp.ParseMethod(" CFD ")
	require.NoError(t, err)
	assert.Equal(t, wp.CFD, m)
	assert.Equal(t, "cfd", m.String())

	_, err = wp.ParseMethod("central")
	assert.ErrorIs(t, err, wp.ErrInvalidMethod)
}
