package perturb_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/wpgrad/internal/backend/cpu"
	"github.com/born-ml/wpgrad/internal/params"
	"github.com/born-ml/wpgrad/internal/perturb"
	"github.com/born-ml/wpgrad/internal/tensor"
)

type Backend = *cpu.CPUBackend

func model(b Backend) *params.Set[float64, Backend] {
	return params.New(
		params.Entry("conv", tensor.Zeros[float64](tensor.Shape{2, 3, 4}, b)),
		params.Entry("weight", tensor.Zeros[float64](tensor.Shape{5, 2}, b)),
		params.Entry("bias", tensor.Zeros[float64](tensor.Shape{2}, b)),
		params.Entry("gain", tensor.Zeros[float64](tensor.Shape{}, b)),
	)
}

func TestSample_MatchesKeysAndShapes(t *testing.T) {
	b := cpu.New()
	p := model(b)

	dist, err := perturb.Normal[float64](0.1, 1, b)
	require.NoError(t, err)

	h, err := perturb.Sample[float64, Backend](dist, p)
	require.NoError(t, err)

	assert.Equal(t, p.Keys(), h.Keys())
	for k, x := range p.All() {
		y, ok := h.Get(k)
		require.True(t, ok, k)
		assert.True(t, x.Shape().Equal(y.Shape()), "%s: %v vs %v", k, x.Shape(), y.Shape())
	}
}

func TestSample_EmptySet(t *testing.T) {
	b := cpu.New()
	calls := 0
	dist := perturb.Func[float64, Backend](func(shape tensor.Shape) (*tensor.Tensor[float64, Backend], error) {
		calls++
		return tensor.Zeros[float64](shape, b), nil
	})

	h, err := perturb.Sample[float64, Backend](dist, params.New[float64, Backend]())
	require.NoError(t, err)
	assert.Equal(t, 0, h.Len())
	assert.Zero(t, calls)
}

func TestSample_PropagatesDistributionError(t *testing.T) {
	b := cpu.New()
	errRNG := errors.New("rng exhausted")
	dist := perturb.Func[float64, Backend](func(tensor.Shape) (*tensor.Tensor[float64, Backend], error) {
		return nil, errRNG
	})

	h, err := perturb.Sample[float64, Backend](dist, model(b))
	assert.Nil(t, h)
	assert.Same(t, errRNG, err)
}

func TestSample_RejectsWrongShape(t *testing.T) {
	b := cpu.New()
	dist := perturb.Func[float64, Backend](func(tensor.Shape) (*tensor.Tensor[float64, Backend], error) {
		return tensor.Zeros[float64](tensor.Shape{1}, b), nil
	})

	_, err := perturb.Sample[float64, Backend](dist, model(b))
	assert.ErrorIs(t, err, params.ErrShapeMismatch)
}

func TestConstant(t *testing.T) {
	b := cpu.New()
	h, err := perturb.Sample[float32, Backend](
		perturb.Constant[float32](1, b),
		params.New(params.Entry("w", tensor.Zeros[float32](tensor.Shape{3}, b))),
	)
	require.NoError(t, err)

	w, _ := h.Get("w")
	assert.Equal(t, []float32{1, 1, 1}, w.Data())
}

func TestSeedIsReproducible(t *testing.T) {
	b := cpu.New()
	p := model(b)

	draw := func(seed uint64) []float64 {
		dist, err := perturb.Normal[float64](1, seed, b)
		require.NoError(t, err)
		h, err := perturb.Sample[float64, Backend](dist, p)
		require.NoError(t, err)
		return params.Flatten(h)
	}

	assert.Equal(t, draw(7), draw(7))
	assert.NotEqual(t, draw(7), draw(8))
}

// Consecutive calls on one distribution draw fresh values.
func TestSampleIsNotCached(t *testing.T) {
	b := cpu.New()
	dist, err := perturb.Normal[float64](1, 3, b)
	require.NoError(t, err)

	first, err := perturb.Sample[float64, Backend](dist, model(b))
	require.NoError(t, err)
	second, err := perturb.Sample[float64, Backend](dist, model(b))
	require.NoError(t, err)

	assert.NotEqual(t, params.Flatten(first), params.Flatten(second))
}

func TestNormalMoments(t *testing.T) {
	b := cpu.New()
	const sigma = 0.5
	dist, err := perturb.Normal[float64](sigma, 42, b)
	require.NoError(t, err)
	assert.Equal(t, sigma, dist.Scale())

	x, err := dist.Sample(tensor.Shape{20000})
	require.NoError(t, err)

	mean, std := moments(x.Data())
	assert.InDelta(t, 0, mean, 0.02)
	assert.InDelta(t, sigma, std, 0.02)
}

func TestRademacher(t *testing.T) {
	b := cpu.New()
	dist, err := perturb.Rademacher[float64](0.25, 9, b)
	require.NoError(t, err)

	x, err := dist.Sample(tensor.Shape{10000})
	require.NoError(t, err)

	pos := 0
	for _, v := range x.Data() {
		require.True(t, v == 0.25 || v == -0.25, "unexpected value %v", v)
		if v > 0 {
			pos++
		}
	}
	assert.InDelta(t, 5000, pos, 300)
	assert.Equal(t, 0.25, dist.Scale())
}

func TestUniform(t *testing.T) {
	b := cpu.New()
	dist, err := perturb.Uniform[float64](-1, 1, 5, b)
	require.NoError(t, err)
	assert.InDelta(t, 1/math.Sqrt(3), dist.Scale(), 1e-12)

	x, err := dist.Sample(tensor.Shape{1000})
	require.NoError(t, err)
	for _, v := range x.Data() {
		require.GreaterOrEqual(t, v, -1.0)
		require.Less(t, v, 1.0)
	}
}

func TestInvalidScale(t *testing.T) {
	b := cpu.New()

	for _, sigma := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := perturb.Normal[float64](sigma, 0, b)
		assert.ErrorIs(t, err, perturb.ErrInvalidScale, "normal sigma=%v", sigma)
		_, err = perturb.Rademacher[float64](sigma, 0, b)
		assert.ErrorIs(t, err, perturb.ErrInvalidScale, "rademacher sigma=%v", sigma)
	}

	_, err := perturb.Uniform[float64](1, 1, 0, b)
	assert.ErrorIs(t, err, perturb.ErrInvalidScale)
}

func TestSamplerRejectsInvalidShape(t *testing.T) {
	dist, err := perturb.Normal[float64](1, 0, cpu.New())
	require.NoError(t, err)

	_, err = dist.Sample(tensor.Shape{0, 2})
	assert.Error(t, err)
}

func moments(xs []float64) (mean, std float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		std += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(std / float64(len(xs)))
}
