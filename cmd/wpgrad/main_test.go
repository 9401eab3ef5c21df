package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/wpgrad/backend/cpu"
	"github.com/born-ml/wpgrad/optim"
	"github.com/born-ml/wpgrad/params"
	"github.com/born-ml/wpgrad/tensor"
	"github.com/born-ml/wpgrad/wp"
)

func trueModel(t *testing.T, d *Dataset, b Backend) *Params {
	t.Helper()
	w, err := tensor.FromSlice(d.Weight, tensor.Shape{d.Dim()}, b)
	require.NoError(t, err)
	return params.New(
		params.Entry("weight", w),
		params.Entry("bias", tensor.Scalar(d.Bias, b)),
	)
}

func TestDataset_MSE(t *testing.T) {
	b := cpu.New()
	noiseless := NewDataset(32, 3, 0, 7)

	loss, err := noiseless.MSE(trueModel(t, noiseless, b))
	require.NoError(t, err)
	assert.InDelta(t, 0, loss, 1e-20)

	loss, err = noiseless.MSE(zeroModel(3, b))
	require.NoError(t, err)
	assert.Positive(t, loss)

	_, err = noiseless.MSE(params.New[float64, Backend]())
	assert.ErrorIs(t, err, params.ErrKeyMismatch)
}

func TestDataset_Deterministic(t *testing.T) {
	a := NewDataset(4, 2, 0.1, 3)
	b := NewDataset(4, 2, 0.1, 3)
	assert.Equal(t, a, b)
}

func TestEvaluatorsAgree(t *testing.T) {
	b := cpu.New()
	data := NewDataset(16, 2, 0.1, 5)
	p := zeroModel(2, b)

	explicit, err := newEvaluator("explicit", data, p)
	require.NoError(t, err)
	perturbed, err := newEvaluator("perturbed", data, p)
	require.NoError(t, err)

	h := trueModel(t, data, b)
	for _, probe := range []*Params{nil, h} {
		l1, err := explicit.Loss(probe)
		require.NoError(t, err)
		l2, err := perturbed.Loss(probe)
		require.NoError(t, err)
		assert.InDelta(t, l1, l2, 1e-12)
	}

	_, err = newEvaluator("implicit", data, p)
	assert.Error(t, err)
}

func TestNewDistribution(t *testing.T) {
	b := cpu.New()

	for _, name := range []string{"normal", "rademacher"} {
		dist, err := newDistribution(name, 0.1, 1, b)
		require.NoError(t, err)
		x, err := dist.Sample(tensor.Shape{5})
		require.NoError(t, err)
		assert.True(t, x.Shape().Equal(tensor.Shape{5}))
	}

	_, err := newDistribution("cauchy", 0.1, 1, b)
	assert.Error(t, err)
	_, err = newDistribution("normal", 0, 1, b)
	assert.Error(t, err)
}

func TestFitReducesLoss(t *testing.T) {
	b := cpu.New()
	data := NewDataset(64, 2, 0.05, 9)
	dist, err := newDistribution("normal", 0.01, 2, b)
	require.NoError(t, err)

	estimator, err := wp.NewEstimator[float64, Backend](wp.Config{Method: wp.CFD})
	require.NoError(t, err)
	opt := optim.NewWP[float64, Backend](optim.WPConfig{LR: 0.02, Scale: 0.01})

	model := zeroModel(data.Dim(), b)
	before, err := data.MSE(model)
	require.NoError(t, err)

	for range 100 {
		eval, err := newEvaluator("explicit", data, model)
		require.NoError(t, err)
		grad, err := averageEstimate(estimator, eval, model, dist, 8)
		require.NoError(t, err)
		model, err = opt.Step(grad, model)
		require.NoError(t, err)
	}

	after, err := data.MSE(model)
	require.NoError(t, err)
	assert.Less(t, after, before/4)
}
