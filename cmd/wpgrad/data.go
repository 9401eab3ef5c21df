package main

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/wpgrad/backend/cpu"
	"github.com/born-ml/wpgrad/params"
	"github.com/born-ml/wpgrad/tensor"
)

// Backend is the backend every command runs on.
type Backend = *cpu.Backend

// Params is a float64 parameter set on the CPU backend.
type Params = params.Set[float64, Backend]

// Dataset holds a synthetic regression problem y = w·x + b + noise.
type Dataset struct {
	X      [][]float64
	Y      []float64
	Weight []float64 // Ground-truth weight
	Bias   float64   // Ground-truth bias
}

// NewDataset draws n samples with dim features. The ground truth and the
// inputs come from the same seeded stream.
func NewDataset(n, dim int, noise float64, seed uint64) *Dataset {
	src := rand.NewPCG(seed, seed^0x5851f42d4c957f2d)
	std := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	d := &Dataset{
		X:      make([][]float64, n),
		Y:      make([]float64, n),
		Weight: make([]float64, dim),
		Bias:   std.Rand(),
	}
	for i := range d.Weight {
		d.Weight[i] = std.Rand()
	}
	for i := range d.X {
		x := make([]float64, dim)
		for j := range x {
			x[j] = std.Rand()
		}
		d.X[i] = x
		d.Y[i] = floats.Dot(d.Weight, x) + d.Bias + noise*std.Rand()
	}
	return d
}

// Dim returns the number of features.
func (d *Dataset) Dim() int {
	return len(d.Weight)
}

// MSE returns the mean squared error of the linear model p on d.
func (d *Dataset) MSE(p *Params) (float64, error) {
	w, ok := p.Get("weight")
	if !ok {
		return 0, &params.KeyError{Op: "mse", Key: "weight"}
	}
	b, ok := p.Get("bias")
	if !ok {
		return 0, &params.KeyError{Op: "mse", Key: "bias"}
	}

	weight, bias := w.Data(), b.Item()
	sum := 0.0
	for i, x := range d.X {
		diff := floats.Dot(weight, x) + bias - d.Y[i]
		sum += diff * diff
	}
	return sum / float64(len(d.X)), nil
}

// zeroModel returns an all-zero linear model for dim features.
func zeroModel(dim int, b Backend) *Params {
	return params.New(
		params.Entry("weight", tensor.Zeros[float64](tensor.Shape{dim}, b)),
		params.Entry("bias", tensor.Scalar[float64](0, b)),
	)
}
